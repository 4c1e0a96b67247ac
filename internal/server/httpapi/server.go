// Package httpapi exposes the row service over JSON/HTTP.
package httpapi

import (
	"net/http"

	"github.com/daydash-app/daydash/internal/logging"
	"github.com/daydash-app/daydash/internal/server/services"
)

// Server routes the versioned HTTP API onto the user and row services.
type Server struct {
	users     *services.UserService
	rows      *services.RowService
	secretKey string
	log       logging.Logger
}

func NewServer(users *services.UserService, rows *services.RowService, secretKey string, log logging.Logger) *Server {
	return &Server{users: users, rows: rows, secretKey: secretKey, log: log}
}

// Handler builds the route table. Row endpoints require a Bearer token.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("POST /v1/auth/register", s.handleRegister)
	mux.HandleFunc("POST /v1/auth/login", s.handleLogin)

	mux.Handle("GET /v1/tables/{table}/rows", s.authenticated(s.handleListRows))
	mux.Handle("PUT /v1/tables/{table}/rows/{id}", s.authenticated(s.handleUpsertRow))
	mux.Handle("PATCH /v1/tables/{table}/rows/{id}", s.authenticated(s.handlePatchRow))
	mux.Handle("DELETE /v1/tables/{table}/rows/{id}", s.authenticated(s.handleDeleteRow))

	return s.logged(mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
