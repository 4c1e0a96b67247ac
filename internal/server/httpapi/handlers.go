package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"

	"github.com/daydash-app/daydash/internal/common"
)

var tableNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]{0,62}$`)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}
	token, err := s.users.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			http.Error(w, "username is taken", http.StatusConflict)
			return
		}
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}
	token, err := s.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrAuthRequired) {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token})
}

func (s *Server) handleListRows(w http.ResponseWriter, r *http.Request) {
	tbl := r.PathValue("table")
	if !tableNamePattern.MatchString(tbl) {
		http.Error(w, "invalid table name", http.StatusBadRequest)
		return
	}
	rows, err := s.rows.List(r.Context(), tbl, userID(r), r.URL.Query().Get("order"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleUpsertRow(w http.ResponseWriter, r *http.Request) {
	tbl := r.PathValue("table")
	if !tableNamePattern.MatchString(tbl) {
		http.Error(w, "invalid table name", http.StatusBadRequest)
		return
	}
	var flat map[string]any
	if err := json.NewDecoder(r.Body).Decode(&flat); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}
	if id, _ := flat["id"].(string); id != r.PathValue("id") {
		http.Error(w, "row id does not match path", http.StatusBadRequest)
		return
	}
	stored, err := s.rows.Upsert(r.Context(), tbl, userID(r), flat)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrInvalidRow):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, common.ErrOwnershipConflict):
			http.Error(w, "row belongs to another user", http.StatusConflict)
		default:
			s.fail(w, r, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

func (s *Server) handlePatchRow(w http.ResponseWriter, r *http.Request) {
	tbl := r.PathValue("table")
	if !tableNamePattern.MatchString(tbl) {
		http.Error(w, "invalid table name", http.StatusBadRequest)
		return
	}
	var flat map[string]any
	if err := json.NewDecoder(r.Body).Decode(&flat); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}
	err := s.rows.Patch(r.Context(), tbl, r.PathValue("id"), userID(r), flat)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrInvalidRow):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, common.ErrNotFound):
			http.Error(w, "row not found", http.StatusNotFound)
		default:
			s.fail(w, r, err)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteRow(w http.ResponseWriter, r *http.Request) {
	tbl := r.PathValue("table")
	if !tableNamePattern.MatchString(tbl) {
		http.Error(w, "invalid table name", http.StatusBadRequest)
		return
	}
	err := s.rows.Delete(r.Context(), tbl, r.PathValue("id"), userID(r))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			http.Error(w, "row not found", http.StatusNotFound)
			return
		}
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.log.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err.Error())
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
