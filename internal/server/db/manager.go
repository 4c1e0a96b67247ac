// Package db wires the server repositories to a concrete database and runs
// the schema migrations.
package db

import (
	"context"
	"database/sql"

	"github.com/daydash-app/daydash/internal/server/repositories/rows"
	"github.com/daydash-app/daydash/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context) error
	Conn() *sql.DB
	Users() users.Repository
	Rows() rows.Repository
	Close() error
}
