// Package backend speaks the row-oriented table protocol of the remote
// persistence service: authenticated fetch-all, upsert-by-id and
// update/delete-by-id, JSON over HTTP. It also owns the client session
// (login, token storage, user-id resolution).
package backend

import "context"

// Row is one backend row in its raw (snake_case) column form.
type Row = map[string]any

// TableClient is the request/response surface of one backend table service.
// Operations are independent; callers provide any ordering they need.
type TableClient interface {
	// Select returns every row of table owned by the caller, ordered by the
	// named column. It never returns a partial result.
	Select(ctx context.Context, table, orderBy string) ([]Row, error)
	// Upsert inserts or updates the row keyed by its "id" column and returns
	// the canonical stored representation. Idempotent.
	Upsert(ctx context.Context, table string, row Row) (Row, error)
	// Update applies a partial column update to the row with the given id.
	Update(ctx context.Context, table, id string, cols Row) error
	// Delete physically removes the row with the given id.
	Delete(ctx context.Context, table, id string) error
}

// UserResolver yields the authenticated user's id, or ErrAuthRequired when
// no session is established. Gateway writes and scheduler ticks are gated on
// it.
type UserResolver interface {
	UserID(ctx context.Context) (string, error)
}
