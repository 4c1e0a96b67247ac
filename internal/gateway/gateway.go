// Package gateway adapts one backend table to one entity type. It is the
// only component that issues remote requests for entity data: fetch-all,
// upsert, soft delete, hard delete.
package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/daydash-app/daydash/internal/backend"
	"github.com/daydash-app/daydash/internal/common"
	"github.com/daydash-app/daydash/internal/model"
)

// Gateway is the per-table adapter over the backend's row protocol. One
// instance per table. Operations are independent and impose no ordering on
// each other.
type Gateway[T model.Entity] struct {
	schema *model.Schema[T]
	rows   backend.TableClient
	auth   backend.UserResolver
	now    func() time.Time
}

func New[T model.Entity](schema *model.Schema[T], rows backend.TableClient, auth backend.UserResolver) *Gateway[T] {
	return &Gateway[T]{schema: schema, rows: rows, auth: auth, now: time.Now}
}

// Table returns the backend table this gateway serves.
func (g *Gateway[T]) Table() string { return g.schema.Table }

// FetchAll retrieves every row of the table in the schema's stable order and
// maps each to an entity (IsSynced=true). Any transport or mapping failure
// fails the whole call; FetchAll never returns a partial result.
func (g *Gateway[T]) FetchAll(ctx context.Context) ([]T, error) {
	rows, err := g.rows.Select(ctx, g.schema.Table, g.schema.OrderBy)
	if err != nil {
		return nil, &common.BackendError{Op: "select", Table: g.schema.Table, Err: err}
	}
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		e, err := g.schema.FromRaw(row)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// Upsert resolves the authenticated user, maps the entity to raw form, and
// performs an insert-or-update keyed by id. Returns the backend's canonical
// post-write representation. Re-sending the same entity yields the same
// stored state.
func (g *Gateway[T]) Upsert(ctx context.Context, e T) (T, error) {
	var zero T
	userID, err := g.auth.UserID(ctx)
	if err != nil {
		return zero, err
	}
	raw, err := g.schema.ToRaw(e, userID)
	if err != nil {
		return zero, err
	}
	stored, err := g.rows.Upsert(ctx, g.schema.Table, raw)
	if err != nil {
		return zero, &common.BackendError{Op: "upsert", Table: g.schema.Table, Err: err}
	}
	canonical, err := g.schema.FromRaw(stored)
	if err != nil {
		return zero, err
	}
	return canonical, nil
}

// SoftDelete sets trashed=true on the remote record. The row stays in place
// and keeps synchronizing.
func (g *Gateway[T]) SoftDelete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("soft delete without id")
	}
	cols := backend.Row{
		"trashed":    true,
		"updated_at": g.now().UTC().Format(time.RFC3339Nano),
	}
	if err := g.rows.Update(ctx, g.schema.Table, id, cols); err != nil {
		return &common.BackendError{Op: "update", Table: g.schema.Table, Err: err}
	}
	return nil
}

// HardDelete physically removes the remote row. Irreversible; reserved for
// records that never should have existed remotely.
func (g *Gateway[T]) HardDelete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("hard delete without id")
	}
	if err := g.rows.Delete(ctx, g.schema.Table, id); err != nil {
		return &common.BackendError{Op: "delete", Table: g.schema.Table, Err: err}
	}
	return nil
}
