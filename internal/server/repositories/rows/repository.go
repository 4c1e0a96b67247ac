// Package rows provides the generic synchronized-row persistence of the row
// service: every entity collection shares one table, domain columns live in
// a JSON document.
package rows

import (
	"context"
	"time"

	"github.com/daydash-app/daydash/internal/server/models"
)

// Repository is the row persistence surface.
type Repository interface {
	// SelectAll returns every row of tbl owned by userID, ordered by the
	// given document or base column.
	SelectAll(ctx context.Context, tbl, userID, orderBy string) ([]*models.Row, error)
	// Get returns one owned row or common.ErrNotFound.
	Get(ctx context.Context, tbl, id, userID string) (*models.Row, error)
	// Upsert inserts or updates by (tbl, id). An existing row owned by a
	// different user fails with common.ErrOwnershipConflict.
	Upsert(ctx context.Context, row *models.Row) error
	// Update applies a partial update to an owned row; common.ErrNotFound
	// when no such row.
	Update(ctx context.Context, tbl, id, userID string, patch *RowPatch) error
	// Delete physically removes an owned row; common.ErrNotFound when no
	// such row.
	Delete(ctx context.Context, tbl, id, userID string) error
}

// RowPatch is a partial row update: nil fields stay untouched, DocMerge is
// merged over the stored document.
type RowPatch struct {
	Trashed   *bool
	UpdatedAt *time.Time
	DocMerge  []byte
}
