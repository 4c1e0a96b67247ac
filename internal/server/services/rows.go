// Package services contains the server-side business logic of the row
// service: account handling and synchronized-row operations scoped to the
// authenticated owner.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/daydash-app/daydash/internal/common"
	"github.com/daydash-app/daydash/internal/server/models"
	"github.com/daydash-app/daydash/internal/server/repositories/rows"
)

// RowService exposes the table protocol over the row repository, translating
// between the wire's flat column maps and the stored shape.
type RowService struct {
	repo rows.Repository
}

func NewRowService(repo rows.Repository) *RowService {
	return &RowService{repo: repo}
}

// base columns recognized in the flat wire form
const (
	colID        = "id"
	colUserID    = "user_id"
	colTrashed   = "trashed"
	colCreatedAt = "created_at"
	colUpdatedAt = "updated_at"
)

// List returns every row of tbl owned by userID in the requested order.
func (s *RowService) List(ctx context.Context, tbl, userID, orderBy string) ([]map[string]any, error) {
	stored, err := s.repo.SelectAll(ctx, tbl, userID, orderBy)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(stored))
	for _, row := range stored {
		flat, err := flatten(row)
		if err != nil {
			return nil, err
		}
		out = append(out, flat)
	}
	return out, nil
}

// Upsert stores the flat row under (tbl, id) for userID and returns the
// canonical stored row. The ownership column is always stamped server-side.
func (s *RowService) Upsert(ctx context.Context, tbl, userID string, flat map[string]any) (map[string]any, error) {
	row, err := split(tbl, userID, flat)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Upsert(ctx, row); err != nil {
		return nil, err
	}
	stored, err := s.repo.Get(ctx, tbl, row.ID, userID)
	if err != nil {
		return nil, err
	}
	return flatten(stored)
}

// Patch applies a partial column update to an owned row.
func (s *RowService) Patch(ctx context.Context, tbl, id, userID string, flat map[string]any) error {
	patch := &rows.RowPatch{}
	doc := make(map[string]any)
	for k, v := range flat {
		switch k {
		case colID, colUserID, colCreatedAt:
			// identity and ownership are immutable through Patch
		case colTrashed:
			b, ok := v.(bool)
			if !ok {
				return fmt.Errorf("%w: trashed must be a bool", common.ErrInvalidRow)
			}
			patch.Trashed = &b
		case colUpdatedAt:
			t, err := parseTimestamp(v)
			if err != nil {
				return fmt.Errorf("%w: updated_at: %v", common.ErrInvalidRow, err)
			}
			patch.UpdatedAt = &t
		default:
			doc[k] = v
		}
	}
	if len(doc) > 0 {
		merged, err := json.Marshal(doc)
		if err != nil {
			return err
		}
		patch.DocMerge = merged
	}
	return s.repo.Update(ctx, tbl, id, userID, patch)
}

// Delete physically removes an owned row.
func (s *RowService) Delete(ctx context.Context, tbl, id, userID string) error {
	return s.repo.Delete(ctx, tbl, id, userID)
}

// split validates the flat wire row and separates base columns from the
// domain document. Any client-sent user_id is discarded.
func split(tbl, userID string, flat map[string]any) (*models.Row, error) {
	id, _ := flat[colID].(string)
	if id == "" {
		return nil, fmt.Errorf("%w: row id is required", common.ErrInvalidRow)
	}
	trashed, ok := flat[colTrashed].(bool)
	if !ok {
		return nil, fmt.Errorf("%w: trashed flag is required", common.ErrInvalidRow)
	}
	createdAt, err := parseTimestamp(flat[colCreatedAt])
	if err != nil {
		return nil, fmt.Errorf("%w: created_at: %v", common.ErrInvalidRow, err)
	}
	updatedAt, err := parseTimestamp(flat[colUpdatedAt])
	if err != nil {
		return nil, fmt.Errorf("%w: updated_at: %v", common.ErrInvalidRow, err)
	}

	doc := make(map[string]any, len(flat))
	for k, v := range flat {
		switch k {
		case colID, colUserID, colTrashed, colCreatedAt, colUpdatedAt:
			continue
		}
		doc[k] = v
	}
	docJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}

	return &models.Row{
		Table:     tbl,
		ID:        id,
		UserID:    userID,
		Trashed:   trashed,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
		Doc:       docJSON,
	}, nil
}

// flatten recomposes the flat wire row from the stored shape.
func flatten(row *models.Row) (map[string]any, error) {
	flat := make(map[string]any)
	if len(row.Doc) > 0 {
		if err := json.Unmarshal(row.Doc, &flat); err != nil {
			return nil, fmt.Errorf("corrupt row document: %w", err)
		}
	}
	flat[colID] = row.ID
	flat[colUserID] = row.UserID
	flat[colTrashed] = row.Trashed
	flat[colCreatedAt] = row.CreatedAt.UTC().Format(time.RFC3339Nano)
	flat[colUpdatedAt] = row.UpdatedAt.UTC().Format(time.RFC3339Nano)
	return flat, nil
}

func parseTimestamp(v any) (time.Time, error) {
	str, ok := v.(string)
	if !ok || str == "" {
		return time.Time{}, fmt.Errorf("timestamp is required")
	}
	t, err := time.Parse(time.RFC3339Nano, str)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}
