package rows

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/daydash-app/daydash/internal/common"
	"github.com/daydash-app/daydash/internal/server/models"
)

// MemoryRepository is an in-memory Repository for tests and throwaway
// environments. Ordering semantics mirror the Postgres implementation
// closely enough for the protocol: base columns sort natively, document
// fields sort by their JSON value.
type MemoryRepository struct {
	mu   sync.Mutex
	rows map[string]*models.Row // by tbl + "\x00" + id
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{rows: make(map[string]*models.Row)}
}

func key(tbl, id string) string { return tbl + "\x00" + id }

func cloneRow(r *models.Row) *models.Row {
	cp := *r
	cp.Doc = append([]byte(nil), r.Doc...)
	return &cp
}

func (r *MemoryRepository) SelectAll(ctx context.Context, tbl, userID, orderBy string) ([]*models.Row, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*models.Row
	for _, row := range r.rows {
		if row.Table == tbl && row.UserID == userID {
			out = append(out, cloneRow(row))
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		switch orderBy {
		case "", "created_at":
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		case "updated_at":
			return out[i].UpdatedAt.Before(out[j].UpdatedAt)
		case "id":
			return out[i].ID < out[j].ID
		default:
			return docLess(out[i], out[j], orderBy)
		}
	})
	return out, nil
}

// docLess compares a document field across two rows, numbers numerically and
// everything else by string form.
func docLess(a, b *models.Row, field string) bool {
	av, bv := docValue(a, field), docValue(b, field)
	af, aok := av.(float64)
	bf, bok := bv.(float64)
	if aok && bok {
		return af < bf
	}
	return fmt.Sprint(av) < fmt.Sprint(bv)
}

func docValue(r *models.Row, field string) any {
	var doc map[string]any
	if err := json.Unmarshal(r.Doc, &doc); err != nil {
		return nil
	}
	return doc[field]
}

func (r *MemoryRepository) Get(ctx context.Context, tbl, id, userID string) (*models.Row, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[key(tbl, id)]
	if !ok || row.UserID != userID {
		return nil, common.ErrNotFound
	}
	return cloneRow(row), nil
}

func (r *MemoryRepository) Upsert(ctx context.Context, row *models.Row) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.rows[key(row.Table, row.ID)]; ok && existing.UserID != row.UserID {
		return common.ErrOwnershipConflict
	}
	r.rows[key(row.Table, row.ID)] = cloneRow(row)
	return nil
}

func (r *MemoryRepository) Update(ctx context.Context, tbl, id, userID string, patch *RowPatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[key(tbl, id)]
	if !ok || row.UserID != userID {
		return common.ErrNotFound
	}
	if patch.Trashed != nil {
		row.Trashed = *patch.Trashed
	}
	if patch.UpdatedAt != nil {
		row.UpdatedAt = *patch.UpdatedAt
	}
	if len(patch.DocMerge) > 0 {
		doc := make(map[string]any)
		if len(row.Doc) > 0 {
			if err := json.Unmarshal(row.Doc, &doc); err != nil {
				return err
			}
		}
		var merge map[string]any
		if err := json.Unmarshal(patch.DocMerge, &merge); err != nil {
			return err
		}
		for k, v := range merge {
			doc[k] = v
		}
		merged, err := json.Marshal(doc)
		if err != nil {
			return err
		}
		row.Doc = merged
	}
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, tbl, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[key(tbl, id)]
	if !ok || row.UserID != userID {
		return common.ErrNotFound
	}
	delete(r.rows, key(tbl, id))
	return nil
}
