package rows

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/daydash-app/daydash/internal/common"
	"github.com/daydash-app/daydash/internal/dbx"
	"github.com/daydash-app/daydash/internal/server/models"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// base columns that may be ordered on directly; anything else orders on the
// JSON document (jsonb comparison, so numbers sort numerically)
var baseOrderColumns = map[string]string{
	"id":         "id",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

func (r *PostgresRepository) SelectAll(ctx context.Context, tbl, userID, orderBy string) ([]*models.Row, error) {
	var query string
	args := []any{tbl, userID}
	if col, ok := baseOrderColumns[orderBy]; ok {
		query = fmt.Sprintf(`SELECT tbl, id, user_id, trashed, created_at, updated_at, doc
			FROM rows WHERE tbl=$1 AND user_id=$2 ORDER BY %s, created_at`, col)
	} else {
		query = `SELECT tbl, id, user_id, trashed, created_at, updated_at, doc
			FROM rows WHERE tbl=$1 AND user_id=$2 ORDER BY doc->$3 NULLS LAST, created_at`
		args = append(args, orderBy)
	}

	sqlRows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select rows: %w", err)
	}
	defer sqlRows.Close()

	var result []*models.Row
	for sqlRows.Next() {
		item := &models.Row{}
		if err := sqlRows.Scan(&item.Table, &item.ID, &item.UserID, &item.Trashed,
			&item.CreatedAt, &item.UpdatedAt, &item.Doc); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := sqlRows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, tbl, id, userID string) (*models.Row, error) {
	query := `SELECT tbl, id, user_id, trashed, created_at, updated_at, doc
		FROM rows WHERE tbl=$1 AND id=$2 AND user_id=$3`
	item := &models.Row{}
	err := r.db.QueryRowContext(ctx, query, tbl, id, userID).
		Scan(&item.Table, &item.ID, &item.UserID, &item.Trashed,
			&item.CreatedAt, &item.UpdatedAt, &item.Doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select row: %w", err)
	}
	return item, nil
}

// Upsert inserts or updates by (tbl, id). The conflict update is guarded on
// ownership: a row held by another user updates nothing and surfaces
// ErrOwnershipConflict.
func (r *PostgresRepository) Upsert(ctx context.Context, row *models.Row) error {
	query := `
		INSERT INTO rows (tbl, id, user_id, trashed, created_at, updated_at, doc)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (tbl, id)
		DO UPDATE SET
			trashed = EXCLUDED.trashed,
			created_at = EXCLUDED.created_at,
			updated_at = EXCLUDED.updated_at,
			doc = EXCLUDED.doc
			WHERE rows.user_id = EXCLUDED.user_id
	`
	res, err := r.db.ExecContext(ctx, query,
		row.Table, row.ID, row.UserID, row.Trashed, row.CreatedAt, row.UpdatedAt, row.Doc)
	if err != nil {
		return fmt.Errorf("failed to upsert row: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrOwnershipConflict
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}

func (r *PostgresRepository) Update(ctx context.Context, tbl, id, userID string, patch *RowPatch) error {
	sets := make([]string, 0, 3)
	args := []any{tbl, id, userID}
	n := 4
	if patch.Trashed != nil {
		sets = append(sets, fmt.Sprintf("trashed=$%d", n))
		args = append(args, *patch.Trashed)
		n++
	}
	if patch.UpdatedAt != nil {
		sets = append(sets, fmt.Sprintf("updated_at=$%d", n))
		args = append(args, *patch.UpdatedAt)
		n++
	}
	if len(patch.DocMerge) > 0 {
		sets = append(sets, fmt.Sprintf("doc = doc || $%d::jsonb", n))
		args = append(args, patch.DocMerge)
		n++
	}
	if len(sets) == 0 {
		return nil
	}

	query := fmt.Sprintf(`UPDATE rows SET %s WHERE tbl=$1 AND id=$2 AND user_id=$3`,
		strings.Join(sets, ", "))
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update row: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if ra == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, tbl, id, userID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM rows WHERE tbl=$1 AND id=$2 AND user_id=$3`,
		tbl, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete row: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if ra == 0 {
		return common.ErrNotFound
	}
	return nil
}
