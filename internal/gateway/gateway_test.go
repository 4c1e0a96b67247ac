package gateway

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daydash-app/daydash/internal/backend"
	"github.com/daydash-app/daydash/internal/common"
	"github.com/daydash-app/daydash/internal/model"
)

type fakeTableClient struct {
	selectRows []backend.Row
	selectErr  error
	upsertErr  error

	gotTable   string
	gotOrderBy string
	gotRow     backend.Row
	gotID      string
	gotCols    backend.Row
	deleted    []string
}

func (c *fakeTableClient) Select(ctx context.Context, table, orderBy string) ([]backend.Row, error) {
	c.gotTable, c.gotOrderBy = table, orderBy
	return c.selectRows, c.selectErr
}

func (c *fakeTableClient) Upsert(ctx context.Context, table string, row backend.Row) (backend.Row, error) {
	c.gotTable, c.gotRow = table, row
	if c.upsertErr != nil {
		return nil, c.upsertErr
	}
	// the server echoes the stored row
	return row, nil
}

func (c *fakeTableClient) Update(ctx context.Context, table, id string, cols backend.Row) error {
	c.gotTable, c.gotID, c.gotCols = table, id, cols
	return nil
}

func (c *fakeTableClient) Delete(ctx context.Context, table, id string) error {
	c.gotTable = table
	c.deleted = append(c.deleted, id)
	return nil
}

type fakeAuth struct {
	userID string
	err    error
}

func (a *fakeAuth) UserID(ctx context.Context) (string, error) { return a.userID, a.err }

func rawTask(id string) backend.Row {
	return backend.Row{
		"id":         id,
		"user_id":    "u-1",
		"trashed":    false,
		"created_at": "2025-03-01T10:00:00Z",
		"updated_at": "2025-03-01T10:00:00Z",
		"title":      "t " + id,
	}
}

func TestFetchAll(t *testing.T) {
	rows := &fakeTableClient{selectRows: []backend.Row{rawTask("1"), rawTask("2")}}
	g := New(model.TaskSchema, rows, &fakeAuth{userID: "u-1"})

	got, err := g.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "tasks", rows.gotTable)
	assert.Equal(t, "position", rows.gotOrderBy)
	assert.Equal(t, "t 1", got[0].Title)
	assert.True(t, got[0].IsSynced)
}

func TestFetchAll_TransportError(t *testing.T) {
	bang := errors.New("offline")
	rows := &fakeTableClient{selectErr: bang}
	g := New(model.TaskSchema, rows, &fakeAuth{userID: "u-1"})

	_, err := g.FetchAll(context.Background())
	var be *common.BackendError
	require.ErrorAs(t, err, &be)
	assert.ErrorIs(t, err, bang)
}

func TestFetchAll_NeverPartial(t *testing.T) {
	bad := rawTask("2")
	delete(bad, "trashed")
	rows := &fakeTableClient{selectRows: []backend.Row{rawTask("1"), bad}}
	g := New(model.TaskSchema, rows, &fakeAuth{userID: "u-1"})

	got, err := g.FetchAll(context.Background())
	var me *common.MappingError
	require.ErrorAs(t, err, &me)
	assert.Nil(t, got)
}

func TestUpsert(t *testing.T) {
	rows := &fakeTableClient{}
	g := New(model.TaskSchema, rows, &fakeAuth{userID: "u-1"})

	task := &model.Task{
		Base: model.Base{
			ID:        "t-1",
			CreatedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
			UpdatedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		},
		Title: "push",
	}

	canonical, err := g.Upsert(context.Background(), task)
	require.NoError(t, err)
	assert.Equal(t, "u-1", rows.gotRow["user_id"])
	assert.Equal(t, "t-1", canonical.ID)
	assert.True(t, canonical.IsSynced)
}

func TestUpsert_RepeatedPushIsStable(t *testing.T) {
	rows := &fakeTableClient{}
	g := New(model.TaskSchema, rows, &fakeAuth{userID: "u-1"})

	task := &model.Task{
		Base: model.Base{
			ID:        "t-1",
			CreatedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
			UpdatedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		},
		Title: "push",
	}

	first, err := g.Upsert(context.Background(), task)
	require.NoError(t, err)
	sent := rows.gotRow

	second, err := g.Upsert(context.Background(), task)
	require.NoError(t, err)
	assert.Equal(t, sent, rows.gotRow)
	assert.Equal(t, first, second)
}

func TestUpsert_AuthRequired(t *testing.T) {
	rows := &fakeTableClient{}
	g := New(model.TaskSchema, rows, &fakeAuth{err: common.ErrAuthRequired})

	task := &model.Task{Base: model.Base{ID: "t-1", CreatedAt: time.Now(), UpdatedAt: time.Now()}}
	_, err := g.Upsert(context.Background(), task)
	assert.ErrorIs(t, err, common.ErrAuthRequired)
	assert.Nil(t, rows.gotRow)
}

func TestUpsert_MappingFailureBlocksWrite(t *testing.T) {
	rows := &fakeTableClient{}
	g := New(model.TaskSchema, rows, &fakeAuth{userID: "u-1"})

	// no timestamps: must fail before any request is issued
	task := &model.Task{Base: model.Base{ID: "t-1"}}
	_, err := g.Upsert(context.Background(), task)
	var me *common.MappingError
	require.ErrorAs(t, err, &me)
	assert.Nil(t, rows.gotRow)
}

func TestSoftDelete(t *testing.T) {
	rows := &fakeTableClient{}
	g := New(model.TaskSchema, rows, &fakeAuth{userID: "u-1"})

	require.NoError(t, g.SoftDelete(context.Background(), "t-1"))
	assert.Equal(t, "t-1", rows.gotID)
	assert.Equal(t, true, rows.gotCols["trashed"])
	assert.NotEmpty(t, rows.gotCols["updated_at"])

	assert.Error(t, g.SoftDelete(context.Background(), ""))
}

func TestHardDelete(t *testing.T) {
	rows := &fakeTableClient{}
	g := New(model.TaskSchema, rows, &fakeAuth{userID: "u-1"})

	require.NoError(t, g.HardDelete(context.Background(), "t-1"))
	assert.Equal(t, []string{"t-1"}, rows.deleted)

	assert.Error(t, g.HardDelete(context.Background(), ""))
}
