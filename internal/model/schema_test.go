package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daydash-app/daydash/internal/common"
)

func sampleTask() *Task {
	return &Task{
		Base: Base{
			ID:        "t-1",
			Trashed:   false,
			CreatedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
			UpdatedAt: time.Date(2025, 3, 2, 11, 30, 0, 0, time.UTC),
		},
		Title:          "water plants",
		Notes:          "balcony first",
		PlannedAt:      time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC),
		ColumnID:       "c-1",
		TagID:          "g-1",
		QuantityTarget: 2,
		QuantityDone:   1,
		Position:       5,
	}
}

func TestMustSchema_DerivesNamesBothWays(t *testing.T) {
	// fields may be declared by local name or by backend column
	byName := FileRefSchema.byName["mimeType"]
	require.NotNil(t, byName)
	assert.Equal(t, "mime_type", byName.Column)
	assert.Equal(t, "MimeType", byName.GoField)

	byColumn := TaskSchema.byName["plannedAt"]
	require.NotNil(t, byColumn)
	assert.Equal(t, "planned_at", byColumn.Column)
}

func TestToRaw(t *testing.T) {
	raw, err := TaskSchema.ToRaw(sampleTask(), "u-1")
	require.NoError(t, err)

	assert.Equal(t, "t-1", raw["id"])
	assert.Equal(t, "u-1", raw["user_id"])
	assert.Equal(t, false, raw["trashed"])
	assert.Equal(t, "2025-03-01T10:00:00Z", raw["created_at"])
	assert.Equal(t, "2025-03-02T11:30:00Z", raw["updated_at"])
	assert.Equal(t, "water plants", raw["title"])
	assert.Equal(t, "2025-03-03T09:00:00Z", raw["planned_at"])
	assert.Equal(t, "c-1", raw["column_id"])
	assert.Equal(t, "g-1", raw["tag_id"])
	assert.Equal(t, 2, raw["quantity_target"])
	assert.Equal(t, 1, raw["quantity_done"])
}

func TestToRaw_ZeroDateMapsToNull(t *testing.T) {
	task := sampleTask()
	task.PlannedAt = time.Time{}

	raw, err := TaskSchema.ToRaw(task, "u-1")
	require.NoError(t, err)
	assert.Nil(t, raw["planned_at"])
}

func TestToRaw_MissingIdentityFails(t *testing.T) {
	task := sampleTask()
	task.ID = ""

	_, err := TaskSchema.ToRaw(task, "u-1")
	var me *common.MappingError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, "tasks", me.Table)
}

func TestToRaw_MissingTimestampsFails(t *testing.T) {
	task := sampleTask()
	task.UpdatedAt = time.Time{}

	_, err := TaskSchema.ToRaw(task, "u-1")
	var me *common.MappingError
	require.ErrorAs(t, err, &me)
}

func TestFromRaw_RoundTrip(t *testing.T) {
	orig := sampleTask()
	raw, err := TaskSchema.ToRaw(orig, "u-1")
	require.NoError(t, err)

	got, err := TaskSchema.FromRaw(raw)
	require.NoError(t, err)

	// anything sourced from the backend is reconciled
	assert.True(t, got.IsSynced)
	got.IsSynced = orig.IsSynced
	assert.Equal(t, orig, got)
}

func TestFromRaw_JSONNumbers(t *testing.T) {
	// numbers arrive as float64 after a JSON decode
	raw := map[string]any{
		"id":              "t-2",
		"trashed":         false,
		"created_at":      "2025-03-01T10:00:00Z",
		"updated_at":      "2025-03-01T10:00:00Z",
		"title":           "run",
		"quantity_target": float64(3),
		"quantity_done":   float64(1),
		"position":        float64(7),
	}
	got, err := TaskSchema.FromRaw(raw)
	require.NoError(t, err)
	assert.Equal(t, 3, got.QuantityTarget)
	assert.Equal(t, 1, got.QuantityDone)
	assert.Equal(t, 7, got.Position)
}

func TestFromRaw_MissingIDFails(t *testing.T) {
	_, err := TaskSchema.FromRaw(map[string]any{
		"trashed":    false,
		"created_at": "2025-03-01T10:00:00Z",
		"updated_at": "2025-03-01T10:00:00Z",
	})
	var me *common.MappingError
	require.ErrorAs(t, err, &me)
}

func TestFromRaw_LocalFieldStaysZero(t *testing.T) {
	raw := map[string]any{
		"id":         "l-1",
		"trashed":    false,
		"created_at": "2025-03-01T10:00:00Z",
		"updated_at": "2025-03-01T10:00:00Z",
		"name":       "home",
		"latitude":   float64(56.95),
		"longitude":  float64(24.1),
		// a weather column must never round-trip even if the backend echoes one
		"weather": "sunny",
	}
	got, err := LocationSchema.FromRaw(raw)
	require.NoError(t, err)
	assert.Empty(t, got.Weather)
}

func TestToRaw_LocalFieldStripped(t *testing.T) {
	loc := &Location{
		Base: Base{
			ID:        "l-1",
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		Name:      "home",
		Latitude:  56.95,
		Longitude: 24.1,
		Weather:   "sunny",
	}
	raw, err := LocationSchema.ToRaw(loc, "u-1")
	require.NoError(t, err)
	_, present := raw["weather"]
	assert.False(t, present)
}

func TestCopyLocal(t *testing.T) {
	src := &Location{Weather: "rain"}
	dst := &Location{Name: "office"}

	LocationSchema.CopyLocal(src, dst)
	assert.Equal(t, "rain", dst.Weather)
	assert.Equal(t, "office", dst.Name)
}

func TestMissing(t *testing.T) {
	assert.Equal(t, []string{"title"}, TaskSchema.Missing(Patch{}))
	assert.Empty(t, TaskSchema.Missing(Patch{"title": "x"}))
	// nil counts as absent
	assert.Equal(t, []string{"title"}, TaskSchema.Missing(Patch{"title": nil}))
}

func TestWithDefaults(t *testing.T) {
	p := TaskSchema.WithDefaults(Patch{"title": "x", "position": 9})
	assert.Equal(t, "x", p["title"])
	assert.Equal(t, 9, p["position"])
	assert.Equal(t, 1, p["quantityTarget"])
	assert.Equal(t, 0, p["quantityDone"])
}

func TestApply(t *testing.T) {
	task := sampleTask()
	err := TaskSchema.Apply(task, Patch{"title": "new title", "quantityDone": 2})
	require.NoError(t, err)
	assert.Equal(t, "new title", task.Title)
	assert.Equal(t, 2, task.QuantityDone)
	// untouched fields survive
	assert.Equal(t, "balcony first", task.Notes)
}

func TestApply_UnknownFieldFails(t *testing.T) {
	task := sampleTask()
	err := TaskSchema.Apply(task, Patch{"nope": 1})
	var me *common.MappingError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, "nope", me.Field)
}

func TestApply_ReservedFieldsIgnored(t *testing.T) {
	task := sampleTask()
	orig := *task
	err := TaskSchema.Apply(task, Patch{
		"id":        "other",
		"createdAt": "2020-01-01T00:00:00Z",
		"updatedAt": "2020-01-01T00:00:00Z",
		"isSynced":  true,
	})
	require.NoError(t, err)
	assert.Equal(t, orig.ID, task.ID)
	assert.Equal(t, orig.CreatedAt, task.CreatedAt)
	assert.Equal(t, orig.UpdatedAt, task.UpdatedAt)
	assert.Equal(t, orig.IsSynced, task.IsSynced)
}

func TestApply_TrashedSettable(t *testing.T) {
	task := sampleTask()
	require.NoError(t, TaskSchema.Apply(task, Patch{"trashed": true}))
	assert.True(t, task.Trashed)
}

func TestClone(t *testing.T) {
	orig := sampleTask()
	clone := TaskSchema.Clone(orig)
	require.Equal(t, orig, clone)

	clone.Title = "changed"
	assert.Equal(t, "water plants", orig.Title)
}
