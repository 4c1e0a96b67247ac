package model

import "time"

// Task is a to-do item on the dashboard. ColumnID and TagID are soft foreign
// keys: referential integrity is not enforced locally and dangling references
// are tolerated by consumers.
type Task struct {
	Base
	Title          string    `json:"title"`
	Notes          string    `json:"notes"`
	PlannedAt      time.Time `json:"plannedAt"`
	ColumnID       string    `json:"columnId"`
	TagID          string    `json:"tagId"`
	QuantityTarget int       `json:"quantityTarget"`
	QuantityDone   int       `json:"quantityDone"`
	Position       int       `json:"position"`
}

var TaskSchema = MustSchema(Schema[*Task]{
	Table:    "tasks",
	OrderBy:  "position",
	Required: []string{"title"},
	Defaults: Patch{
		"quantityTarget": 1,
		"quantityDone":   0,
		"position":       0,
	},
	Fields: []Field{
		{Name: "title"},
		{Name: "notes"},
		{Name: "plannedAt", Date: true},
		{Name: "columnId", GoField: "ColumnID"},
		{Name: "tagId", GoField: "TagID"},
		{Name: "quantityTarget"},
		{Name: "quantityDone"},
		{Name: "position"},
	},
})
