package model

// Column is a board lane tasks are grouped into.
type Column struct {
	Base
	Title    string `json:"title"`
	Position int    `json:"position"`
}

var ColumnSchema = MustSchema(Schema[*Column]{
	Table:    "columns",
	OrderBy:  "position",
	Required: []string{"title"},
	Defaults: Patch{"position": 0},
	Fields: []Field{
		{Name: "title"},
		{Name: "position"},
	},
})
