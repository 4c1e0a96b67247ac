package model

// Note is a free-form text note.
type Note struct {
	Base
	Title    string `json:"title"`
	Body     string `json:"body"`
	Pinned   bool   `json:"pinned"`
	Position int    `json:"position"`
}

var NoteSchema = MustSchema(Schema[*Note]{
	Table:    "notes",
	OrderBy:  "position",
	Required: []string{"title"},
	Defaults: Patch{"pinned": false, "position": 0},
	Fields: []Field{
		{Name: "title"},
		{Name: "body"},
		{Name: "pinned"},
		{Name: "position"},
	},
})
