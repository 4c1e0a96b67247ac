package model

// Tag labels tasks. Color is a CSS color string chosen by the user.
type Tag struct {
	Base
	Name  string `json:"name"`
	Color string `json:"color"`
}

var TagSchema = MustSchema(Schema[*Tag]{
	Table:    "tags",
	Required: []string{"name"},
	Defaults: Patch{"color": "#808080"},
	Fields: []Field{
		{Name: "name"},
		{Name: "color"},
	},
})
