package model

// MapView is a saved map viewport the user can jump back to.
type MapView struct {
	Base
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Zoom      int     `json:"zoom"`
}

var MapViewSchema = MustSchema(Schema[*MapView]{
	Table:    "map_views",
	Required: []string{"name"},
	Defaults: Patch{"zoom": 12},
	Fields: []Field{
		{Name: "name"},
		{Name: "latitude"},
		{Name: "longitude"},
		{Name: "zoom"},
	},
})
