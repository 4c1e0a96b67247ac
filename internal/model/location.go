package model

import "time"

// Location is a saved place. Weather is filled in locally from the forecast
// integration and never leaves the device; merges keep the locally held
// value.
type Location struct {
	Base
	Name          string    `json:"name"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	Address       string    `json:"address"`
	LastVisitedAt time.Time `json:"lastVisitedAt"`
	Weather       string    `json:"weather"`
}

var LocationSchema = MustSchema(Schema[*Location]{
	Table:    "locations",
	Required: []string{"name", "latitude", "longitude"},
	Fields: []Field{
		{Name: "name"},
		{Name: "latitude"},
		{Name: "longitude"},
		{Name: "address"},
		{Name: "lastVisitedAt", Date: true},
		{Name: "weather", Local: true},
	},
})
