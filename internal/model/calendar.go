package model

// Calendar is a subscription to an external event feed (iCal URL).
type Calendar struct {
	Base
	Name    string `json:"name"`
	FeedURL string `json:"feedUrl"`
	Color   string `json:"color"`
	Enabled bool   `json:"enabled"`
}

var CalendarSchema = MustSchema(Schema[*Calendar]{
	Table:    "calendars",
	Required: []string{"name", "feedUrl"},
	Defaults: Patch{"enabled": true, "color": "#4a90d9"},
	Fields: []Field{
		{Name: "name"},
		{Name: "feedUrl", GoField: "FeedURL"},
		{Name: "color"},
		{Name: "enabled"},
	},
})
