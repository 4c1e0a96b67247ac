package model

// FileRef points at an uploaded file. The bytes themselves live in external
// storage; only the reference synchronizes.
type FileRef struct {
	Base
	Name      string `json:"name"`
	URL       string `json:"url"`
	MimeType  string `json:"mimeType"`
	SizeBytes int64  `json:"sizeBytes"`
}

var FileRefSchema = MustSchema(Schema[*FileRef]{
	Table:    "file_refs",
	Required: []string{"name", "url"},
	Fields: []Field{
		{Name: "name"},
		{Name: "url", GoField: "URL"},
		{Column: "mime_type"},
		{Column: "size_bytes"},
	},
})
