// Package models defines the server-side persistence shapes of the row
// service.
package models

import "time"

// User is an account on the row service.
type User struct {
	ID           string
	Username     string
	PasswordHash []byte
	CreatedAt    time.Time
}

// Row is one synchronized record as stored: identity, ownership and
// sync-relevant columns are first-class, every domain column lives in the
// JSON document.
type Row struct {
	Table     string
	ID        string
	UserID    string
	Trashed   bool
	CreatedAt time.Time
	UpdatedAt time.Time
	Doc       []byte
}
