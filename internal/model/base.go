// Package model defines the synchronized entity shapes shared by the client
// stores and the backend gateway, and the data-driven translation between the
// local (camelCase) entity form and the backend's raw (snake_case) row form.
package model

import "time"

// Base carries the fields every synchronized record shares.
//
// ID is client-generated and immutable once created. Trashed is a soft-delete
// flag: trashed records keep synchronizing like any other record until they
// are hard-deleted. UpdatedAt is the sole tie-breaker for conflict
// resolution. IsSynced is local-only: true iff the current local
// representation is confirmed persisted remotely.
type Base struct {
	ID        string    `json:"id"`
	Trashed   bool      `json:"trashed"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	IsSynced  bool      `json:"isSynced"`
}

// Meta returns the embedded Base, letting any entity pointer satisfy Entity.
func (b *Base) Meta() *Base { return b }

// Entity is implemented by pointers to all concrete entity types through the
// embedded Base.
type Entity interface {
	Meta() *Base
}

// Patch is a shallow set of entity fields keyed by their local (camelCase)
// names, as accepted by store Add/Update. Only top-level fields present in
// the patch are touched.
type Patch = map[string]any
