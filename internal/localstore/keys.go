// Package localstore provides the client's local persistence: a key→JSON
// string store with SQLite and in-memory implementations, and the versioned
// key builder that namespaces each collection's persisted state.
package localstore

import (
	"fmt"

	"github.com/daydash-app/daydash/internal/common"
)

// KeyBuilder produces stable, versioned, namespaced keys for persisted local
// state. Same inputs always yield the same key. Bumping the version
// invalidates everything persisted under the previous keys; there is no
// automatic migration between versions.
type KeyBuilder struct {
	namespace string
	version   string
}

// NewKeyBuilder returns a builder with an optional namespace prefix and a
// version tag. An empty version defaults to "v1".
func NewKeyBuilder(namespace, version string) *KeyBuilder {
	if version == "" {
		version = "v1"
	}
	return &KeyBuilder{namespace: namespace, version: version}
}

// Key composes [@namespace:]baseKey:version. Fails with ErrEmptyStorageKey
// when baseKey is empty.
func (b *KeyBuilder) Key(baseKey string) (string, error) {
	if baseKey == "" {
		return "", common.ErrEmptyStorageKey
	}
	if b.namespace == "" {
		return fmt.Sprintf("%s:%s", baseKey, b.version), nil
	}
	return fmt.Sprintf("@%s:%s:%s", b.namespace, baseKey, b.version), nil
}
