package localstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daydash-app/daydash/internal/common"
)

func TestKeyBuilder(t *testing.T) {
	tests := []struct {
		name      string
		namespace string
		version   string
		baseKey   string
		want      string
	}{
		{name: "no namespace", baseKey: "tasks", version: "v1", want: "tasks:v1"},
		{name: "with namespace", namespace: "daydash", baseKey: "tasks", version: "v2", want: "@daydash:tasks:v2"},
		{name: "version defaults to v1", baseKey: "notes", want: "notes:v1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewKeyBuilder(tt.namespace, tt.version)
			got, err := b.Key(tt.baseKey)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKeyBuilder_Deterministic(t *testing.T) {
	b := NewKeyBuilder("ns", "v3")
	k1, err := b.Key("tasks")
	require.NoError(t, err)
	k2, err := b.Key("tasks")
	require.NoError(t, err)
	assert.Equal(t, k1, k2)
}

func TestKeyBuilder_EmptyBaseKey(t *testing.T) {
	b := NewKeyBuilder("", "")
	_, err := b.Key("")
	assert.ErrorIs(t, err, common.ErrEmptyStorageKey)
}

func TestKeyBuilder_VersionsDoNotCollide(t *testing.T) {
	v1, err := NewKeyBuilder("ns", "v1").Key("tasks")
	require.NoError(t, err)
	v2, err := NewKeyBuilder("ns", "v2").Key("tasks")
	require.NoError(t, err)
	assert.NotEqual(t, v1, v2)
}
