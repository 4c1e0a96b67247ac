package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, ":8080", cfg.EndpointAddr)
	assert.NotEmpty(t, cfg.DatabaseDSN)
	assert.Equal(t, 24*time.Hour, cfg.AccessTokenValidityDuration)
}

func TestParseFlags(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"cmd", "-a", ":9090", "-d", "postgres://test", "-k", "supersecret", "-t", "15"}

	cfg := &Config{}
	cfg.LoadDefaults()
	require.NotPanics(t, func() { parseFlags(cfg) })

	assert.Equal(t, ":9090", cfg.EndpointAddr)
	assert.Equal(t, "postgres://test", cfg.DatabaseDSN)
	assert.Equal(t, "supersecret", cfg.SecretKey)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenValidityDuration)
}

func TestParseJSON(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"endpoint_addr": ":7070",
		"database_dsn": "postgres://json",
		"secret_key": "json-secret",
		"access_token_validity_duration": "2h"
	}`), 0o600))

	os.Args = []string{"cmd", "-c", path}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)

	assert.Equal(t, ":7070", cfg.EndpointAddr)
	assert.Equal(t, "postgres://json", cfg.DatabaseDSN)
	assert.Equal(t, "json-secret", cfg.SecretKey)
	assert.Equal(t, 2*time.Hour, cfg.AccessTokenValidityDuration)
}
