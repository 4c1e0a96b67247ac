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

	assert.Equal(t, "http://127.0.0.1:8080", cfg.ServerEndpointAddr)
	assert.Equal(t, 3*time.Second, cfg.OnlineCheckInterval)
	assert.Equal(t, 30*time.Second, cfg.SyncInterval)
	assert.Equal(t, "daydash.db", cfg.DatabasePath)
	assert.Equal(t, "daydash", cfg.StorageNamespace)
	assert.Equal(t, "v1", cfg.StorageVersion)
}

func TestParseFlags(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"cmd", "-a", "https://sync.example.com", "-i", "5", "-s", "60", "-d", "/tmp/dd.db"}

	cfg := &Config{}
	cfg.LoadDefaults()
	require.NotPanics(t, func() { parseFlags(cfg) })

	assert.Equal(t, "https://sync.example.com", cfg.ServerEndpointAddr)
	assert.Equal(t, 5*time.Second, cfg.OnlineCheckInterval)
	assert.Equal(t, 60*time.Second, cfg.SyncInterval)
	assert.Equal(t, "/tmp/dd.db", cfg.DatabasePath)
}

func TestParseJSON(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(reqJSON), 0o600))

	os.Args = []string{"cmd", "-c", path}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)

	assert.Equal(t, "https://json.example.com", cfg.ServerEndpointAddr)
	assert.Equal(t, 7*time.Second, cfg.OnlineCheckInterval)
	assert.Equal(t, time.Minute, cfg.SyncInterval)
	assert.Equal(t, "alt.db", cfg.DatabasePath)
	// fields absent from JSON keep their defaults
	assert.Equal(t, "daydash", cfg.StorageNamespace)
}

const reqJSON = `{
	"server_endpoint_addr": "https://json.example.com",
	"online_check_interval": "7s",
	"sync_interval": "1m",
	"database_path": "alt.db"
}`

func TestParseJSON_NoFlagIsNoop(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"cmd"}

	cfg := &Config{}
	cfg.LoadDefaults()
	before := *cfg
	parseJSON(cfg)
	assert.Equal(t, before, *cfg)
}
