// Package config handles configuration for the client component: defaults,
// optional JSON overlay, and command-line flags, in that order of
// precedence.
package config

import "time"

// Config holds runtime settings for the daydash client.
//
// Fields:
//   - ServerEndpointAddr: base URL of the backend row service.
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - SyncInterval: per-store pending-push interval.
//   - DatabasePath: SQLite file holding the persisted local collections.
//   - StorageNamespace / StorageVersion: storage key namespacing; bumping
//     the version abandons all previously persisted collections.
type Config struct {
	ServerEndpointAddr  string
	OnlineCheckInterval time.Duration
	SyncInterval        time.Duration
	DatabasePath        string
	StorageNamespace    string
	StorageVersion      string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "http://127.0.0.1:8080"
	c.OnlineCheckInterval = 3 * time.Second
	c.SyncInterval = 30 * time.Second
	c.DatabasePath = "daydash.db"
	c.StorageNamespace = "daydash"
	c.StorageVersion = "v1"
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present). Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)
	parseFlags(cfg)
	return cfg
}
