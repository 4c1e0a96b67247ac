package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/daydash-app/daydash/internal/flagx"
	"github.com/daydash-app/daydash/internal/timex"
)

// JSONConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "3s"
// or as integer nanoseconds.
type JSONConfig struct {
	ServerEndpointAddr  string         `json:"server_endpoint_addr"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	SyncInterval        timex.Duration `json:"sync_interval"`
	DatabasePath        string         `json:"database_path"`
	StorageNamespace    string         `json:"storage_namespace"`
	StorageVersion      string         `json:"storage_version"`
}

// parseJSON overlays Config with values loaded from a JSON file named via
// the -c/-config flags. Without the flags it does nothing. Intended usage is
// defaults -> parseJSON -> parseFlags, where later stages override earlier
// ones.
func parseJSON(cfg *Config) {
	jsonConfigFile := flagx.JSONConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JSONConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = jc.ServerEndpointAddr
	}
	if jc.OnlineCheckInterval.Duration != 0 {
		cfg.OnlineCheckInterval = time.Duration(jc.OnlineCheckInterval.Duration)
	}
	if jc.SyncInterval.Duration != 0 {
		cfg.SyncInterval = time.Duration(jc.SyncInterval.Duration)
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.StorageNamespace != "" {
		cfg.StorageNamespace = jc.StorageNamespace
	}
	if jc.StorageVersion != "" {
		cfg.StorageVersion = jc.StorageVersion
	}
}
