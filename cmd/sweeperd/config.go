package main

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml"
)

// fileConfig is the on-disk shape of sweeperd.toml, following the same
// toml.Unmarshal pattern dragonfly's own Whitelist config uses. Every
// field has a zero value that's a sane default, so a missing config file
// (or a missing field within one) never prevents startup.
type fileConfig struct {
	BindAddress   string `toml:"bind_address"`
	StaticDir     string `toml:"static_dir"`
	Seed          uint64 `toml:"seed"`
	MineCount     int    `toml:"mine_count"`
	SnapshotPath  string `toml:"snapshot_path"`
	MaxConcurrent int64  `toml:"max_concurrent_queries"`
}

func defaultFileConfig() fileConfig {
	return fileConfig{
		BindAddress: "127.0.0.1:8000",
		StaticDir:   "static",
		MineCount:   40,
	}
}

// loadFileConfig reads path if present, layering its values over the
// defaults. A missing file is not an error -- the server runs on defaults
// alone, the same as dragonfly's own settings.toml handling.
func loadFileConfig(path string) (fileConfig, error) {
	conf := defaultFileConfig()
	contents, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return conf, nil
	}
	if err != nil {
		return conf, fmt.Errorf("sweeperd: read config: %w", err)
	}
	if err := toml.Unmarshal(contents, &conf); err != nil {
		return conf, fmt.Errorf("sweeperd: parse config: %w", err)
	}
	return conf, nil
}
