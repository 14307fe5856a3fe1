package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFileConfigMissingFileReturnsDefaults(t *testing.T) {
	conf, err := loadFileConfig(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("unexpected error for a missing config file: %v", err)
	}
	if conf != defaultFileConfig() {
		t.Fatalf("expected defaults, got %+v", conf)
	}
}

func TestLoadFileConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sweeperd.toml")
	contents := "bind_address = \"0.0.0.0:9000\"\nmine_count = 99\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	conf, err := loadFileConfig(path)
	if err != nil {
		t.Fatalf("loadFileConfig: %v", err)
	}
	if conf.BindAddress != "0.0.0.0:9000" || conf.MineCount != 99 {
		t.Fatalf("expected overridden fields, got %+v", conf)
	}
	if conf.StaticDir != defaultFileConfig().StaticDir {
		t.Fatalf("expected static_dir to keep its default, got %q", conf.StaticDir)
	}
}
