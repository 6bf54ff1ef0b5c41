package config

import (
	"path/filepath"
	"testing"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	cfg := Default()
	cfg.Port = 12345
	cfg.MOTD = "custom"

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded := Default()
	if err := Load(path, loaded); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Port != 12345 || loaded.MOTD != "custom" {
		t.Fatalf("unexpected loaded config: %+v", loaded)
	}
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	cfg := Default()
	if err := Load(filepath.Join(t.TempDir(), "missing.yaml"), cfg); err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if cfg.Port != 25565 {
		t.Fatalf("expected defaults untouched, got %+v", cfg)
	}
}

func TestMergeRespectsExplicitFlags(t *testing.T) {
	cfg := &Config{Port: 9999, MOTD: "cli-set"}
	fileCfg := &Config{Port: 25565, MOTD: "from-file", RenderDistance: 8}

	Merge(cfg, fileCfg, map[string]bool{"port": true})

	if cfg.Port != 9999 {
		t.Fatalf("expected explicit port preserved, got %d", cfg.Port)
	}
	if cfg.MOTD != "from-file" {
		t.Fatalf("expected MOTD overlaid from file, got %q", cfg.MOTD)
	}
	if cfg.RenderDistance != 8 {
		t.Fatalf("expected RenderDistance overlaid from file, got %d", cfg.RenderDistance)
	}
}
