package gitcore

import "testing"

func TestLoadConfig_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.Bare {
		t.Error("expected Bare to default false")
	}
	if !cfg.FileMode {
		t.Error("expected FileMode to default true")
	}
	if !cfg.LogAllRefUpdates {
		t.Error("expected LogAllRefUpdates to default true")
	}
	if cfg.DefaultBranch != "main" {
		t.Errorf("DefaultBranch = %q, want main", cfg.DefaultBranch)
	}
}

func TestConfig_SaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatal(err)
	}
	cfg.Bare = true
	cfg.DefaultBranch = "trunk"
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	reloaded, err := LoadConfig(dir)
	if err != nil {
		t.Fatal(err)
	}
	if !reloaded.Bare {
		t.Error("expected Bare=true to persist")
	}
	if reloaded.DefaultBranch != "trunk" {
		t.Errorf("DefaultBranch = %q, want trunk", reloaded.DefaultBranch)
	}
}
