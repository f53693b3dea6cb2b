package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"beholder/internal/config"
)

func TestDefaultValidates(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestValidateRejectsEnabledTrackerWithoutCredentials(t *testing.T) {
	cfg := config.Default()
	cfg.Tracker.Enabled = true
	cfg.Tracker.Key = ""
	cfg.Tracker.Token = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for missing tracker credentials")
	}
}

func TestValidateRejectsBadSweepInterval(t *testing.T) {
	cfg := config.Default()
	cfg.Tracker.Enabled = false
	cfg.Watcher.SweepInterval = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for zero sweep interval")
	}
}

func TestLoadParsesFileAndAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := `
[tracker]
enabled = false

[redis]
addr = "10.0.0.5:6379"

[tracker.lists]
deployed = "list-123"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !exists {
		t.Fatalf("expected config at %s to exist", resolved)
	}
	if cfg.Redis.Addr != "10.0.0.5:6379" {
		t.Errorf("redis addr = %q", cfg.Redis.Addr)
	}
	if cfg.Redis.DB != 1 {
		t.Errorf("redis db default = %d, want 1", cfg.Redis.DB)
	}
	if cfg.Watcher.SweepStage != "download" {
		t.Errorf("sweep stage default = %q", cfg.Watcher.SweepStage)
	}
	if cfg.Tracker.Lists["deployed"] != "list-123" {
		t.Errorf("tracker list = %q", cfg.Tracker.Lists["deployed"])
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, _, exists, err := config.Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if exists {
		t.Fatal("expected missing config file")
	}
	if cfg.Redis.Addr != "127.0.0.1:6379" {
		t.Errorf("redis addr default = %q", cfg.Redis.Addr)
	}
}

func TestTrackerEnabledHonorsEnvironmentToggle(t *testing.T) {
	cfg := config.Default()
	cfg.Tracker.Enabled = true

	t.Setenv(config.DisableTrackerEnv, "1")
	if cfg.TrackerEnabled() {
		t.Fatal("expected tracker to be suppressed by environment toggle")
	}

	t.Setenv(config.DisableTrackerEnv, "")
	if !cfg.TrackerEnabled() {
		t.Fatal("expected tracker enabled when toggle is unset")
	}
}
