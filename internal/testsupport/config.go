package testsupport

import (
	"path/filepath"
	"testing"

	"beholder/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Tracker.Enabled = false
	cfg.StateDir = filepath.Join(base, "state")
	cfg.Logging.Dir = filepath.Join(base, "logs")
	cfg.Watcher.MetricsBind = "127.0.0.1:0"

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithTracker enables the tracker collaborator with test credentials.
func WithTracker(baseURL string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Tracker.Enabled = true
		cfg.Tracker.BaseURL = baseURL
		cfg.Tracker.Key = "test-key"
		cfg.Tracker.Token = "test-token"
	}
}

// WithSweepStage overrides the stage class watched by the ETA sweep.
func WithSweepStage(stage string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Watcher.SweepStage = stage
	}
}
