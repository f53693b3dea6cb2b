package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Redis contains connection settings for the metrics database that holds
// stage/subtask state and carries the inbound pub/sub channels.
type Redis struct {
	Addr   string   `toml:"addr"`
	DB     int      `toml:"db"`
	Topics []string `toml:"topics"`
}

// Tracker contains configuration for the ticket-tracker collaborator.
// Lists maps a job status to the destination list a card moves to when the
// job reaches that status.
type Tracker struct {
	Enabled bool              `toml:"enabled"`
	BaseURL string            `toml:"base_url"`
	Key     string            `toml:"key"`
	Token   string            `toml:"token"`
	Lists   map[string]string `toml:"lists"`
}

// Chat contains configuration for the chat webhook collaborator.
type Chat struct {
	WebhookURL string `toml:"webhook_url"`
	Channel    string `toml:"channel"`
}

// MediaServer contains configuration for the media-server refresh hook.
type MediaServer struct {
	URL     string `toml:"url"`
	Token   string `toml:"token"`
	Library string `toml:"library"`
}

// Watcher contains configuration for the daemon's timers and bind address.
type Watcher struct {
	SweepInterval int    `toml:"sweep_interval"`
	SweepStage    string `toml:"sweep_stage"`
	MetricsBind   string `toml:"metrics_bind"`
	DeployHooks   bool   `toml:"deploy_hooks"`
}

// Logging contains configuration for log output and rotation.
type Logging struct {
	Format     string `toml:"format"`
	Level      string `toml:"level"`
	Dir        string `toml:"dir"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
}

// Config encapsulates all configuration values for Beholder.
//
// Configuration sections by subsystem:
//   - Redis: state store and pub/sub transport
//   - Tracker: ticket-tracker comments and card moves
//   - Chat: chat webhook announcements
//   - MediaServer: library refresh on deploy
//   - Watcher: sweep timing, sweep stage, metrics bind
//   - Logging: log format, level, rotation
type Config struct {
	Redis       Redis       `toml:"redis"`
	Tracker     Tracker     `toml:"tracker"`
	Chat        Chat        `toml:"chat"`
	MediaServer MediaServer `toml:"media_server"`
	Watcher     Watcher     `toml:"watcher"`
	Logging     Logging     `toml:"logging"`
	StateDir    string      `toml:"state_dir"`
}

// DisableTrackerEnv is the environment toggle that suppresses all
// ticket-tracker notifications regardless of the config file.
const DisableTrackerEnv = "BEHOLDER_DISABLE_TRACKER"

// TrackerEnabled reports whether tracker notifications should be attempted.
func (c *Config) TrackerEnabled() bool {
	if v := strings.TrimSpace(os.Getenv(DisableTrackerEnv)); v != "" && v != "0" && !strings.EqualFold(v, "false") {
		return false
	}
	return c.Tracker.Enabled
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/beholder/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded. The second return is the resolved path
// and the third reports whether a file existed there.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		path = os.Getenv("BEHOLDER_CONFIG")
	}
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if _, err := os.Stat(defaultPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return defaultPath, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	return defaultPath, true, nil
}

func (c *Config) normalize() error {
	var err error
	if c.Logging.Dir, err = expandPath(c.Logging.Dir); err != nil {
		return err
	}
	if c.StateDir, err = expandPath(c.StateDir); err != nil {
		return err
	}
	c.Tracker.BaseURL = strings.TrimRight(strings.TrimSpace(c.Tracker.BaseURL), "/")
	c.MediaServer.URL = strings.TrimRight(strings.TrimSpace(c.MediaServer.URL), "/")
	return nil
}

// EnsureDirectories creates the directories the daemon writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Logging.Dir, c.StateDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// WriteSample writes the embedded sample configuration to path.
func WriteSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config already exists at %s", expanded)
	}
	return os.WriteFile(expanded, []byte(sampleConfig), 0o644)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", nil
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if trimmed == "~" {
			return home, nil
		}
		return filepath.Join(home, trimmed[2:]), nil
	}
	return filepath.Abs(trimmed)
}
