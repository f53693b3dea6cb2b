package config

const (
	defaultRedisAddr     = "127.0.0.1:6379"
	defaultRedisDB       = 1
	defaultTrackerURL    = "https://api.trello.com"
	defaultLogDir        = "~/.local/share/beholder/logs"
	defaultStateDir      = "~/.local/share/beholder"
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
	defaultLogMaxSizeMB  = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAgeDays = 7
	defaultSweepInterval = 10
	defaultSweepStage    = "download"
	defaultMetricsBind   = "127.0.0.1:7717"
)

func defaultTopics() []string {
	return []string{"progress", "error", "status", "events"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Redis: Redis{
			Addr:   defaultRedisAddr,
			DB:     defaultRedisDB,
			Topics: defaultTopics(),
		},
		Tracker: Tracker{
			Enabled: false,
			BaseURL: defaultTrackerURL,
			Lists:   map[string]string{},
		},
		Watcher: Watcher{
			SweepInterval: defaultSweepInterval,
			SweepStage:    defaultSweepStage,
			MetricsBind:   defaultMetricsBind,
			DeployHooks:   true,
		},
		Logging: Logging{
			Format:     defaultLogFormat,
			Level:      defaultLogLevel,
			Dir:        defaultLogDir,
			MaxSizeMB:  defaultLogMaxSizeMB,
			MaxBackups: defaultLogMaxBackups,
			MaxAgeDays: defaultLogMaxAgeDays,
		},
		StateDir: defaultStateDir,
	}
}
