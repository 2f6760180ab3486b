package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultLogDir                = "~/.local/share/dnnbrain/logs"
	defaultFFprobeBinary         = "ffprobe"
	defaultFFprobeTimeoutSeconds = 30
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir: defaultLogDir,
		},
		FFprobe: FFprobe{
			Binary:         defaultFFprobeBinary,
			TimeoutSeconds: defaultFFprobeTimeoutSeconds,
		},
		ProbeCache: ProbeCache{
			Enabled: false,
			Path:    defaultProbeCachePath(),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

func defaultProbeCachePath() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "dnnbrain", "probe_cache.db")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "~/.cache/dnnbrain/probe_cache.db"
	}
	return filepath.Join(home, ".cache", "dnnbrain", "probe_cache.db")
}
