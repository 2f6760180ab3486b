package testsupport

import (
	"path/filepath"
	"testing"

	"dnnbrain/internal/config"
)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.ProbeCache.Enabled = false
	cfg.ProbeCache.Path = filepath.Join(base, "cache", "probe_cache.db")
	return &cfg
}
