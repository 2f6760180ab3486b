package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeTestConfig writes a config pointing every path at test-owned temp
// directories and returns its path.
func writeTestConfig(t *testing.T, ffprobeBinary string) string {
	t.Helper()

	base := t.TempDir()
	lines := []string{
		"[paths]",
		`log_dir = "` + filepath.Join(base, "logs") + `"`,
		"",
		"[probe_cache]",
		"enabled = false",
		`path = "` + filepath.Join(base, "cache", "probe.db") + `"`,
	}
	if ffprobeBinary != "" {
		lines = append(lines,
			"",
			"[ffprobe]",
			`binary = "`+ffprobeBinary+`"`,
		)
	}

	path := filepath.Join(base, "config.toml")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		t.Fatalf("write test config: %v", err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (stdout string, runErr error) {
	t.Helper()

	cmd := newRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	runErr = cmd.Execute()
	return out.String(), runErr
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}
