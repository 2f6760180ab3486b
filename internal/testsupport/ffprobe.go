package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// StubFFprobe writes an executable that prints the provided JSON payload and
// returns its path. Pass it as the ffprobe binary so probes run without real
// media files.
func StubFFprobe(t testing.TB, payload string) string {
	t.Helper()

	dir := t.TempDir()
	target := filepath.Join(dir, "ffprobe")
	script := fmt.Sprintf("#!/bin/sh\ncat <<'EOF'\n%s\nEOF\n", payload)
	if err := os.WriteFile(target, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub ffprobe: %v", err)
	}
	return target
}

// StubFFprobeFailure writes an executable that exits non-zero with a message
// on stderr.
func StubFFprobeFailure(t testing.TB, message string) string {
	t.Helper()

	dir := t.TempDir()
	target := filepath.Join(dir, "ffprobe")
	script := fmt.Sprintf("#!/bin/sh\necho %q >&2\nexit 1\n", message)
	if err := os.WriteFile(target, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub ffprobe: %v", err)
	}
	return target
}
