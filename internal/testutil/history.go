package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	api "github.com/macrat/isdown/lib-isdown"
)

// BaseTime is the fixed "now" of tests.
var BaseTime = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

// Up makes a fully up observation at BaseTime + offset.
func Up(offset time.Duration) api.Observation {
	return api.NewObservation(BaseTime.Add(offset), true, true, true)
}

// Down makes a fully down observation at BaseTime + offset.
func Down(offset time.Duration) api.Observation {
	return api.NewObservation(BaseTime.Add(offset), false, false, false)
}

// Legacy makes an observation that has no ping result, like records written before the ping check existed.
func Legacy(offset time.Duration, httpUp, sshUp bool) api.Observation {
	return api.Observation{
		Timestamp: BaseTime.Add(offset).UTC(),
		HTTPUp:    httpUp,
		SSHUp:     sshUp,
	}
}

// WriteFile writes content to a file in a temporary directory, and returns the path.
func WriteFile(t testing.TB, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to prepare %s: %s", name, err)
	}
	return path
}

// ReadFile reads a file or fails the test.
func ReadFile(t testing.TB, path string) string {
	t.Helper()

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %s", path, err)
	}
	return string(b)
}
