// Package testutil provides fixtures and assertions shared by tests.
package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// Fixture names under the repository's testdata directory.
const (
	CaptureFixture          = "capture.yaml"
	MalformedCaptureFixture = "capture_malformed.yaml"
	UnresolvedFixture       = "unresolved.yaml"
	ProfilesDir             = "profiles"
)

// GetTestDataPath returns the path to a file in the nearest testdata
// directory above the caller.
func GetTestDataPath(t *testing.T, filename string) string {
	t.Helper()
	return findTestData(t, filename)
}

// LoadFixture returns the contents of a testdata file.
func LoadFixture(t *testing.T, filename string) []byte {
	t.Helper()

	data, err := os.ReadFile(findTestData(t, filename))
	if err != nil {
		t.Fatalf("failed to load fixture %s: %v", filename, err)
	}
	return data
}

func findTestData(t *testing.T, filename string) string {
	_, callerFile, _, ok := runtime.Caller(2)
	if !ok {
		t.Fatal("failed to get caller file path")
	}

	dir := filepath.Dir(callerFile)
	for i := 0; i < 5; i++ {
		path := filepath.Join(dir, "testdata", filename)
		if _, err := os.Stat(path); err == nil {
			return path
		}
		dir = filepath.Dir(dir)
	}
	return filepath.Join("testdata", filename)
}

// WriteFile writes content to dir/filename, creating parent directories.
func WriteFile(t *testing.T, dir, filename, content string) string {
	t.Helper()

	path := filepath.Join(dir, filename)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	return path
}

// CopyFixture copies a testdata file into dir and returns the new path.
func CopyFixture(t *testing.T, dir, filename string) string {
	t.Helper()
	return WriteFile(t, dir, filename, string(LoadFixture(t, filename)))
}

// ReadFile returns the contents of dir/filename.
func ReadFile(t *testing.T, dir, filename string) []byte {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(dir, filename))
	if err != nil {
		t.Fatalf("failed to read %s: %v", filename, err)
	}
	return data
}
