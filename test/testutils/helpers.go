package testutils

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

// TestTimeout is the default timeout for tests
const TestTimeout = 10 * time.Second

// CreateTempDir creates a temporary directory for testing
func CreateTempDir(t *testing.T) string {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "dvr2plex-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}

	t.Cleanup(func() {
		os.RemoveAll(tmpDir)
	})

	return tmpDir
}

// CreateTestFiles creates empty recordings in the given directory
func CreateTestFiles(t *testing.T, dir string, filenames []string) []string {
	t.Helper()

	paths := make([]string, len(filenames))
	for i, filename := range filenames {
		path := filepath.Join(dir, filename)
		WriteTestFile(t, path, "")
		paths[i] = path
	}

	return paths
}

// CreateLibrary creates a destination library holding one folder per series
func CreateLibrary(t *testing.T, root string, series ...string) string {
	t.Helper()

	for _, name := range series {
		if err := os.MkdirAll(filepath.Join(root, name), 0755); err != nil {
			t.Fatalf("Failed to create series folder %s: %v", name, err)
		}
	}
	return root
}

// WriteTestFile writes content to a test file
func WriteTestFile(t *testing.T, path, content string) {
	t.Helper()

	// Create directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test file %s: %v", path, err)
	}
}

// ReadTestFile reads content from a test file
func ReadTestFile(t *testing.T, path string) string {
	t.Helper()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read test file %s: %v", path, err)
	}

	return string(content)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// AssertFileExists asserts that a file exists
func AssertFileExists(t *testing.T, path string) {
	t.Helper()

	if !FileExists(path) {
		t.Errorf("File %s does not exist", path)
	}
}

// AssertFileNotExists asserts that a file does not exist
func AssertFileNotExists(t *testing.T, path string) {
	t.Helper()

	if FileExists(path) {
		t.Errorf("File %s should not exist", path)
	}
}

// CreateTestContext creates a test context with timeout
func CreateTestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), TestTimeout)
}

// AssertNoError asserts that an error is nil
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
}

// AssertError asserts that an error is not nil
func AssertError(t *testing.T, err error) {
	t.Helper()

	if err == nil {
		t.Fatal("Expected an error, got nil")
	}
}

// AssertEqual asserts that two values are equal
func AssertEqual(t *testing.T, expected, actual interface{}) {
	t.Helper()

	if expected != actual {
		t.Errorf("Expected %v, got %v", expected, actual)
	}
}

// AssertSliceEqual asserts that two slices are equal
func AssertSliceEqual[T comparable](t *testing.T, expected, actual []T) {
	t.Helper()

	if len(expected) != len(actual) {
		t.Errorf("Expected slice length %d, got %d: %v", len(expected), len(actual), actual)
		return
	}

	for i, exp := range expected {
		if exp != actual[i] {
			t.Errorf("Expected slice[%d] = %v, got %v", i, exp, actual[i])
		}
	}
}

// AssertTrue asserts that a condition is true
func AssertTrue(t *testing.T, condition bool) {
	t.Helper()

	if !condition {
		t.Error("Expected condition to be true")
	}
}

// AssertFalse asserts that a condition is false
func AssertFalse(t *testing.T, condition bool) {
	t.Helper()

	if condition {
		t.Error("Expected condition to be false")
	}
}

// NullLogger returns a logger that discards output but records entries,
// so tests can assert on what was logged.
func NullLogger() (*logrus.Logger, *logtest.Hook) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return logger, hook
}

// Eventually polls cond until it holds or TestTimeout passes
func Eventually(t *testing.T, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(TestTimeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("Condition not met before timeout")
}
