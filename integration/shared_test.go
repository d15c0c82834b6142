//go:build basic || database

// Package integration runs the built douremember binary end to end.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
// Database backends need Docker: go test -tags database ./integration
package integration

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
)

var (
	// sharedBinaryPath holds the path to a douremember binary built once for all tests.
	sharedBinaryPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getBinary returns the path to the douremember binary, building it once if needed.
func getBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "douremember-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		binPath := filepath.Join(tempDir, "douremember")
		buildCmd := exec.Command("go", "build", "-o", binPath, ".")
		buildCmd.Dir = ".." // Build from project root
		if err := buildCmd.Run(); err != nil {
			panic(fmt.Sprintf("failed to build douremember: %v", err))
		}

		sharedBinaryPath = binPath
	})

	return sharedBinaryPath
}

// runCommand runs the binary and returns its stdout and stderr combined.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(getBinary(), args...)
	cmd.Dir = t.TempDir()
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Logf("Command failed: %s\nOutput: %s", cmd.String(), string(output))
	}
	return string(output), err
}

// pngFixture writes a minimal PNG-signed file the image validation accepts.
func pngFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "perro.png")
	data := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

// seedCareGroup creates a care group with one image through the CLI.
func seedCareGroup(t *testing.T) {
	t.Helper()
	for _, args := range [][]string{
		{"profiles", "add", "p1", "--name", "José Pérez", "--role", "paciente"},
		{"profiles", "add", "c1", "--name", "Ana", "--role", "cuidador"},
		{"groups", "add", "--id", "g1", "--doctor", "d1", "--caregiver", "c1", "--patient", "p1"},
		{"images", "add", pngFixture(t), "--user", "c1", "--description", "un perro en el parque"},
	} {
		if _, err := runCommand(t, args...); err != nil {
			t.Fatalf("seed step %v failed: %v", args, err)
		}
	}
}
