// Package testutil provides reusable test utilities for taskledger tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// TestEnv provides access to isolated test directories
type TestEnv struct {
	Home       string // Mocked HOME directory
	ProjectDir string // Test project directory
	GlobalDir  string // ~/.taskledger equivalent
	StoreDir   string // .taskledger in project
	t          *testing.T
}

// SetupTestEnv creates an isolated test environment with mocked HOME.
// Uses t.TempDir() for automatic cleanup and t.Setenv() for automatic env restoration.
func SetupTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	tmpHome := t.TempDir()
	tmpProject := t.TempDir()

	globalDir := filepath.Join(tmpHome, ".taskledger")
	storeDir := filepath.Join(tmpProject, ".taskledger")

	if err := os.MkdirAll(globalDir, 0755); err != nil {
		t.Fatalf("Failed to create global .taskledger: %v", err)
	}
	if err := os.MkdirAll(storeDir, 0755); err != nil {
		t.Fatalf("Failed to create project .taskledger: %v", err)
	}

	// Set HOME to temp directory (auto-restored after test)
	t.Setenv("HOME", tmpHome)

	return &TestEnv{
		Home:       tmpHome,
		ProjectDir: tmpProject,
		GlobalDir:  globalDir,
		StoreDir:   storeDir,
		t:          t,
	}
}

// CreateFile creates a file with the given content in the test environment.
func (e *TestEnv) CreateFile(path, content string) {
	e.t.Helper()

	fullPath := path
	if !filepath.IsAbs(path) {
		fullPath = filepath.Join(e.ProjectDir, path)
	}

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		e.t.Fatalf("Failed to create directory %s: %v", dir, err)
	}

	if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
		e.t.Fatalf("Failed to write file %s: %v", fullPath, err)
	}
}

// ReadFile reads a file from the test environment.
func (e *TestEnv) ReadFile(path string) string {
	e.t.Helper()

	fullPath := path
	if !filepath.IsAbs(path) {
		fullPath = filepath.Join(e.ProjectDir, path)
	}

	data, err := os.ReadFile(fullPath)
	if err != nil {
		e.t.Fatalf("Failed to read file %s: %v", fullPath, err)
	}
	return string(data)
}

// FileExists checks if a file exists in the test environment.
func (e *TestEnv) FileExists(path string) bool {
	e.t.Helper()

	fullPath := path
	if !filepath.IsAbs(path) {
		fullPath = filepath.Join(e.ProjectDir, path)
	}

	_, err := os.Stat(fullPath)
	return err == nil
}

// LedgerPath returns the project's default ledger document path.
func (e *TestEnv) LedgerPath() string {
	return filepath.Join(e.ProjectDir, "TODO.md")
}

// IdentityMapPath returns the project's identity map path.
func (e *TestEnv) IdentityMapPath() string {
	return filepath.Join(e.StoreDir, "task-map.json")
}

// SidecarPath returns the project's sidecar metadata path.
func (e *TestEnv) SidecarPath() string {
	return filepath.Join(e.StoreDir, "task-meta.yaml")
}

// SeedLedger writes a ledger document into the project.
func (e *TestEnv) SeedLedger(content string) {
	e.t.Helper()
	e.CreateFile(e.LedgerPath(), content)
}
