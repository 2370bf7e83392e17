package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// DataDir is the per-directory folder holding the store and config.yaml
const DataDir = ".contacts"

// PathEnv overrides store discovery, e.g. for test isolation
const PathEnv = "CONTACTS_DB_PATH"

// DefaultPath returns the store path relative to the working directory.
func DefaultPath(backend string) string {
	if backend == BackendYAML {
		return filepath.Join(DataDir, "contacts.yaml")
	}
	return filepath.Join(DataDir, "contacts.db")
}

// DiscoverPath resolves where the store lives.
//
// CONTACTS_DB_PATH wins when set (":memory:" is passed through). Otherwise the
// store is .contacts/contacts.{db,yaml} in the current directory. The file does
// not need to exist yet: a missing store loads as an empty directory.
func DiscoverPath(backend string) (string, error) {
	if p := os.Getenv(PathEnv); p != "" {
		return p, nil
	}

	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}

	return discoverPathInDir(dir, backend)
}

func discoverPathInDir(dir, backend string) (string, error) {
	absPath, err := filepath.Abs(filepath.Join(dir, DefaultPath(backend)))
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}
	return absPath, nil
}

// ConfigPath returns the config.yaml location inside dir's data folder.
func ConfigPath(dir string) string {
	return filepath.Join(dir, DataDir, "config.yaml")
}

// InitProject creates the .contacts folder in dir and returns the store path
// for backend. It is safe to call on an already initialized directory.
func InitProject(dir, backend string) (string, error) {
	if !IsValidBackend(backend) {
		return "", fmt.Errorf("unknown storage backend: %q", backend)
	}

	dataDir := filepath.Join(dir, DataDir)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dataDir, err)
	}

	return discoverPathInDir(dir, backend)
}
