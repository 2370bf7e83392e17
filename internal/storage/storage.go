package storage

import (
	"context"
	"fmt"

	"github.com/steveyegge/contacts/internal/book"
	"github.com/steveyegge/contacts/internal/storage/sqlite"
	"github.com/steveyegge/contacts/internal/storage/yamlfile"
	"github.com/steveyegge/contacts/internal/types"
)

// Storage persists whole-directory snapshots.
//
// Load(Save(d)) reproduces d: names, order, phones and birthdays. A store that
// has never been saved to loads as an empty directory.
type Storage interface {
	Load(ctx context.Context) (*book.Directory, error)
	Save(ctx context.Context, d *book.Directory) error

	// LastSave returns metadata for the most recent Save, or nil if there
	// has been none.
	LastSave(ctx context.Context) (*types.SaveInfo, error)

	Close() error
}

// Supported backends
const (
	BackendSQLite = "sqlite"
	BackendYAML   = "yaml"
)

// Config holds storage configuration
type Config struct {
	// Backend is "sqlite" or "yaml"
	// Default: "sqlite"
	Backend string

	// Path is the database or snapshot file path
	// Default: ".contacts/contacts.db" (sqlite), ".contacts/contacts.yaml" (yaml)
	// Special value ":memory:" creates an in-memory SQLite database (useful for tests)
	Path string
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendSQLite,
		Path:    DefaultPath(BackendSQLite),
	}
}

// NewStorage opens the configured backend.
// The ctx parameter is currently unused but kept for API consistency.
func NewStorage(ctx context.Context, cfg *Config) (Storage, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	backend := cfg.Backend
	if backend == "" {
		backend = BackendSQLite
	}

	path := cfg.Path
	if path == "" {
		path = DefaultPath(backend)
	}

	switch backend {
	case BackendSQLite:
		s, err := sqlite.New(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendYAML:
		return yamlfile.New(path), nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %q (expected %s or %s)", backend, BackendSQLite, BackendYAML)
	}
}

// IsValidBackend checks if the backend name is supported
func IsValidBackend(backend string) bool {
	return backend == BackendSQLite || backend == BackendYAML
}
