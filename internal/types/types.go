// Package types holds the value objects and error kinds shared by the
// contact book, its storage backends and the shell.
package types

import (
	"fmt"
	"time"
)

// SaveInfo describes the most recent snapshot written by a storage backend.
type SaveInfo struct {
	ID       string    `json:"id" yaml:"id"`
	SavedAt  time.Time `json:"saved_at" yaml:"saved_at"`
	Contacts int       `json:"contacts" yaml:"contacts"`
	Backend  string    `json:"backend" yaml:"backend"`
}

// String returns a one-line human-readable summary
func (s SaveInfo) String() string {
	return fmt.Sprintf("%s (%d contacts, %s, %s)",
		s.ID, s.Contacts, s.Backend, s.SavedAt.Format(time.RFC3339))
}
