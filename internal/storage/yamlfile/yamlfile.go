// Package yamlfile stores directory snapshots as a single human-editable YAML
// document. The same format is used by `contacts export` and `contacts import`.
package yamlfile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/steveyegge/contacts/internal/book"
	"github.com/steveyegge/contacts/internal/types"
)

// BackendName is reported in SaveInfo
const BackendName = "yaml"

// FormatVersion is written into every snapshot. Snapshots from another major
// version are refused.
const FormatVersion = "v1.0.0"

// Snapshot is the on-disk document.
type Snapshot struct {
	Version  string    `yaml:"version"`
	ID       string    `yaml:"id"`
	SavedAt  time.Time `yaml:"saved_at"`
	Contacts []Contact `yaml:"contacts"`
}

// Contact is one record in a Snapshot.
type Contact struct {
	Name     string   `yaml:"name"`
	Phones   []string `yaml:"phones,omitempty"`
	Birthday string   `yaml:"birthday,omitempty"`
}

// Store reads and writes one snapshot file.
type Store struct {
	path string
}

// New returns a store for path. Nothing is touched until Load or Save.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the snapshot file path
func (s *Store) Path() string {
	return s.path
}

// Load reads the snapshot. A missing or empty file is an empty directory.
func (s *Store) Load(_ context.Context) (*book.Directory, error) {
	snap, err := s.read()
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return book.NewDirectory(), nil
	}
	return snap.Directory()
}

// Save writes d atomically (temp file + rename).
func (s *Store) Save(_ context.Context, d *book.Directory) error {
	snap := NewSnapshot(d)

	data, err := yaml.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".contacts-*.yaml")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing snapshot: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replacing %s: %w", s.path, err)
	}

	return nil
}

// LastSave returns the header of the current snapshot, or nil if there is
// none.
func (s *Store) LastSave(_ context.Context) (*types.SaveInfo, error) {
	snap, err := s.read()
	if err != nil || snap == nil {
		return nil, err
	}
	return &types.SaveInfo{
		ID:       snap.ID,
		SavedAt:  snap.SavedAt,
		Contacts: len(snap.Contacts),
		Backend:  BackendName,
	}, nil
}

// Close is a no-op; the file is only open during Load and Save.
func (s *Store) Close() error {
	return nil
}

func (s *Store) read() (*Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	if err := CheckVersion(snap.Version); err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	return &snap, nil
}

// NewSnapshot captures d with a fresh id and the current time.
func NewSnapshot(d *book.Directory) *Snapshot {
	records := d.All()
	snap := &Snapshot{
		Version:  FormatVersion,
		ID:       uuid.NewString(),
		SavedAt:  time.Now().UTC().Truncate(time.Second),
		Contacts: make([]Contact, 0, len(records)),
	}

	for _, r := range records {
		c := Contact{Name: r.Name()}
		for _, p := range r.Phones() {
			c.Phones = append(c.Phones, p.String())
		}
		if b, ok := r.Birthday(); ok {
			c.Birthday = b.String()
		}
		snap.Contacts = append(snap.Contacts, c)
	}
	return snap
}

// Directory rebuilds a directory from the snapshot, validating every field.
func (s *Snapshot) Directory() (*book.Directory, error) {
	d := book.NewDirectory()
	for i, c := range s.Contacts {
		r, err := book.NewRecord(c.Name)
		if err != nil {
			return nil, fmt.Errorf("contact #%d: %w", i+1, err)
		}
		for _, p := range c.Phones {
			if err := r.AddPhone(p); err != nil {
				return nil, fmt.Errorf("contact %q: %w", c.Name, err)
			}
		}
		if c.Birthday != "" {
			if err := r.SetBirthday(c.Birthday); err != nil {
				return nil, fmt.Errorf("contact %q: %w", c.Name, err)
			}
		}
		d.Add(r)
	}
	return d, nil
}

// CheckVersion accepts any valid semver with the same major version as
// FormatVersion.
func CheckVersion(v string) error {
	if !semver.IsValid(v) {
		return fmt.Errorf("invalid snapshot version %q (expected semver such as %s)", v, FormatVersion)
	}
	if semver.Major(v) != semver.Major(FormatVersion) {
		return fmt.Errorf("unsupported snapshot version %s (this build reads %s.x)", v, semver.Major(FormatVersion))
	}
	return nil
}
