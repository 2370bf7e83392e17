package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/steveyegge/contacts/internal/book"
	"github.com/steveyegge/contacts/internal/types"
)

// BackendName is reported in SaveInfo
const BackendName = "sqlite"

// SQLiteStorage implements the Storage interface using SQLite
type SQLiteStorage struct {
	db   *sql.DB
	path string
}

// New opens (creating if needed) the database at path and applies the schema.
func New(path string) (*SQLiteStorage, error) {
	dsn := "file::memory:"
	if path != ":memory:" {
		// Ensure directory exists
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
		dsn = "file:" + path
	}

	db, err := sql.Open("sqlite3", dsn+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One session owns the book; a single connection also keeps ":memory:"
	// pointing at the same database across queries.
	db.SetMaxOpenConns(1)

	// Test connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Initialize schema
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db, path: path}, nil
}

// Path returns the database file path
func (s *SQLiteStorage) Path() string {
	return s.path
}

// Load reads the stored directory. Every value goes back through the
// validators, so a hand-edited database cannot smuggle in bad phones or dates.
func (s *SQLiteStorage) Load(ctx context.Context) (*book.Directory, error) {
	phones, err := s.loadPhones(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, birthday
		FROM contacts
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts: %w", err)
	}
	defer rows.Close()

	d := book.NewDirectory()
	for rows.Next() {
		var name string
		var birthday sql.NullString
		if err := rows.Scan(&name, &birthday); err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}

		r, err := book.NewRecord(name)
		if err != nil {
			return nil, fmt.Errorf("invalid stored contact: %w", err)
		}
		for _, number := range phones[name] {
			if err := r.AddPhone(number); err != nil {
				return nil, fmt.Errorf("invalid stored phone for %q: %w", name, err)
			}
		}
		if birthday.Valid {
			if err := r.SetBirthday(birthday.String); err != nil {
				return nil, fmt.Errorf("invalid stored birthday for %q: %w", name, err)
			}
		}
		d.Add(r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contacts: %w", err)
	}

	return d, nil
}

func (s *SQLiteStorage) loadPhones(ctx context.Context) (map[string][]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT contact_name, number
		FROM phones
		ORDER BY contact_name, position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query phones: %w", err)
	}
	defer rows.Close()

	phones := make(map[string][]string)
	for rows.Next() {
		var name, number string
		if err := rows.Scan(&name, &number); err != nil {
			return nil, fmt.Errorf("failed to scan phone: %w", err)
		}
		phones[name] = append(phones[name], number)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate phones: %w", err)
	}
	return phones, nil
}

// Save replaces the stored snapshot with d and records the save.
func (s *SQLiteStorage) Save(ctx context.Context, d *book.Directory) error {
	// Acquire a dedicated connection so BEGIN/COMMIT run on the same
	// connection as the statements between them.
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "BEGIN IMMEDIATE"); err != nil {
		return fmt.Errorf("failed to begin immediate transaction: %w", err)
	}

	// Use context.Background() for ROLLBACK to ensure cleanup happens even if ctx is canceled
	committed := false
	defer func() {
		if !committed {
			_, _ = conn.ExecContext(context.Background(), "ROLLBACK")
		}
	}()

	// phones go with their contacts (ON DELETE CASCADE)
	if _, err := conn.ExecContext(ctx, `DELETE FROM contacts`); err != nil {
		return fmt.Errorf("failed to clear contacts: %w", err)
	}

	for pos, r := range d.All() {
		var birthday sql.NullString
		if b, ok := r.Birthday(); ok {
			birthday = sql.NullString{String: b.String(), Valid: true}
		}

		_, err := conn.ExecContext(ctx, `
			INSERT INTO contacts (name, position, birthday)
			VALUES (?, ?, ?)
		`, r.Name(), pos, birthday)
		if err != nil {
			return fmt.Errorf("failed to insert contact %q: %w", r.Name(), err)
		}

		for i, p := range r.Phones() {
			_, err := conn.ExecContext(ctx, `
				INSERT INTO phones (contact_name, position, number)
				VALUES (?, ?, ?)
			`, r.Name(), i, p.String())
			if err != nil {
				return fmt.Errorf("failed to insert phone for %q: %w", r.Name(), err)
			}
		}
	}

	_, err = conn.ExecContext(ctx, `
		INSERT INTO saves (id, saved_at, contact_count)
		VALUES (?, ?, ?)
	`, uuid.NewString(), time.Now().UTC().Format(time.RFC3339Nano), d.Len())
	if err != nil {
		return fmt.Errorf("failed to record save: %w", err)
	}

	if _, err := conn.ExecContext(ctx, "COMMIT"); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	committed = true

	return nil
}

// LastSave returns the most recent save, or nil if the database was never
// saved to.
func (s *SQLiteStorage) LastSave(ctx context.Context) (*types.SaveInfo, error) {
	var info types.SaveInfo
	var savedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, saved_at, contact_count
		FROM saves
		ORDER BY seq DESC
		LIMIT 1
	`).Scan(&info.ID, &savedAt, &info.Contacts)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last save: %w", err)
	}

	info.SavedAt, err = time.Parse(time.RFC3339Nano, savedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid saved_at %q: %w", savedAt, err)
	}
	info.Backend = BackendName

	return &info, nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
