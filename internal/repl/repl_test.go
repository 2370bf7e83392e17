package repl

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/steveyegge/contacts/internal/book"
	"github.com/steveyegge/contacts/internal/storage"
	"github.com/steveyegge/contacts/internal/types"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

// monday is 10.06.2024
var monday = time.Date(2024, time.June, 10, 9, 30, 0, 0, time.UTC)

func setupTestStorage(t *testing.T) storage.Storage {
	t.Helper()
	store, err := storage.NewStorage(context.Background(), &storage.Config{
		Backend: storage.BackendYAML,
		Path:    filepath.Join(t.TempDir(), "contacts.yaml"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func newTestREPL(t *testing.T) (*REPL, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	r, err := New(&Config{
		Store:  setupTestStorage(t),
		Out:    out,
		Logger: zap.NewNop(),
		Now:    func() time.Time { return monday },
	})
	require.NoError(t, err)
	require.NoError(t, r.load())
	return r, out
}

// run executes one line and returns what it printed.
func run(t *testing.T, r *REPL, out *bytes.Buffer, line string) (string, error) {
	t.Helper()
	out.Reset()
	err := r.processInput(line)
	return out.String(), err
}

func mustRun(t *testing.T, r *REPL, out *bytes.Buffer, line string) string {
	t.Helper()
	text, err := run(t, r, out, line)
	require.NoError(t, err, line)
	return text
}

func TestNew_RequiresStore(t *testing.T) {
	_, err := New(&Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage is required")
}

func TestNew_Defaults(t *testing.T) {
	r, err := New(&Config{Store: setupTestStorage(t)})
	require.NoError(t, err)
	assert.Equal(t, os.Stdout, r.out)
	assert.Equal(t, book.DefaultReminderOptions(), r.reminders)
	assert.NotNil(t, r.logger)
	assert.Nil(t, r.Directory())
}

func TestAdd(t *testing.T) {
	r, out := newTestREPL(t)

	assert.Equal(t, "Contact added.\n", mustRun(t, r, out, "add Alice 0123456789"))
	assert.Equal(t, "Contact updated.\n", mustRun(t, r, out, "add Alice 0987654321"))
	assert.Equal(t, "0123456789, 0987654321\n", mustRun(t, r, out, "phone Alice"))
}

func TestAdd_MultiWordName(t *testing.T) {
	r, out := newTestREPL(t)

	mustRun(t, r, out, "add John Ronald Tolkien 0123456789")
	require.NotNil(t, r.dir.Find("John Ronald Tolkien"))
	assert.Equal(t, "0123456789\n", mustRun(t, r, out, "phone John Ronald Tolkien"))
}

func TestAdd_InvalidPhoneCreatesNothing(t *testing.T) {
	r, out := newTestREPL(t)

	_, err := run(t, r, out, "add Alice 12345")
	assert.ErrorIs(t, err, types.ErrFormat)
	assert.Equal(t, 0, r.dir.Len())
}

func TestUsageErrors(t *testing.T) {
	r, out := newTestREPL(t)

	tests := []struct {
		line string
		want string
	}{
		{"add Alice", "usage: add <name> <phone>"},
		{"add", "usage: add <name> <phone>"},
		{"change Alice 0123456789", "usage: change <name> <old_phone> <new_phone>"},
		{"edit-phone Alice", "usage: edit-phone <name> <old_phone> <new_phone>"},
		{"remove-phone Alice", "usage: remove-phone <name> <phone>"},
		{"phone", "usage: phone <name>"},
		{"all now", "usage: all"},
		{"add-birthday Alice", "usage: add-birthday <name> <DD.MM.YYYY>"},
		{"show-birthday", "usage: show-birthday <name>"},
		{"birthdays 7", "usage: birthdays"},
		{"delete", "usage: delete <name>"},
		{"save please", "usage: save"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			_, err := run(t, r, out, tt.line)
			require.Error(t, err)
			assert.ErrorIs(t, err, types.ErrUsage)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestChange(t *testing.T) {
	r, out := newTestREPL(t)
	mustRun(t, r, out, "add Alice 0123456789")

	assert.Equal(t, "Phone number updated.\n", mustRun(t, r, out, "change Alice 0123456789 1112223333"))
	assert.Equal(t, "1112223333\n", mustRun(t, r, out, "phone Alice"))

	_, err := run(t, r, out, "change Bob 0123456789 1112223333")
	assert.ErrorIs(t, err, types.ErrNotFound)

	_, err = run(t, r, out, "change Alice 0123456789 4445556666")
	assert.ErrorIs(t, err, types.ErrNotFound)

	_, err = run(t, r, out, "change Alice 1112223333 bad")
	assert.ErrorIs(t, err, types.ErrFormat)
	assert.Equal(t, "1112223333\n", mustRun(t, r, out, "phone Alice"))
}

func TestEditPhone(t *testing.T) {
	r, out := newTestREPL(t)
	mustRun(t, r, out, "add Alice 0123456789")
	mustRun(t, r, out, "add Alice 5555555555")

	assert.Equal(t, "Phone number updated.\n", mustRun(t, r, out, "edit-phone Alice 0123456789 1112223333"))
	assert.Equal(t, "1112223333, 5555555555\n", mustRun(t, r, out, "phone Alice"))

	_, err := run(t, r, out, "edit-phone Alice 0000000000 1112223333")
	assert.ErrorIs(t, err, types.ErrNotFound)

	_, err = run(t, r, out, "edit-phone Alice 5555555555 55")
	assert.ErrorIs(t, err, types.ErrFormat)
	assert.Equal(t, "1112223333, 5555555555\n", mustRun(t, r, out, "phone Alice"))
}

func TestRemovePhone(t *testing.T) {
	r, out := newTestREPL(t)
	mustRun(t, r, out, "add Alice 0123456789")

	assert.Equal(t, "Phone number removed.\n", mustRun(t, r, out, "remove-phone Alice 0123456789"))
	assert.Equal(t, "No phones saved.\n", mustRun(t, r, out, "phone Alice"))

	_, err := run(t, r, out, "remove-phone Alice 0123456789")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestPhone_UnknownContact(t *testing.T) {
	r, out := newTestREPL(t)

	_, err := run(t, r, out, "phone Nobody")
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.Equal(t, "contact Nobody not found", err.Error())
}

func TestAll(t *testing.T) {
	r, out := newTestREPL(t)
	assert.Equal(t, "Address book is empty.\n", mustRun(t, r, out, "all"))

	mustRun(t, r, out, "add Alice 0123456789")
	mustRun(t, r, out, "add-birthday Alice 13.06.1990")
	mustRun(t, r, out, "add Bob 0987654321")

	want := "Contact name: Alice, phones: 0123456789, birthday: 13.06.1990\n" +
		"Contact name: Bob, phones: 0987654321, birthday: N/A\n"
	assert.Equal(t, want, mustRun(t, r, out, "ALL"))
}

func TestBirthdayCommands(t *testing.T) {
	r, out := newTestREPL(t)
	mustRun(t, r, out, "add Alice 0123456789")

	_, err := run(t, r, out, "show-birthday Alice")
	assert.ErrorIs(t, err, types.ErrNotFound)

	_, err = run(t, r, out, "add-birthday Alice 31.02.1990")
	assert.ErrorIs(t, err, types.ErrFormat)

	_, err = run(t, r, out, "add-birthday Bob 01.01.1990")
	assert.ErrorIs(t, err, types.ErrNotFound)

	assert.Equal(t, "Birthday added.\n", mustRun(t, r, out, "add-birthday Alice 13.06.1990"))
	assert.Equal(t, "13.06.1990\n", mustRun(t, r, out, "show-birthday Alice"))
}

func TestBirthdays(t *testing.T) {
	r, out := newTestREPL(t)
	assert.Equal(t, "No upcoming birthdays.\n", mustRun(t, r, out, "birthdays"))

	mustRun(t, r, out, "add Alice 0123456789")
	mustRun(t, r, out, "add-birthday Alice 13.06.1990")
	mustRun(t, r, out, "add Bob 0123456789")
	mustRun(t, r, out, "add-birthday Bob 15.06.1985") // Saturday in 2024
	mustRun(t, r, out, "add Carl 0123456789")
	mustRun(t, r, out, "add-birthday Carl 20.06.1980") // ten days out

	assert.Equal(t, "Alice: 13.06.2024\nBob: 17.06.2024\n", mustRun(t, r, out, "birthdays"))
}

func TestBirthdays_ConfiguredWindow(t *testing.T) {
	out := &bytes.Buffer{}
	r, err := New(&Config{
		Store:     setupTestStorage(t),
		Directory: book.NewDirectory(),
		Out:       out,
		Now:       func() time.Time { return monday },
		Reminders: book.ReminderOptions{WindowDays: 14, LeapDay: types.LeapDayFeb28},
	})
	require.NoError(t, err)

	mustRun(t, r, out, "add Carl 0123456789")
	mustRun(t, r, out, "add-birthday Carl 20.06.1980")
	assert.Equal(t, "Carl: 20.06.2024\n", mustRun(t, r, out, "birthdays"))
}

func TestDelete(t *testing.T) {
	r, out := newTestREPL(t)
	mustRun(t, r, out, "add Alice 0123456789")

	_, err := run(t, r, out, "delete Bob")
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.Equal(t, 1, r.dir.Len())

	assert.Equal(t, "Contact deleted.\n", mustRun(t, r, out, "delete Alice"))
	assert.Equal(t, 0, r.dir.Len())
}

func TestUnknownCommand(t *testing.T) {
	r, out := newTestREPL(t)

	text, err := run(t, r, out, "hello")
	require.NoError(t, err)
	assert.Contains(t, text, `Unknown command "hello"`)
	assert.Contains(t, text, "help")
}

func TestHelp(t *testing.T) {
	r, out := newTestREPL(t)

	text := mustRun(t, r, out, "?")
	for name := range r.commands {
		assert.Contains(t, text, name)
	}
	assert.Contains(t, text, "next 7 days")
}

func TestSaveAndExitPersist(t *testing.T) {
	r, out := newTestREPL(t)
	ctx := context.Background()

	mustRun(t, r, out, "add Alice 0123456789")
	assert.Equal(t, "Saved 1 contacts.\n", mustRun(t, r, out, "save"))

	d, err := r.store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, d.Len())

	mustRun(t, r, out, "add Bob 0987654321")
	text, err := run(t, r, out, "quit")
	assert.ErrorIs(t, err, errExit)
	assert.Contains(t, text, "Goodbye!")

	d, err = r.store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, d.Len())
}

func TestLoad_FromStore(t *testing.T) {
	ctx := context.Background()
	store := setupTestStorage(t)

	alice, err := book.NewRecord("Alice")
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, book.NewDirectory(alice)))

	r, err := New(&Config{Store: store, Out: io.Discard})
	require.NoError(t, err)
	require.NoError(t, r.load())
	assert.NotNil(t, r.Directory().Find("Alice"))
}

// lines feeds the loop like readline would, then reports end.
func lines(end error, input ...string) func() (string, error) {
	return func() (string, error) {
		if len(input) == 0 {
			return "", end
		}
		line := input[0]
		input = input[1:]
		return line, nil
	}
}

func TestLoop_ErrorsDoNotStopSession(t *testing.T) {
	r, out := newTestREPL(t)

	err := r.loop(lines(io.EOF,
		"add Alice 12",
		"",
		"   ",
		"add Alice 0123456789",
		"close",
		"add Bob 0987654321",
	))
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "Error: phone number must contain exactly 10 digits")
	assert.Contains(t, text, "Contact added.")
	assert.NotContains(t, text, "Bob")

	d, err := r.store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, d.Len())
}

func TestLoop_EOFSaves(t *testing.T) {
	r, out := newTestREPL(t)

	err := r.loop(lines(io.EOF, "add Alice 0123456789"))
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Goodbye!")

	d, err := r.store.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, d.Find("Alice"))
}

func TestLoop_InterruptContinues(t *testing.T) {
	r, out := newTestREPL(t)

	calls := 0
	readLine := func() (string, error) {
		calls++
		switch calls {
		case 1:
			return "", readline.ErrInterrupt
		case 2:
			return "add Alice 0123456789", nil
		default:
			return "exit", nil
		}
	}

	require.NoError(t, r.loop(readLine))
	assert.Equal(t, 3, calls)
	assert.NotNil(t, r.dir.Find("Alice"))
	assert.Contains(t, out.String(), "Contact added.")
}
