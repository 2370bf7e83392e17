package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steveyegge/contacts/internal/book"
	"github.com/steveyegge/contacts/internal/storage"
	"github.com/steveyegge/contacts/internal/types"
)

func TestRunList(t *testing.T) {
	useTestStore(t, storage.BackendSQLite)

	cmd, out := newTestCmd()
	require.NoError(t, runList(cmd, nil))
	assert.Equal(t, "Address book is empty.\n", out.String())

	seed(t)
	cmd, out = newTestCmd()
	require.NoError(t, runList(cmd, nil))
	assert.Equal(t,
		"Contact name: Alice, phones: 0123456789, birthday: 13.06.1990\n"+
			"Contact name: Bob, phones: No phones, birthday: 15.06.1985\n",
		out.String())
}

func TestRunBirthdays(t *testing.T) {
	useTestStore(t, storage.BackendYAML)
	seed(t)
	birthdaysToday = "10.06.2024"

	cmd, out := newTestCmd()
	require.NoError(t, runBirthdays(cmd, nil))
	assert.Equal(t, "Alice: 13.06.2024\nBob: 17.06.2024\n", out.String())

	birthdaysWindow = 3
	cmd, out = newTestCmd()
	require.NoError(t, runBirthdays(cmd, nil))
	assert.Equal(t, "Alice: 13.06.2024\n", out.String())

	birthdaysToday = "20.06.2024"
	birthdaysWindow = -1
	cmd, out = newTestCmd()
	require.NoError(t, runBirthdays(cmd, nil))
	assert.Equal(t, "No upcoming birthdays.\n", out.String())
}

func TestRunBirthdays_BadFlags(t *testing.T) {
	useTestStore(t, storage.BackendSQLite)

	birthdaysToday = "2024-06-10"
	cmd, _ := newTestCmd()
	err := runBirthdays(cmd, nil)
	assert.ErrorIs(t, err, types.ErrFormat)

	birthdaysToday = ""
	birthdaysWindow = 400
	err = runBirthdays(cmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--window")
}

func TestRunInfo(t *testing.T) {
	useTestStore(t, storage.BackendSQLite)

	cmd, out := newTestCmd()
	require.NoError(t, runInfo(cmd, nil))
	assert.Contains(t, out.String(), "Backend:   sqlite")
	assert.Contains(t, out.String(), "Contacts:  0")
	assert.Contains(t, out.String(), "Last save: never")

	seed(t)
	last, err := store.LastSave(context.Background())
	require.NoError(t, err)
	require.NotNil(t, last)

	cmd, out = newTestCmd()
	require.NoError(t, runInfo(cmd, nil))
	assert.Contains(t, out.String(), "Contacts:  2")
	assert.Contains(t, out.String(), last.ID)
}

func TestExportImport(t *testing.T) {
	ctx := context.Background()
	useTestStore(t, storage.BackendSQLite)
	seed(t)

	file := filepath.Join(t.TempDir(), "export.yaml")
	cmd, out := newTestCmd()
	require.NoError(t, runExport(cmd, []string{file}))
	assert.Equal(t, "Exported 2 contacts to "+file+"\n", out.String())

	// Import into a store that already holds a different Alice and Carl
	useTestStore(t, storage.BackendYAML)
	alice, err := book.NewRecord("Alice")
	require.NoError(t, err)
	require.NoError(t, alice.AddPhone("9999999999"))
	carl, err := book.NewRecord("Carl")
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, book.NewDirectory(carl, alice)))

	cmd, out = newTestCmd()
	require.NoError(t, runImport(cmd, []string{file}))
	assert.Equal(t, "Imported 2 contacts (3 total)\n", out.String())

	d, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, d.Len())

	names := make([]string, 0, d.Len())
	for _, r := range d.All() {
		names = append(names, r.Name())
	}
	assert.Equal(t, []string{"Carl", "Alice", "Bob"}, names)

	phones := d.Find("Alice").Phones()
	require.Len(t, phones, 1)
	assert.Equal(t, "0123456789", phones[0].String())
}

func TestImport_MissingFile(t *testing.T) {
	useTestStore(t, storage.BackendSQLite)

	cmd, _ := newTestCmd()
	err := runImport(cmd, []string{filepath.Join(t.TempDir(), "absent.yaml")})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestImport_InvalidSnapshot(t *testing.T) {
	useTestStore(t, storage.BackendSQLite)

	file := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(file, []byte("version: v1.0.0\ncontacts:\n  - name: A\n    phones: [\"12\"]\n"), 0644))

	cmd, _ := newTestCmd()
	err := runImport(cmd, []string{file})
	assert.ErrorIs(t, err, types.ErrFormat)

	d, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, d.Len())
}
