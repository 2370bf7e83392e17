package book

import (
	"slices"
	"strings"

	"github.com/steveyegge/contacts/internal/types"
)

// Directory is a name-keyed collection of records that remembers insertion
// order. It is not safe for concurrent use; one session owns it.
type Directory struct {
	index   map[string]int
	records []*Record
}

// NewDirectory returns an empty directory, optionally seeded with records.
// Later records replace earlier ones with the same name.
func NewDirectory(records ...*Record) *Directory {
	d := &Directory{index: make(map[string]int, len(records))}
	for _, r := range records {
		d.Add(r)
	}
	return d
}

// Add inserts r, or replaces the record already stored under r's name. A
// replaced record keeps its original position.
func (d *Directory) Add(r *Record) {
	if d.index == nil {
		d.index = make(map[string]int)
	}
	if i, ok := d.index[r.Name()]; ok {
		d.records[i] = r
		return
	}
	d.index[r.Name()] = len(d.records)
	d.records = append(d.records, r)
}

// Find returns the record stored under name, or nil.
func (d *Directory) Find(name string) *Record {
	i, ok := d.index[name]
	if !ok {
		return nil
	}
	return d.records[i]
}

// Delete removes the record stored under name. Deleting a missing name is a
// no-op.
func (d *Directory) Delete(name string) {
	i, ok := d.index[name]
	if !ok {
		return
	}
	delete(d.index, name)
	d.records = slices.Delete(d.records, i, i+1)
	for j := i; j < len(d.records); j++ {
		d.index[d.records[j].Name()] = j
	}
}

// All returns the records in insertion order. The slice is a copy; the
// records are not.
func (d *Directory) All() []*Record {
	return slices.Clone(d.records)
}

// Len returns the number of records.
func (d *Directory) Len() int {
	return len(d.records)
}

// Render returns one summary line per record.
func (d *Directory) Render() string {
	if len(d.records) == 0 {
		return "Address book is empty."
	}
	lines := make([]string, len(d.records))
	for i, r := range d.records {
		lines[i] = r.Render()
	}
	return strings.Join(lines, "\n")
}

// UpcomingBirthdays returns the reminders due from today through the default
// seven-day window.
func (d *Directory) UpcomingBirthdays(today types.CalendarDate) []Reminder {
	return UpcomingBirthdays(today, d.records, DefaultReminderOptions())
}

// UpcomingBirthdaysWith is UpcomingBirthdays with explicit options.
func (d *Directory) UpcomingBirthdaysWith(today types.CalendarDate, opts ReminderOptions) []Reminder {
	return UpcomingBirthdays(today, d.records, opts)
}
