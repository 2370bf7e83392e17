// Package book implements the contact directory: records with validated
// phones and birthdays, the name-keyed ordered directory and the upcoming
// birthday reminder query.
//
// Nothing in this package prints, logs or touches the filesystem.
package book

import (
	"slices"
	"strings"

	"github.com/steveyegge/contacts/internal/types"
)

// Record is one named contact. Phones keep insertion order and may repeat.
type Record struct {
	name     string
	phones   []types.PhoneNumber
	birthday *types.CalendarDate
}

// NewRecord creates a record with no phones and no birthday.
func NewRecord(name string) (*Record, error) {
	if strings.TrimSpace(name) == "" {
		return nil, types.FormatError(name, "contact name is required")
	}
	return &Record{name: name}, nil
}

// Name returns the record's identity key.
func (r *Record) Name() string {
	return r.name
}

// Phones returns a copy of the phone list.
func (r *Record) Phones() []types.PhoneNumber {
	out := make([]types.PhoneNumber, len(r.phones))
	copy(out, r.phones)
	return out
}

// Birthday returns the birthday, if one has been set.
func (r *Record) Birthday() (types.CalendarDate, bool) {
	if r.birthday == nil {
		return types.CalendarDate{}, false
	}
	return *r.birthday, true
}

// AddPhone validates raw and appends it.
func (r *Record) AddPhone(raw string) error {
	phone, err := types.ParsePhone(raw)
	if err != nil {
		return err
	}
	r.phones = append(r.phones, phone)
	return nil
}

// RemovePhone removes the first phone equal to raw.
func (r *Record) RemovePhone(raw string) error {
	i := r.indexOf(raw)
	if i < 0 {
		return phoneNotFound(raw)
	}
	r.phones = slices.Delete(r.phones, i, i+1)
	return nil
}

// EditPhone replaces oldRaw with newRaw at the same position. newRaw is
// validated before anything changes, so a bad replacement leaves the record
// as it was.
func (r *Record) EditPhone(oldRaw, newRaw string) error {
	i := r.indexOf(oldRaw)
	if i < 0 {
		return phoneNotFound(oldRaw)
	}
	phone, err := types.ParsePhone(newRaw)
	if err != nil {
		return err
	}
	r.phones[i] = phone
	return nil
}

// ReplacePhone is the lenient form of EditPhone: a missing old phone is
// reported as found=false instead of an error. An invalid replacement is
// still an error, with found=true and the record unchanged.
func (r *Record) ReplacePhone(oldRaw, newRaw string) (bool, error) {
	i := r.indexOf(oldRaw)
	if i < 0 {
		return false, nil
	}
	phone, err := types.ParsePhone(newRaw)
	if err != nil {
		return true, err
	}
	r.phones[i] = phone
	return true, nil
}

// SetBirthday validates raw and overwrites any previous birthday.
func (r *Record) SetBirthday(raw string) error {
	date, err := types.ParseDate(raw)
	if err != nil {
		return err
	}
	r.birthday = &date
	return nil
}

// FindPhone looks up a phone by exact digits.
func (r *Record) FindPhone(raw string) (types.PhoneNumber, bool) {
	i := r.indexOf(raw)
	if i < 0 {
		return types.PhoneNumber{}, false
	}
	return r.phones[i], true
}

// Render returns the single-line summary shown by `all` and `list`.
func (r *Record) Render() string {
	phones := "No phones"
	if len(r.phones) > 0 {
		parts := make([]string, len(r.phones))
		for i, p := range r.phones {
			parts[i] = p.String()
		}
		phones = strings.Join(parts, "; ")
	}

	birthday := "N/A"
	if r.birthday != nil {
		birthday = r.birthday.String()
	}

	return "Contact name: " + r.name + ", phones: " + phones + ", birthday: " + birthday
}

func (r *Record) String() string {
	return r.Render()
}

func (r *Record) indexOf(raw string) int {
	for i, p := range r.phones {
		if p.String() == raw {
			return i
		}
	}
	return -1
}

func phoneNotFound(raw string) error {
	return types.NotFoundError(raw, "phone number %s not found", raw)
}
