package repl

import (
	"fmt"
	"strings"

	"github.com/steveyegge/contacts/internal/book"
	"github.com/steveyegge/contacts/internal/types"
)

// Names may span several words, so fixed arguments are taken from the end
// of the line and everything before them is the name.

// splitName returns the name formed by all but the last n args, and those
// n args. ok is false when no name words remain.
func splitName(args []string, n int) (name string, rest []string, ok bool) {
	if len(args) <= n {
		return "", nil, false
	}
	cut := len(args) - n
	return strings.Join(args[:cut], " "), args[cut:], true
}

// mustFind returns the named record or a NotFound error.
func (r *REPL) mustFind(name string) (*book.Record, error) {
	record := r.dir.Find(name)
	if record == nil {
		return nil, types.NotFoundError(name, "contact %s not found", name)
	}
	return record, nil
}

// cmdAdd creates a contact or appends a phone to an existing one
func (r *REPL) cmdAdd(args []string) error {
	name, rest, ok := splitName(args, 1)
	if !ok {
		return types.UsageError("add <name> <phone>")
	}
	phone := rest[0]

	// Validate first so a bad phone never leaves an empty contact behind
	if _, err := types.ParsePhone(phone); err != nil {
		return err
	}

	if record := r.dir.Find(name); record != nil {
		if err := record.AddPhone(phone); err != nil {
			return err
		}
		fmt.Fprintln(r.out, "Contact updated.")
		return nil
	}

	record, err := book.NewRecord(name)
	if err != nil {
		return err
	}
	if err := record.AddPhone(phone); err != nil {
		return err
	}
	r.dir.Add(record)
	fmt.Fprintln(r.out, "Contact added.")
	return nil
}

// cmdChange replaces a phone, reporting a missing contact or phone as
// NotFound
func (r *REPL) cmdChange(args []string) error {
	name, rest, ok := splitName(args, 2)
	if !ok {
		return types.UsageError("change <name> <old_phone> <new_phone>")
	}

	record, err := r.mustFind(name)
	if err != nil {
		return err
	}

	found, err := record.ReplacePhone(rest[0], rest[1])
	if err != nil {
		return err
	}
	if !found {
		return types.NotFoundError(rest[0], "phone number %s not found", rest[0])
	}

	fmt.Fprintln(r.out, "Phone number updated.")
	return nil
}

// cmdEditPhone is the strict form of change
func (r *REPL) cmdEditPhone(args []string) error {
	name, rest, ok := splitName(args, 2)
	if !ok {
		return types.UsageError("edit-phone <name> <old_phone> <new_phone>")
	}

	record, err := r.mustFind(name)
	if err != nil {
		return err
	}
	if err := record.EditPhone(rest[0], rest[1]); err != nil {
		return err
	}

	fmt.Fprintln(r.out, "Phone number updated.")
	return nil
}

// cmdRemovePhone removes one phone from a contact
func (r *REPL) cmdRemovePhone(args []string) error {
	name, rest, ok := splitName(args, 1)
	if !ok {
		return types.UsageError("remove-phone <name> <phone>")
	}

	record, err := r.mustFind(name)
	if err != nil {
		return err
	}
	if err := record.RemovePhone(rest[0]); err != nil {
		return err
	}

	fmt.Fprintln(r.out, "Phone number removed.")
	return nil
}

// cmdPhone lists a contact's phones
func (r *REPL) cmdPhone(args []string) error {
	name, _, ok := splitName(args, 0)
	if !ok {
		return types.UsageError("phone <name>")
	}

	record, err := r.mustFind(name)
	if err != nil {
		return err
	}

	phones := record.Phones()
	if len(phones) == 0 {
		fmt.Fprintln(r.out, "No phones saved.")
		return nil
	}

	values := make([]string, len(phones))
	for i, p := range phones {
		values[i] = p.String()
	}
	fmt.Fprintln(r.out, strings.Join(values, ", "))
	return nil
}

// cmdAll prints every contact
func (r *REPL) cmdAll(args []string) error {
	if len(args) != 0 {
		return types.UsageError("all")
	}
	fmt.Fprintln(r.out, r.dir.Render())
	return nil
}

// cmdAddBirthday sets a contact's birthday
func (r *REPL) cmdAddBirthday(args []string) error {
	name, rest, ok := splitName(args, 1)
	if !ok {
		return types.UsageError("add-birthday <name> <DD.MM.YYYY>")
	}

	record, err := r.mustFind(name)
	if err != nil {
		return err
	}
	if err := record.SetBirthday(rest[0]); err != nil {
		return err
	}

	fmt.Fprintln(r.out, "Birthday added.")
	return nil
}

// cmdShowBirthday prints a contact's birthday
func (r *REPL) cmdShowBirthday(args []string) error {
	name, _, ok := splitName(args, 0)
	if !ok {
		return types.UsageError("show-birthday <name>")
	}

	record, err := r.mustFind(name)
	if err != nil {
		return err
	}
	birthday, ok := record.Birthday()
	if !ok {
		return types.NotFoundError(name, "birthday for %s not set", name)
	}

	fmt.Fprintln(r.out, birthday.String())
	return nil
}

// cmdBirthdays lists the reminders due in the configured window
func (r *REPL) cmdBirthdays(args []string) error {
	if len(args) != 0 {
		return types.UsageError("birthdays")
	}

	upcoming := r.dir.UpcomingBirthdaysWith(r.today(), r.reminders)
	if len(upcoming) == 0 {
		fmt.Fprintln(r.out, "No upcoming birthdays.")
		return nil
	}
	for _, reminder := range upcoming {
		fmt.Fprintln(r.out, reminder.String())
	}
	return nil
}

// cmdDelete removes a contact. Unlike Directory.Delete, a missing contact
// is reported.
func (r *REPL) cmdDelete(args []string) error {
	name, _, ok := splitName(args, 0)
	if !ok {
		return types.UsageError("delete <name>")
	}

	if _, err := r.mustFind(name); err != nil {
		return err
	}
	r.dir.Delete(name)

	fmt.Fprintln(r.out, "Contact deleted.")
	return nil
}

// cmdSave persists the directory without leaving
func (r *REPL) cmdSave(args []string) error {
	if len(args) != 0 {
		return types.UsageError("save")
	}
	if err := r.save(); err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Saved %d contacts.\n", r.dir.Len())
	return nil
}
