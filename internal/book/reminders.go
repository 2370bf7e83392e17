package book

import (
	"time"

	"github.com/steveyegge/contacts/internal/types"
)

// DefaultWindowDays is how far ahead of today reminders look (inclusive).
const DefaultWindowDays = 7

// Reminder is one upcoming birthday. Date is the day to congratulate on,
// already moved off the weekend.
type Reminder struct {
	Name string
	Date types.CalendarDate
}

// String renders "<name>: DD.MM.YYYY".
func (r Reminder) String() string {
	return r.Name + ": " + r.Date.String()
}

// ReminderOptions tunes the reminder query.
type ReminderOptions struct {
	// WindowDays is the last day offset (from today) that still qualifies.
	// 0 means only today.
	WindowDays int

	// LeapDay places Feb 29 birthdays in non-leap years.
	LeapDay types.LeapDayPolicy
}

// DefaultReminderOptions returns a seven-day window with Feb 29 clamped to
// Feb 28.
func DefaultReminderOptions() ReminderOptions {
	return ReminderOptions{
		WindowDays: DefaultWindowDays,
		LeapDay:    types.LeapDayFeb28,
	}
}

// UpcomingBirthdays returns, in the order of records, every contact whose
// next birthday falls between today and today+WindowDays inclusive.
//
// The window test uses the real occurrence. The reported date is then moved
// to Monday when the occurrence is on a weekend, so it may fall one or two
// days past the window.
func UpcomingBirthdays(today types.CalendarDate, records []*Record, opts ReminderOptions) []Reminder {
	if !opts.LeapDay.IsValid() {
		opts.LeapDay = types.LeapDayFeb28
	}

	var upcoming []Reminder
	for _, r := range records {
		birthday, ok := r.Birthday()
		if !ok {
			continue
		}

		occurrence := NextOccurrence(birthday, today, opts.LeapDay)
		delta := today.DaysUntil(occurrence)
		if delta < 0 || delta > opts.WindowDays {
			continue
		}

		upcoming = append(upcoming, Reminder{
			Name: r.Name(),
			Date: ShiftWeekend(occurrence),
		})
	}
	return upcoming
}

// NextOccurrence returns birthday's anniversary in today's year, or in the
// following year when that day has already passed.
func NextOccurrence(birthday, today types.CalendarDate, policy types.LeapDayPolicy) types.CalendarDate {
	occurrence := birthday.InYear(today.Year(), policy)
	if occurrence.Before(today) {
		occurrence = birthday.InYear(today.Year()+1, policy)
	}
	return occurrence
}

// ShiftWeekend moves Saturday and Sunday to the following Monday.
func ShiftWeekend(d types.CalendarDate) types.CalendarDate {
	switch d.Weekday() {
	case time.Saturday:
		return d.AddDays(2)
	case time.Sunday:
		return d.AddDays(1)
	}
	return d
}
