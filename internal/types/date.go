package types

import (
	"fmt"
	"time"
)

// DateLayout is the only accepted textual form of a CalendarDate (DD.MM.YYYY).
const DateLayout = "02.01.2006"

// CalendarDate is a validated calendar day with no time-of-day or zone.
// Internally it is midnight UTC so day arithmetic never crosses DST edges.
type CalendarDate struct {
	t time.Time
}

// ParseDate validates raw against DD.MM.YYYY and rejects days that do not
// exist (31.02.2023 and the like).
func ParseDate(raw string) (CalendarDate, error) {
	if len(raw) != len(DateLayout) {
		return CalendarDate{}, FormatError(raw, "invalid date format, use DD.MM.YYYY")
	}
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return CalendarDate{}, FormatError(raw, "invalid date format, use DD.MM.YYYY")
	}
	return CalendarDate{t: t}, nil
}

// NewDate builds a date from its parts. It fails for days that do not exist.
func NewDate(year int, month time.Month, day int) (CalendarDate, error) {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return CalendarDate{}, FormatError(fmt.Sprintf("%02d.%02d.%04d", day, month, year), "invalid calendar date")
	}
	return CalendarDate{t: t}, nil
}

// Today returns the calendar day of now in now's location.
func Today(now time.Time) CalendarDate {
	y, m, d := now.Date()
	return CalendarDate{t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (d CalendarDate) Year() int             { return d.t.Year() }
func (d CalendarDate) Month() time.Month     { return d.t.Month() }
func (d CalendarDate) Day() int              { return d.t.Day() }
func (d CalendarDate) Weekday() time.Weekday { return d.t.Weekday() }

// IsZero reports whether d was never successfully constructed.
func (d CalendarDate) IsZero() bool {
	return d.t.IsZero()
}

// String renders d as DD.MM.YYYY.
func (d CalendarDate) String() string {
	return d.t.Format(DateLayout)
}

// AddDays returns d shifted by n days (n may be negative).
func (d CalendarDate) AddDays(n int) CalendarDate {
	return CalendarDate{t: d.t.AddDate(0, 0, n)}
}

func (d CalendarDate) Before(o CalendarDate) bool { return d.t.Before(o.t) }
func (d CalendarDate) After(o CalendarDate) bool  { return d.t.After(o.t) }
func (d CalendarDate) Equal(o CalendarDate) bool  { return d.t.Equal(o.t) }

// DaysUntil returns the number of whole days from d to o; negative when o is
// earlier.
func (d CalendarDate) DaysUntil(o CalendarDate) int {
	return int(o.t.Sub(d.t) / (24 * time.Hour))
}

// WithYear moves d into year, clamping Feb 29 to Feb 28 when year is not a
// leap year.
func (d CalendarDate) WithYear(year int) CalendarDate {
	return d.InYear(year, LeapDayFeb28)
}

// InYear moves d into year. A Feb 29 date landing in a non-leap year is
// resolved by policy.
func (d CalendarDate) InYear(year int, policy LeapDayPolicy) CalendarDate {
	if d.Month() == time.February && d.Day() == 29 && !isLeap(year) {
		if policy == LeapDayMar1 {
			return CalendarDate{t: time.Date(year, time.March, 1, 0, 0, 0, 0, time.UTC)}
		}
		return CalendarDate{t: time.Date(year, time.February, 28, 0, 0, 0, 0, time.UTC)}
	}
	return CalendarDate{t: time.Date(year, d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)}
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// LeapDayPolicy decides where a Feb 29 birthday lands in a non-leap year.
type LeapDayPolicy string

const (
	LeapDayFeb28 LeapDayPolicy = "feb28"
	LeapDayMar1  LeapDayPolicy = "mar1"
)

// IsValid checks if the policy value is known
func (p LeapDayPolicy) IsValid() bool {
	switch p {
	case LeapDayFeb28, LeapDayMar1:
		return true
	}
	return false
}
