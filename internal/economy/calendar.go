package economy

import (
	"fmt"
	"time"
)

// DefaultTimezone is the canonical reference timezone for every day boundary
// (streak days, ad counters, leaderboard resets).
const DefaultTimezone = "Asia/Kolkata"

// Calendar maps instants onto civil days of one reference timezone. Days are
// represented as UTC midnight of the civil date so they compare equal to
// DATE values read back from the store.
type Calendar struct {
	loc *time.Location
}

func NewCalendar(loc *time.Location) Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return Calendar{loc: loc}
}

// LoadCalendar resolves an IANA timezone name.
func LoadCalendar(name string) (Calendar, error) {
	if name == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return Calendar{}, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return NewCalendar(loc), nil
}

func (c Calendar) Location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}
	return c.loc
}

// Day returns the civil day containing t.
func (c Calendar) Day(t time.Time) time.Time {
	y, m, d := t.In(c.Location()).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NextMidnight returns the instant the day after t's day begins.
func (c Calendar) NextMidnight(t time.Time) time.Time {
	y, m, d := t.In(c.Location()).Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, c.Location())
}

// Yesterday returns the day before day.
func Yesterday(day time.Time) time.Time {
	return day.AddDate(0, 0, -1)
}

// SameDay compares two day values produced by Calendar.Day or read from
// DATE columns.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DayKey formats a day value for cache keys and logs.
func DayKey(day time.Time) string {
	return day.Format("2006-01-02")
}
