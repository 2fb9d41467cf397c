// Package week computes ISO week boundaries used to parameterize weekly reports
package week

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format for calendar dates (YYYY-MM-DD)
const DateLayout = "2006-01-02"

// Length is the number of days in a week
const Length = 7

// ISO 8601 weekday numbers
const (
	Monday    = 1
	Tuesday   = 2
	Wednesday = 3
	Thursday  = 4
	Friday    = 5
	Saturday  = 6
	Sunday    = 7
)

// ISOWeekday returns the ISO weekday of t: 1 for Monday through 7 for Sunday
func ISOWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return Sunday
	}
	return wd
}

// Short and full English day names, Monday first
var (
	dayNames     = [Length]string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}
	fullDayNames = [Length]string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}
)

// DayName returns the short name of an ISO weekday, "" when out of range
func DayName(isoWeekday int) string {
	if isoWeekday < Monday || isoWeekday > Sunday {
		return ""
	}
	return dayNames[isoWeekday-1]
}

// ParseDay reads a day name ("mon", "Monday") or an ISO weekday number ("1"
// through "7") and returns the ISO weekday.
func ParseDay(s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) == 1 && s[0] >= '1' && s[0] <= '7' {
		return int(s[0] - '0'), nil
	}
	if len(s) >= 3 {
		for i, name := range dayNames {
			if strings.HasPrefix(s, name) && strings.HasPrefix(fullDayNames[i], s) {
				return i + 1, nil
			}
		}
	}
	return 0, fmt.Errorf("invalid day %q (want mon..sun or 1..7)", s)
}

// Start returns midnight of the Monday that begins the week containing t,
// in t's location.
func Start(t time.Time) time.Time {
	y, m, d := t.Date()
	// time.Date normalizes day underflow across month and year boundaries.
	return time.Date(y, m, d-(ISOWeekday(t)-1), 0, 0, 0, 0, t.Location())
}

// Range is a seven day window starting on a Monday
type Range struct {
	Start time.Time
}

// Of returns the week containing t
func Of(t time.Time) Range {
	return Range{Start: Start(t)}
}

// End returns the exclusive upper bound of the week (the following Monday)
func (r Range) End() time.Time {
	return r.Start.AddDate(0, 0, Length)
}

// Days returns the seven dates of the week, Monday first
func (r Range) Days() []time.Time {
	days := make([]time.Time, Length)
	for i := range days {
		days[i] = r.Start.AddDate(0, 0, i)
	}
	return days
}

// Contains reports whether t falls inside the week
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End())
}

// String formats the week as "start..last day"
func (r Range) String() string {
	return fmt.Sprintf("%s..%s", Format(r.Start), Format(r.End().AddDate(0, 0, -1)))
}

// Format renders a date in YYYY-MM-DD form
func Format(t time.Time) string {
	return t.Format(DateLayout)
}

// Parse reads a YYYY-MM-DD date as local midnight
func Parse(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}

// Today returns local midnight of the current date according to now
func Today(now func() time.Time) time.Time {
	t := now()
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
