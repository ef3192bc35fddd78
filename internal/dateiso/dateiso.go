// Package dateiso works with calendar dates rendered as fixed-width YYYY-MM-DD strings.
//
// Dates carry no time or zone. Arithmetic happens in UTC so daylight saving
// transitions in the caller's zone never shift a day.
package dateiso

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // zone lookups must not depend on the host's zoneinfo
)

// Layout is the only accepted date format.
const Layout = "2006-01-02"

// DefaultTimeZone is used whenever a caller's zone is missing or unknown.
const DefaultTimeZone = "Asia/Kuala_Lumpur"

// ErrInvalidDate wraps every parse failure so callers can match it with errors.Is.
var ErrInvalidDate = errors.New("invalid date: expected YYYY-MM-DD")

// fallbackLocation mirrors Asia/Kuala_Lumpur for hosts without tzdata.
var fallbackLocation = time.FixedZone("MYT", 8*60*60)

// ResolveTimeZone returns the location named by name, falling back to
// fallback and then to DefaultTimeZone when either is empty or unknown.
func ResolveTimeZone(name, fallback string) *time.Location {
	for _, candidate := range []string{name, fallback, DefaultTimeZone} {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		loc, err := time.LoadLocation(candidate)
		if err == nil {
			return loc
		}
	}
	return fallbackLocation
}

// ValidTimeZone reports whether name is a loadable IANA zone.
func ValidTimeZone(name string) bool {
	if strings.TrimSpace(name) == "" {
		return false
	}
	_, err := time.LoadLocation(name)
	return err == nil
}

// Format renders t as the calendar day it falls on in loc.
// A nil loc is treated as DefaultTimeZone.
func Format(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = ResolveTimeZone("", "")
	}
	return t.In(loc).Format(Layout)
}

// FormatInZone renders t in the named zone, using DefaultTimeZone if the name is invalid.
func FormatInZone(t time.Time, timeZone string) string {
	return Format(t, ResolveTimeZone(timeZone, ""))
}

// Parse parses a date as midnight UTC.
func Parse(date string) (time.Time, error) {
	if len(date) != len(Layout) {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	t, err := time.ParseInLocation(Layout, date, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return t, nil
}

// Valid reports whether date is a well-formed calendar date.
func Valid(date string) bool {
	_, err := Parse(date)
	return err == nil
}

// Compare orders two dates. Lexicographic order equals chronological order
// because the format is fixed width and zero padded.
func Compare(a, b string) int {
	return strings.Compare(a, b)
}

// AddDays shifts date by n calendar days, rolling over months and years.
func AddDays(date string, n int) (string, error) {
	t, err := Parse(date)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, n).Format(Layout), nil
}

// DaysBetween returns the whole number of days from a to b (negative when b is before a).
func DaysBetween(a, b string) (int, error) {
	from, err := Parse(a)
	if err != nil {
		return 0, err
	}
	to, err := Parse(b)
	if err != nil {
		return 0, err
	}
	return int(to.Sub(from).Hours() / 24), nil
}

// Year returns the Gregorian year of date.
func Year(date string) (int, error) {
	t, err := Parse(date)
	if err != nil {
		return 0, err
	}
	return t.Year(), nil
}

// Allowed is the pair of dates the check-in page lets a user answer for.
type Allowed struct {
	Today     string `json:"today"`
	Yesterday string `json:"yesterday"`
}

// AllowedDates returns today and the day before it.
func AllowedDates(today string) (Allowed, error) {
	yesterday, err := AddDays(today, -1)
	if err != nil {
		return Allowed{}, err
	}
	return Allowed{Today: today, Yesterday: yesterday}, nil
}

// Contains reports whether date is one of the allowed dates.
func (a Allowed) Contains(date string) bool {
	return date == a.Today || date == a.Yesterday
}
