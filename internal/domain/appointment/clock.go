package appointment

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// NormalizeClock converts a wall-clock string to canonical 24-hour "HH:MM".
// Both "14:30" and "02:30 PM" forms are accepted. The 12-hour conversion
// handles midnight and noon explicitly: "12:15 AM" is 00:15 and "12:15 PM"
// stays 12:15.
func NormalizeClock(s string) (string, error) {
	hour, minute, err := parseClock(s)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), nil
}

func parseClock(s string) (int, int, error) {
	s = strings.TrimSpace(s)
	upper := strings.ToUpper(s)

	meridiem := ""
	switch {
	case strings.HasSuffix(upper, "AM"):
		meridiem = "AM"
	case strings.HasSuffix(upper, "PM"):
		meridiem = "PM"
	}
	if meridiem != "" {
		upper = strings.TrimSpace(upper[:len(upper)-2])
	}

	parts := strings.SplitN(upper, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q", s)
	}
	hour, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid hour in %q", s)
	}
	minute, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid minute in %q", s)
	}
	if minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("minute out of range in %q", s)
	}

	switch meridiem {
	case "AM":
		if hour < 1 || hour > 12 {
			return 0, 0, fmt.Errorf("hour out of range in %q", s)
		}
		if hour == 12 {
			hour = 0
		}
	case "PM":
		if hour < 1 || hour > 12 {
			return 0, 0, fmt.Errorf("hour out of range in %q", s)
		}
		if hour != 12 {
			hour += 12
		}
	default:
		if hour < 0 || hour > 23 {
			return 0, 0, fmt.Errorf("hour out of range in %q", s)
		}
	}

	return hour, minute, nil
}

// Combine merges a calendar date and a wall-clock string into a single
// timestamp in the date's location.
func Combine(date time.Time, clock string) (time.Time, error) {
	hour, minute, err := parseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, date.Location()), nil
}

// TimePassed reports whether the appointment moment is strictly before now.
// Malformed clock strings are treated as passed so that stale rows cannot
// be cancelled forever.
func TimePassed(date time.Time, clock string, now time.Time) bool {
	at, err := Combine(date, clock)
	if err != nil {
		return true
	}
	return now.After(at)
}

// SameCalendarDay reports whether a and b fall on the same calendar day in
// a's location.
func SameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	return ay == by && am == bm && ad == bd
}

// truncateToDay drops the time-of-day component.
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
