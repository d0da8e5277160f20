package timegrid

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// MinutesPerDay is 24 hours * 60 minutes.
	MinutesPerDay = 1440

	// CellsPerDay is the number of 30-minute cells in a day.
	CellsPerDay = 48

	// TotalCells is the number of addressable cells in a week.
	TotalCells = 7 * CellsPerDay
)

// TimeOfDay is a clock time within a day, stored as minutes since midnight.
// The zero value is midnight. A TimeOfDay never reaches 1440; "00:00" used as
// an end time is interpreted as end-of-day by EndMinutes, not by the type
// itself.
type TimeOfDay struct {
	minutes int
}

// NewTimeOfDay builds a TimeOfDay from an hour and minute.
func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 {
		return TimeOfDay{}, fmt.Errorf("hour out of range: %d", hour)
	}
	if minute < 0 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("minute out of range: %d", minute)
	}
	return TimeOfDay{minutes: hour*60 + minute}, nil
}

// ParseTimeOfDay parses a wire-format time string, either "HH:MM" or
// "HH:MM:SS". Seconds are accepted but discarded; allocations are always
// minute-aligned.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return TimeOfDay{}, fmt.Errorf("invalid time %q: expected HH:MM or HH:MM:SS", s)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid hour in %q: %w", s, err)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid minute in %q: %w", s, err)
	}
	if len(parts) == 3 {
		if _, err := strconv.Atoi(parts[2]); err != nil {
			return TimeOfDay{}, fmt.Errorf("invalid second in %q: %w", s, err)
		}
	}

	return NewTimeOfDay(hour, minute)
}

// Minutes returns minutes since midnight, 0..1439.
func (t TimeOfDay) Minutes() int {
	return t.minutes
}

// EndMinutes returns minutes since midnight with the end-of-day wrap applied:
// a midnight end time means 24:00, not 00:00. Every component that reads an
// end time must go through this method.
func (t TimeOfDay) EndMinutes() int {
	if t.minutes == 0 {
		return MinutesPerDay
	}
	return t.minutes
}

// Hour returns the hour component, 0..23.
func (t TimeOfDay) Hour() int {
	return t.minutes / 60
}

// Minute returns the minute component, 0..59.
func (t TimeOfDay) Minute() int {
	return t.minutes % 60
}

// IsMidnight reports whether the time is exactly 00:00.
func (t TimeOfDay) IsMidnight() bool {
	return t.minutes == 0
}

// String formats the time as "HH:MM".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// Wire formats the time as "HH:MM:SS" for the store.
func (t TimeOfDay) Wire() string {
	return fmt.Sprintf("%02d:%02d:00", t.Hour(), t.Minute())
}

// Before reports whether t is strictly earlier than o.
func (t TimeOfDay) Before(o TimeOfDay) bool {
	return t.minutes < o.minutes
}

// MarshalJSON encodes the time as its wire string.
func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(t.Wire())), nil
}

// UnmarshalJSON decodes a wire-format time string.
func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("invalid time json %s: %w", data, err)
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
