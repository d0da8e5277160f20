package timegrid

import (
	"fmt"
	"time"
)

// Weekday is the internal day-of-week representation, Monday-first (0=Monday,
// 6=Sunday). This is the only convention used inside the engine; the wire
// format and Go's time package are converted at the boundary and nowhere else.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [...]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// Valid returns true if the weekday is within the Monday..Sunday range.
func (w Weekday) Valid() bool {
	return w >= Monday && w <= Sunday
}

func (w Weekday) String() string {
	if !w.Valid() {
		return fmt.Sprintf("Weekday(%d)", int(w))
	}
	return weekdayNames[w]
}

// FromTimeWeekday converts Go's native Sunday-first time.Weekday into the
// internal Monday-first convention.
func FromTimeWeekday(d time.Weekday) Weekday {
	// time.Sunday is 0; shift so Monday becomes 0 and Sunday becomes 6.
	return Weekday((int(d) + 6) % 7)
}

// ToTimeWeekday converts the internal Monday-first weekday back to Go's
// Sunday-first time.Weekday.
func (w Weekday) ToTimeWeekday() time.Weekday {
	return time.Weekday((int(w) + 1) % 7)
}

// ParseWeekday validates a wire-format weekday (0=Monday..6=Sunday, the same
// convention the store uses) and returns it as a Weekday.
func ParseWeekday(n int) (Weekday, error) {
	w := Weekday(n)
	if !w.Valid() {
		return 0, fmt.Errorf("weekday out of range: %d", n)
	}
	return w, nil
}
