// Package series expands confirmed weekly allocations into the concrete
// reservation dates they produce within an application round period.
package series

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/hallatus/roundbooker/pkg/core/model"
	"github.com/hallatus/roundbooker/pkg/core/timegrid"
)

// rruleWeekdays maps the internal Monday-first weekday onto rrule weekdays.
var rruleWeekdays = [7]rrule.Weekday{
	rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA, rrule.SU,
}

// Occurrence is one concrete reservation produced by a weekly slot.
type Occurrence struct {
	Begin time.Time
	End   time.Time
}

// Expand lists every occurrence of the allocated slot between roundBegin and
// roundEnd inclusive. A slot ending at midnight produces occurrences that end
// at 00:00 on the following calendar day.
func Expand(slot model.AllocatedTimeSlot, roundBegin, roundEnd time.Time) ([]Occurrence, error) {
	if !slot.Day.Valid() {
		return nil, fmt.Errorf("invalid slot day: %d", int(slot.Day))
	}
	if roundEnd.Before(roundBegin) {
		return nil, fmt.Errorf("round period ends (%s) before it begins (%s)",
			roundEnd.Format("2006-01-02"), roundBegin.Format("2006-01-02"))
	}

	loc := roundBegin.Location()
	dtstart := time.Date(roundBegin.Year(), roundBegin.Month(), roundBegin.Day(),
		slot.Begin.Hour(), slot.Begin.Minute(), 0, 0, loc)
	until := time.Date(roundEnd.Year(), roundEnd.Month(), roundEnd.Day(),
		23, 59, 59, 0, loc)

	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Dtstart:   dtstart,
		Until:     until,
		Byweekday: []rrule.Weekday{rruleWeekdays[slot.Day]},
	})
	if err != nil {
		return nil, fmt.Errorf("build recurrence rule: %w", err)
	}

	endOffset := time.Duration(slot.End.EndMinutes()-slot.Begin.Minutes()) * time.Minute

	starts := rule.All()
	occurrences := make([]Occurrence, 0, len(starts))
	for _, begin := range starts {
		occurrences = append(occurrences, Occurrence{
			Begin: begin,
			End:   begin.Add(endOffset),
		})
	}

	return occurrences, nil
}

// WeekCount returns how many times the slot's weekday occurs within the round
// period, which is the number of reservations one confirmed slot creates.
func WeekCount(day timegrid.Weekday, roundBegin, roundEnd time.Time) (int, error) {
	occurrences, err := Expand(model.AllocatedTimeSlot{Day: day}, roundBegin, roundEnd)
	if err != nil {
		return 0, err
	}
	return len(occurrences), nil
}
