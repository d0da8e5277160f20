package allocation

import (
	"github.com/hallatus/roundbooker/pkg/core/model"
	"github.com/hallatus/roundbooker/pkg/core/timegrid"
)

// Selection is a staff-drawn candidate slot: one day plus a half-hour-aligned
// begin/end pair. End is exclusive, with midnight meaning end-of-day.
type Selection struct {
	Day   timegrid.Weekday
	Begin timegrid.TimeOfDay
	End   timegrid.TimeOfDay
}

// DurationSeconds returns the selection length in seconds.
func (s Selection) DurationSeconds() int {
	return (s.End.EndMinutes() - s.Begin.Minutes()) * 60
}

// overlaps reports whether two half-open minute intervals [beginA, endA) and
// [beginB, endB) intersect. Symmetric by construction.
func overlaps(beginA, endA, beginB, endB int) bool {
	return beginA < endB && endA > beginB
}

// IsInsideSelection reports whether a suitable time range touches the staff
// selection: same day, range begins no later than the selection ends, and
// range ends after the selection begins. A mismatch against every requested
// range is reported as a warning, not a hard block.
func IsInsideSelection(sel Selection, r model.SuitableTimeRange) bool {
	if sel.Day != r.Day {
		return false
	}
	return r.Begin.Minutes() <= sel.End.EndMinutes() && r.End.EndMinutes() > sel.Begin.Minutes()
}

// IsInsideCell is the single-cell form of IsInsideSelection, used to derive
// grid cell occupancy. The cell's begin stands in for both ends of the
// selection.
func IsInsideCell(cell timegrid.Cell, r model.SuitableTimeRange) bool {
	if cell.Day != r.Day {
		return false
	}
	begin := cell.BeginMinutes()
	return r.Begin.Minutes() <= begin && r.End.EndMinutes() > begin
}

// SelectionMatchesRequested reports whether the selection touches at least
// one of the section's suitable time ranges.
func SelectionMatchesRequested(sel Selection, ranges []model.SuitableTimeRange) bool {
	for _, r := range ranges {
		if IsInsideSelection(sel, r) {
			return true
		}
	}
	return false
}

// ConflictsWithSlots reports whether the selection overlaps any already
// allocated slot on the same day.
func ConflictsWithSlots(sel Selection, slots []model.AllocatedTimeSlot) bool {
	for _, slot := range slots {
		if slot.Day != sel.Day {
			continue
		}
		if overlaps(sel.Begin.Minutes(), sel.End.EndMinutes(), slot.Begin.Minutes(), slot.End.EndMinutes()) {
			return true
		}
	}
	return false
}
