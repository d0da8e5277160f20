package allocation

import (
	"sort"

	"github.com/hallatus/roundbooker/pkg/core/model"
	"github.com/hallatus/roundbooker/pkg/core/timegrid"
)

// RelatedSlot is one blocking interval derived from an allocation on a
// reservation unit that shares physical space with the unit being allocated
// against. Derived data only; never persisted.
type RelatedSlot struct {
	Day          timegrid.Weekday
	BeginMinutes int
	EndMinutes   int
}

// RelatedSlots holds blocking intervals bucketed per weekday, Monday-first.
// Intervals within a day are sorted by begin time and de-duplicated, but
// deliberately not coalesced: each source allocation stays its own interval,
// and any overlap with any one interval is a conflict.
type RelatedSlots [7][]RelatedSlot

// AggregateRelated reduces the flat list of allocated slots from every
// space-sharing reservation unit into the per-day blocking structure.
func AggregateRelated(slots []model.AllocatedTimeSlot) RelatedSlots {
	var out RelatedSlots
	for _, s := range slots {
		if !s.Day.Valid() {
			continue
		}
		rs := RelatedSlot{
			Day:          s.Day,
			BeginMinutes: s.Begin.Minutes(),
			EndMinutes:   s.End.EndMinutes(),
		}
		out[s.Day] = append(out[s.Day], rs)
	}

	for day := range out {
		sort.Slice(out[day], func(i, j int) bool {
			if out[day][i].BeginMinutes != out[day][j].BeginMinutes {
				return out[day][i].BeginMinutes < out[day][j].BeginMinutes
			}
			return out[day][i].EndMinutes < out[day][j].EndMinutes
		})
		out[day] = dedupe(out[day])
	}

	return out
}

func dedupe(slots []RelatedSlot) []RelatedSlot {
	if len(slots) < 2 {
		return slots
	}
	kept := slots[:1]
	for _, s := range slots[1:] {
		last := kept[len(kept)-1]
		if s.BeginMinutes == last.BeginMinutes && s.EndMinutes == last.EndMinutes {
			continue
		}
		kept = append(kept, s)
	}
	return kept
}

// ConflictsWith reports whether the selection overlaps any related blocking
// interval on its day.
func (rs RelatedSlots) ConflictsWith(sel Selection) bool {
	if !sel.Day.Valid() {
		return false
	}
	begin := sel.Begin.Minutes()
	end := sel.End.EndMinutes()
	for _, slot := range rs[sel.Day] {
		if overlaps(begin, end, slot.BeginMinutes, slot.EndMinutes) {
			return true
		}
	}
	return false
}

// ForDay returns the blocking intervals for one day, for calendar shading.
func (rs RelatedSlots) ForDay(day timegrid.Weekday) []RelatedSlot {
	if !day.Valid() {
		return nil
	}
	return rs[day]
}
