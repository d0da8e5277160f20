package allocation

import (
	"fmt"
	"sort"

	"github.com/hallatus/roundbooker/pkg/core/model"
)

// RangesByPriority returns the section's suitable time ranges with the given
// priority, sorted into canonical display and validation order: day of week
// ascending, then begin time ascending. The input is not modified.
func RangesByPriority(ranges []model.SuitableTimeRange, priority model.Priority) []model.SuitableTimeRange {
	filtered := make([]model.SuitableTimeRange, 0, len(ranges))
	for _, r := range ranges {
		if r.Priority == priority {
			filtered = append(filtered, r)
		}
	}
	SortCanonical(filtered)
	return filtered
}

// SortCanonical sorts ranges in place by (day, begin time) ascending.
func SortCanonical(ranges []model.SuitableTimeRange) {
	sort.SliceStable(ranges, func(i, j int) bool {
		if ranges[i].Day != ranges[j].Day {
			return ranges[i].Day < ranges[j].Day
		}
		return ranges[i].Begin.Before(ranges[j].Begin)
	})
}

// FormatRange renders a range as "Weekday HH:MM-HH:MM". Localization is the
// caller's concern; this is the neutral fallback representation.
func FormatRange(r model.SuitableTimeRange) string {
	return fmt.Sprintf("%s %s-%s", r.Day, r.Begin, r.End)
}
