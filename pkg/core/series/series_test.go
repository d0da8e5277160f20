package series

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hallatus/roundbooker/pkg/core/model"
	"github.com/hallatus/roundbooker/pkg/core/timegrid"
)

func tod(t *testing.T, s string) timegrid.TimeOfDay {
	t.Helper()
	parsed, err := timegrid.ParseTimeOfDay(s)
	require.NoError(t, err)
	return parsed
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestExpand_WeeklyOccurrences(t *testing.T) {
	slot := model.AllocatedTimeSlot{
		Day:   timegrid.Wednesday,
		Begin: tod(t, "17:00"),
		End:   tod(t, "19:00"),
	}

	// 2026-09-07 is a Monday; a four week round has four Wednesdays.
	occurrences, err := Expand(slot, date(2026, time.September, 7), date(2026, time.October, 4))

	require.NoError(t, err)
	require.Len(t, occurrences, 4)
	for _, occ := range occurrences {
		assert.Equal(t, time.Wednesday, occ.Begin.Weekday())
		assert.Equal(t, 17, occ.Begin.Hour())
		assert.Equal(t, 2*time.Hour, occ.End.Sub(occ.Begin))
	}
	assert.Equal(t, date(2026, time.September, 9).Add(17*time.Hour), occurrences[0].Begin)
}

func TestExpand_BoundaryDaysIncluded(t *testing.T) {
	slot := model.AllocatedTimeSlot{
		Day:   timegrid.Monday,
		Begin: tod(t, "10:00"),
		End:   tod(t, "11:00"),
	}

	// Round begins and ends on the slot's weekday; both dates count.
	occurrences, err := Expand(slot, date(2026, time.September, 7), date(2026, time.September, 14))

	require.NoError(t, err)
	assert.Len(t, occurrences, 2)
}

func TestExpand_MidnightEndCrossesIntoNextDay(t *testing.T) {
	slot := model.AllocatedTimeSlot{
		Day:   timegrid.Friday,
		Begin: tod(t, "22:00"),
		End:   tod(t, "00:00"),
	}

	occurrences, err := Expand(slot, date(2026, time.September, 7), date(2026, time.September, 13))

	require.NoError(t, err)
	require.Len(t, occurrences, 1)
	occ := occurrences[0]
	assert.Equal(t, time.Friday, occ.Begin.Weekday())
	assert.Equal(t, time.Saturday, occ.End.Weekday())
	assert.Equal(t, 0, occ.End.Hour())
}

func TestExpand_InvalidInputs(t *testing.T) {
	slot := model.AllocatedTimeSlot{
		Day:   timegrid.Weekday(9),
		Begin: tod(t, "10:00"),
		End:   tod(t, "11:00"),
	}
	_, err := Expand(slot, date(2026, time.September, 7), date(2026, time.October, 4))
	assert.Error(t, err)

	slot.Day = timegrid.Monday
	_, err = Expand(slot, date(2026, time.October, 4), date(2026, time.September, 7))
	assert.Error(t, err, "inverted round period")
}

func TestWeekCount(t *testing.T) {
	// 2026-09-07 (Monday) through 2026-11-29 (Sunday) is twelve full weeks.
	count, err := WeekCount(timegrid.Thursday, date(2026, time.September, 7), date(2026, time.November, 29))

	require.NoError(t, err)
	assert.Equal(t, 12, count)
}
