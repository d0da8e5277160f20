package allocation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hallatus/roundbooker/pkg/core/model"
	"github.com/hallatus/roundbooker/pkg/core/timegrid"
)

func relatedSlot(t *testing.T, day timegrid.Weekday, begin, end string) model.AllocatedTimeSlot {
	t.Helper()
	return model.AllocatedTimeSlot{Day: day, Begin: tod(t, begin), End: tod(t, end)}
}

func TestAggregateRelated_BucketsByDay(t *testing.T) {
	slots := []model.AllocatedTimeSlot{
		relatedSlot(t, timegrid.Monday, "10:00", "12:00"),
		relatedSlot(t, timegrid.Wednesday, "08:00", "09:00"),
		relatedSlot(t, timegrid.Monday, "14:00", "15:00"),
	}

	related := AggregateRelated(slots)

	require.Len(t, related.ForDay(timegrid.Monday), 2)
	require.Len(t, related.ForDay(timegrid.Wednesday), 1)
	assert.Empty(t, related.ForDay(timegrid.Sunday))
}

func TestAggregateRelated_SortsWithinDay(t *testing.T) {
	slots := []model.AllocatedTimeSlot{
		relatedSlot(t, timegrid.Monday, "14:00", "15:00"),
		relatedSlot(t, timegrid.Monday, "08:00", "09:30"),
		relatedSlot(t, timegrid.Monday, "10:00", "12:00"),
	}

	monday := AggregateRelated(slots).ForDay(timegrid.Monday)

	require.Len(t, monday, 3)
	assert.Equal(t, 480, monday[0].BeginMinutes)
	assert.Equal(t, 600, monday[1].BeginMinutes)
	assert.Equal(t, 840, monday[2].BeginMinutes)
}

func TestAggregateRelated_DeduplicatesButDoesNotCoalesce(t *testing.T) {
	slots := []model.AllocatedTimeSlot{
		relatedSlot(t, timegrid.Monday, "10:00", "12:00"),
		relatedSlot(t, timegrid.Monday, "10:00", "12:00"),
		relatedSlot(t, timegrid.Monday, "11:00", "13:00"),
	}

	monday := AggregateRelated(slots).ForDay(timegrid.Monday)

	// Exact duplicate removed, overlapping intervals kept separate
	require.Len(t, monday, 2)
	assert.Equal(t, RelatedSlot{Day: timegrid.Monday, BeginMinutes: 600, EndMinutes: 720}, monday[0])
	assert.Equal(t, RelatedSlot{Day: timegrid.Monday, BeginMinutes: 660, EndMinutes: 780}, monday[1])
}

func TestAggregateRelated_MidnightEndWrap(t *testing.T) {
	slots := []model.AllocatedTimeSlot{
		relatedSlot(t, timegrid.Saturday, "22:00", "00:00"),
	}

	saturday := AggregateRelated(slots).ForDay(timegrid.Saturday)

	require.Len(t, saturday, 1)
	assert.Equal(t, timegrid.MinutesPerDay, saturday[0].EndMinutes)
}

func TestRelatedSlots_ConflictsWith(t *testing.T) {
	related := AggregateRelated([]model.AllocatedTimeSlot{
		relatedSlot(t, timegrid.Monday, "10:00", "12:00"),
	})

	// Candidate 11:00-13:00 on the same day overlaps the related 10:00-12:00
	assert.True(t, related.ConflictsWith(selection(t, timegrid.Monday, "11:00", "13:00")))

	assert.False(t, related.ConflictsWith(selection(t, timegrid.Monday, "12:00", "13:00")))
	assert.False(t, related.ConflictsWith(selection(t, timegrid.Tuesday, "11:00", "13:00")))
}
