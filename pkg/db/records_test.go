package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hallatus/roundbooker/pkg/core/model"
	"github.com/hallatus/roundbooker/pkg/core/timegrid"
)

func TestAllocatedSlotRecord_ToModel(t *testing.T) {
	record := AllocatedSlotRecord{
		ID:        "slot-1",
		OptionID:  "option-1",
		DayOfWeek: 0,
		BeginTime: "17:00:00",
		EndTime:   "19:00:00",
	}

	slot, err := record.ToModel()

	require.NoError(t, err)
	assert.Equal(t, timegrid.Monday, slot.Day)
	assert.Equal(t, "17:00", slot.Begin.String())
	assert.Equal(t, "19:00", slot.End.String())
}

func TestAllocatedSlotRecord_ToModel_BadValues(t *testing.T) {
	base := AllocatedSlotRecord{
		ID: "slot-1", OptionID: "option-1", DayOfWeek: 0,
		BeginTime: "17:00:00", EndTime: "19:00:00",
	}

	bad := base
	bad.DayOfWeek = 7
	_, err := bad.ToModel()
	assert.Error(t, err)

	bad = base
	bad.BeginTime = "25:00"
	_, err = bad.ToModel()
	assert.Error(t, err)

	bad = base
	bad.EndTime = "noon"
	_, err = bad.ToModel()
	assert.Error(t, err)
}

func TestSuitableTimeRangeRecord_ToModel_MidnightEnd(t *testing.T) {
	record := SuitableTimeRangeRecord{
		ID:        "range-1",
		SectionID: "section-1",
		Priority:  "PRIMARY",
		DayOfWeek: 6,
		BeginTime: "22:00",
		EndTime:   "00:00",
	}

	tr, err := record.ToModel()

	require.NoError(t, err)
	assert.Equal(t, model.PriorityPrimary, tr.Priority)
	assert.Equal(t, timegrid.Sunday, tr.Day)
	assert.Equal(t, 2*3600, tr.DurationSeconds())
}

func TestSlotToRecord_WireShape(t *testing.T) {
	begin, err := timegrid.ParseTimeOfDay("09:30")
	require.NoError(t, err)
	end, err := timegrid.ParseTimeOfDay("11:00")
	require.NoError(t, err)

	record := SlotToRecord(model.AllocatedTimeSlot{
		ID:       "slot-1",
		OptionID: "option-1",
		Day:      timegrid.Saturday,
		Begin:    begin,
		End:      end,
	})

	assert.Equal(t, 5, record.DayOfWeek)
	assert.Equal(t, "09:30:00", record.BeginTime)
	assert.Equal(t, "11:00:00", record.EndTime)
}
