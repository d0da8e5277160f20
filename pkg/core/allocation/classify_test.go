package allocation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hallatus/roundbooker/pkg/core/model"
	"github.com/hallatus/roundbooker/pkg/core/timegrid"
)

const testUnitID = "unit-1"

func sectionWithOption(status model.SectionStatus, slots int, locked, rejected bool) *model.ApplicationSection {
	option := model.ReservationUnitOption{
		ID:              "option-1",
		ReservationUnit: model.ReservationUnit{ID: testUnitID, SpaceID: "space-1"},
		IsLocked:        locked,
		IsRejected:      rejected,
	}
	for i := 0; i < slots; i++ {
		option.AllocatedSlots = append(option.AllocatedSlots, model.AllocatedTimeSlot{
			ID:  fmt.Sprintf("slot-%d", i),
			Day: timegrid.Monday,
		})
	}
	return &model.ApplicationSection{
		ID:                     "section-1",
		Status:                 status,
		ReservationUnitOptions: []model.ReservationUnitOption{option},
	}
}

func TestClassify_RejectedAlwaysDeclined(t *testing.T) {
	// Rejection wins over every other flag combination
	statuses := []model.SectionStatus{
		model.SectionStatusUnallocated,
		model.SectionStatusInAllocation,
		model.SectionStatusHandled,
	}
	for _, status := range statuses {
		for _, locked := range []bool{false, true} {
			for _, slots := range []int{0, 1, 3} {
				section := sectionWithOption(status, slots, locked, true)
				assert.Equal(t, BucketDeclined, Classify(section, testUnitID),
					"status=%s locked=%v slots=%d", status, locked, slots)
			}
		}
	}
}

func TestClassify_HandledWithoutSlotsIsDeclined(t *testing.T) {
	section := sectionWithOption(model.SectionStatusHandled, 0, false, false)
	assert.Equal(t, BucketDeclined, Classify(section, testUnitID))
}

func TestClassify_HandledWithSlotsIsAllocated(t *testing.T) {
	section := sectionWithOption(model.SectionStatusHandled, 1, false, false)
	assert.Equal(t, BucketAllocated, Classify(section, testUnitID))
}

func TestClassify_LockedWithSlotsIsAllocated(t *testing.T) {
	section := sectionWithOption(model.SectionStatusInAllocation, 1, true, false)
	assert.Equal(t, BucketAllocated, Classify(section, testUnitID))
}

func TestClassify_LockedWithoutSlotsIsUnallocated(t *testing.T) {
	// Lock alone does not allocate; rule 2 needs at least one slot
	section := sectionWithOption(model.SectionStatusInAllocation, 0, true, false)
	assert.Equal(t, BucketUnallocated, Classify(section, testUnitID))
}

func TestClassify_SlotsWithoutLockIsPartiallyAllocated(t *testing.T) {
	section := sectionWithOption(model.SectionStatusInAllocation, 1, false, false)
	assert.Equal(t, BucketPartiallyAllocated, Classify(section, testUnitID))
}

func TestClassify_NothingIsUnallocated(t *testing.T) {
	section := sectionWithOption(model.SectionStatusUnallocated, 0, false, false)
	assert.Equal(t, BucketUnallocated, Classify(section, testUnitID))
}

func TestClassify_LockingReclassifiesPartialToAllocated(t *testing.T) {
	section := sectionWithOption(model.SectionStatusInAllocation, 1, false, false)
	section.AppliedReservationsPerWeek = 2
	assert.Equal(t, BucketPartiallyAllocated, Classify(section, testUnitID))

	// Staff locks the remaining capacity; the same single slot now counts as done
	section.ReservationUnitOptions[0].IsLocked = true
	assert.Equal(t, BucketAllocated, Classify(section, testUnitID))
}

func TestClassify_UnknownUnitIsDeclined(t *testing.T) {
	section := sectionWithOption(model.SectionStatusInAllocation, 1, false, false)
	assert.Equal(t, BucketDeclined, Classify(section, "other-unit"))
}

func TestClassify_TotalOverAllFlagCombinations(t *testing.T) {
	// Every combination lands in exactly one bucket
	statuses := []model.SectionStatus{
		model.SectionStatusUnallocated,
		model.SectionStatusInAllocation,
		model.SectionStatusHandled,
		model.SectionStatusRejected,
	}
	for _, status := range statuses {
		for _, locked := range []bool{false, true} {
			for _, rejected := range []bool{false, true} {
				for _, slots := range []int{0, 1, 2} {
					section := sectionWithOption(status, slots, locked, rejected)
					bucket := Classify(section, testUnitID)
					assert.Contains(t, Buckets, bucket,
						"status=%s locked=%v rejected=%v slots=%d", status, locked, rejected, slots)
				}
			}
		}
	}
}

func TestGroupByBucket_PreservesOrder(t *testing.T) {
	first := *sectionWithOption(model.SectionStatusInAllocation, 0, false, false)
	first.ID = "section-a"
	second := *sectionWithOption(model.SectionStatusInAllocation, 0, false, false)
	second.ID = "section-b"

	grouped := GroupByBucket([]model.ApplicationSection{first, second}, testUnitID)

	unallocated := grouped[BucketUnallocated]
	assert.Len(t, unallocated, 2)
	assert.Equal(t, "section-a", unallocated[0].ID)
	assert.Equal(t, "section-b", unallocated[1].ID)
}
