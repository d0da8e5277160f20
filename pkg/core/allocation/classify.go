package allocation

import (
	"github.com/hallatus/roundbooker/pkg/core/model"
)

// Bucket is the staff-facing allocation queue a section belongs to for one
// reservation unit.
type Bucket string

const (
	BucketUnallocated        Bucket = "UNALLOCATED"
	BucketPartiallyAllocated Bucket = "PARTIALLY_ALLOCATED"
	BucketAllocated          Bucket = "ALLOCATED"
	BucketDeclined           Bucket = "DECLINED"
)

// Buckets lists the four buckets in queue display order.
var Buckets = []Bucket{BucketUnallocated, BucketPartiallyAllocated, BucketAllocated, BucketDeclined}

// Classify buckets a section relative to one reservation unit. The precedence
// is load-bearing and must not be reordered: a handled section with zero
// slots is Declined by the first rule even though the second rule also names
// handled sections. First match wins:
//
//  1. Declined: the option is rejected, or the section is terminally handled
//     with no allocations for this unit.
//  2. Allocated: the section is handled, or the option is locked with at
//     least one allocated slot.
//  3. PartiallyAllocated: not handled, has at least one slot, neither locked
//     nor rejected.
//  4. Unallocated: everything else.
//
// A section with no option for the unit was never a candidate and classifies
// as Declined.
func Classify(section *model.ApplicationSection, reservationUnitID string) Bucket {
	option := section.OptionForUnit(reservationUnitID)
	if option == nil {
		return BucketDeclined
	}

	allocated := len(option.AllocatedSlots)

	if option.IsRejected {
		return BucketDeclined
	}
	if section.Status == model.SectionStatusHandled && allocated == 0 {
		return BucketDeclined
	}

	if section.Status == model.SectionStatusHandled {
		return BucketAllocated
	}
	if allocated >= 1 && option.IsLocked {
		return BucketAllocated
	}

	if allocated >= 1 && !option.IsLocked && !option.IsRejected {
		return BucketPartiallyAllocated
	}

	return BucketUnallocated
}

// GroupByBucket classifies every section against the unit and groups them
// into the four buckets, preserving input order within each bucket.
func GroupByBucket(sections []model.ApplicationSection, reservationUnitID string) map[Bucket][]model.ApplicationSection {
	grouped := make(map[Bucket][]model.ApplicationSection, len(Buckets))
	for i := range sections {
		bucket := Classify(&sections[i], reservationUnitID)
		grouped[bucket] = append(grouped[bucket], sections[i])
	}
	return grouped
}
