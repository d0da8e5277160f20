package model

import (
	"github.com/hallatus/roundbooker/pkg/core/timegrid"
)

// SectionStatus is the lifecycle status of an application section.
type SectionStatus string

const (
	SectionStatusUnallocated  SectionStatus = "UNALLOCATED"
	SectionStatusInAllocation SectionStatus = "IN_ALLOCATION"
	SectionStatusHandled      SectionStatus = "HANDLED"
	SectionStatusRejected     SectionStatus = "REJECTED"
)

// Terminal reports whether the status ends the section's allocation lifecycle.
func (s SectionStatus) Terminal() bool {
	return s == SectionStatusHandled || s == SectionStatusRejected
}

// Priority tags a suitable time range as a first or second choice.
type Priority string

const (
	PriorityPrimary   Priority = "PRIMARY"
	PrioritySecondary Priority = "SECONDARY"
)

// SuitableTimeRange is an applicant-declared acceptable weekly time window.
// End is exclusive; a midnight End means end-of-day (24:00). Multiple ranges
// per day are allowed and need not be contiguous.
type SuitableTimeRange struct {
	Priority Priority           `json:"priority"`
	Day      timegrid.Weekday   `json:"dayOfWeek"`
	Begin    timegrid.TimeOfDay `json:"beginTime"`
	End      timegrid.TimeOfDay `json:"endTime"`
}

// DurationSeconds returns the length of the range in seconds, applying the
// end-of-day wrap for a midnight end time.
func (r SuitableTimeRange) DurationSeconds() int {
	return (r.End.EndMinutes() - r.Begin.Minutes()) * 60
}

// ReservationUnit identifies one bookable unit and the physical space it
// occupies. Units sharing a SpaceID block each other's allocations.
type ReservationUnit struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	SpaceID string `json:"spaceID"`
}

// AllocatedTimeSlot is a confirmed weekly recurring time assignment for one
// reservation-unit option.
type AllocatedTimeSlot struct {
	ID       string             `json:"id"`
	OptionID string             `json:"optionID"`
	Day      timegrid.Weekday   `json:"dayOfWeek"`
	Begin    timegrid.TimeOfDay `json:"beginTime"`
	End      timegrid.TimeOfDay `json:"endTime"`
}

// ReservationUnitOption pairs an application section with one candidate
// reservation unit, carrying the staff lock/reject flags and the slots
// allocated so far.
type ReservationUnitOption struct {
	ID              string              `json:"id"`
	ReservationUnit ReservationUnit     `json:"reservationUnit"`
	PreferredOrder  int                 `json:"preferredOrder"`
	IsLocked        bool                `json:"isLocked"`
	IsRejected      bool                `json:"isRejected"`
	AllocatedSlots  []AllocatedTimeSlot `json:"allocatedTimeSlots"`
}

// ApplicationSection is one recurring reservation request within an
// application. The allocation engine reads sections and mutates them only
// indirectly through their options' allocated slots and flags.
type ApplicationSection struct {
	ID                         string                  `json:"id"`
	Name                       string                  `json:"name"`
	Status                     SectionStatus           `json:"status"`
	NumPersons                 int                     `json:"numPersons"`
	AgeGroup                   string                  `json:"ageGroup"`
	Purpose                    string                  `json:"purpose"`
	ReservationMinDuration     int                     `json:"reservationMinDuration"` // seconds
	ReservationMaxDuration     int                     `json:"reservationMaxDuration"` // seconds
	AppliedReservationsPerWeek int                     `json:"appliedReservationsPerWeek"`
	SuitableTimeRanges         []SuitableTimeRange     `json:"suitableTimeRanges"`
	ReservationUnitOptions     []ReservationUnitOption `json:"reservationUnitOptions"`
}

// OptionForUnit returns the section's option targeting the given reservation
// unit, or nil if the unit is not among the section's options. Options are
// kept in applicant preference order, so the first match is the only match.
func (s *ApplicationSection) OptionForUnit(reservationUnitID string) *ReservationUnitOption {
	for i := range s.ReservationUnitOptions {
		if s.ReservationUnitOptions[i].ReservationUnit.ID == reservationUnitID {
			return &s.ReservationUnitOptions[i]
		}
	}
	return nil
}

// AllocatedCount returns the total number of allocated slots across all of
// the section's options.
func (s *ApplicationSection) AllocatedCount() int {
	count := 0
	for i := range s.ReservationUnitOptions {
		count += len(s.ReservationUnitOptions[i].AllocatedSlots)
	}
	return count
}
