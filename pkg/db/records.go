// Package db holds the wire-format record shapes exchanged with the
// authoritative store and their conversions into the internal model. The
// wire encodes weekdays as 0=Monday..6=Sunday integers and times as
// "HH:MM" or "HH:MM:SS" strings; this package is the only place those
// conventions are translated.
package db

import (
	"fmt"

	"github.com/hallatus/roundbooker/pkg/core/model"
	"github.com/hallatus/roundbooker/pkg/core/timegrid"
)

// SectionRecord is one application section row.
type SectionRecord struct {
	ID                         string
	RoundID                    string
	Name                       string
	Status                     string
	NumPersons                 int
	AgeGroup                   string
	Purpose                    string
	ReservationMinDuration     int
	ReservationMaxDuration     int
	AppliedReservationsPerWeek int
}

// SuitableTimeRangeRecord is one applicant-declared time window row.
type SuitableTimeRangeRecord struct {
	ID        string
	SectionID string
	Priority  string
	DayOfWeek int
	BeginTime string
	EndTime   string
}

// ReservationUnitRecord is one bookable unit row.
type ReservationUnitRecord struct {
	ID      string
	Name    string
	SpaceID string
}

// OptionRecord is one reservation-unit option row.
type OptionRecord struct {
	ID                string
	SectionID         string
	ReservationUnitID string
	PreferredOrder    int
	IsLocked          bool
	IsRejected        bool
}

// AllocatedSlotRecord is one confirmed allocation row. It doubles as the
// AllocatedSlotLike shape for related-unit queries.
type AllocatedSlotRecord struct {
	ID        string
	OptionID  string
	DayOfWeek int
	BeginTime string
	EndTime   string
}

// ToModel converts a wire slot record into the internal model representation.
func (r AllocatedSlotRecord) ToModel() (model.AllocatedTimeSlot, error) {
	day, err := timegrid.ParseWeekday(r.DayOfWeek)
	if err != nil {
		return model.AllocatedTimeSlot{}, fmt.Errorf("allocated slot %s: %w", r.ID, err)
	}
	begin, err := timegrid.ParseTimeOfDay(r.BeginTime)
	if err != nil {
		return model.AllocatedTimeSlot{}, fmt.Errorf("allocated slot %s begin: %w", r.ID, err)
	}
	end, err := timegrid.ParseTimeOfDay(r.EndTime)
	if err != nil {
		return model.AllocatedTimeSlot{}, fmt.Errorf("allocated slot %s end: %w", r.ID, err)
	}
	return model.AllocatedTimeSlot{
		ID:       r.ID,
		OptionID: r.OptionID,
		Day:      day,
		Begin:    begin,
		End:      end,
	}, nil
}

// ToModel converts a wire time range record into the internal model.
func (r SuitableTimeRangeRecord) ToModel() (model.SuitableTimeRange, error) {
	day, err := timegrid.ParseWeekday(r.DayOfWeek)
	if err != nil {
		return model.SuitableTimeRange{}, fmt.Errorf("suitable time range %s: %w", r.ID, err)
	}
	begin, err := timegrid.ParseTimeOfDay(r.BeginTime)
	if err != nil {
		return model.SuitableTimeRange{}, fmt.Errorf("suitable time range %s begin: %w", r.ID, err)
	}
	end, err := timegrid.ParseTimeOfDay(r.EndTime)
	if err != nil {
		return model.SuitableTimeRange{}, fmt.Errorf("suitable time range %s end: %w", r.ID, err)
	}
	return model.SuitableTimeRange{
		Priority: model.Priority(r.Priority),
		Day:      day,
		Begin:    begin,
		End:      end,
	}, nil
}

// SlotToRecord converts an internal slot back to its wire shape for writes.
func SlotToRecord(s model.AllocatedTimeSlot) AllocatedSlotRecord {
	return AllocatedSlotRecord{
		ID:        s.ID,
		OptionID:  s.OptionID,
		DayOfWeek: int(s.Day),
		BeginTime: s.Begin.Wire(),
		EndTime:   s.End.Wire(),
	}
}
