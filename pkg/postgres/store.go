package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hallatus/roundbooker/pkg/core/engine"
	"github.com/hallatus/roundbooker/pkg/core/model"
	"github.com/hallatus/roundbooker/pkg/core/timegrid"
	"github.com/hallatus/roundbooker/pkg/db"
)

// Round is one application round row.
type Round struct {
	ID                string
	Name              string
	PeriodBegin       time.Time
	PeriodEnd         time.Time
	AllocationEnabled bool
}

// GetRound loads one application round.
func (d *DB) GetRound(ctx context.Context, roundID string) (*Round, error) {
	var r Round
	err := d.pool.QueryRow(ctx, `
		SELECT id, name, period_begin, period_end, allocation_enabled
		FROM application_round
		WHERE id = $1
	`, roundID).Scan(&r.ID, &r.Name, &r.PeriodBegin, &r.PeriodEnd, &r.AllocationEnabled)
	if err != nil {
		return nil, fmt.Errorf("failed to query application round %s: %w", roundID, err)
	}
	return &r, nil
}

// RelatedUnitIDs returns the IDs of every reservation unit sharing physical
// space with the given unit, the unit itself included.
func (d *DB) RelatedUnitIDs(ctx context.Context, reservationUnitID string) ([]string, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id
		FROM reservation_unit
		WHERE space_id = (SELECT space_id FROM reservation_unit WHERE id = $1)
	`, reservationUnitID)
	if err != nil {
		return nil, fmt.Errorf("failed to query related units: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan unit id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating related units: %w", err)
	}
	return ids, nil
}

// FetchAllocations loads every application section of the round that targets
// the reservation unit, fully assembled: suitable time ranges in canonical
// order, options in applicant preference order, and allocated slots.
func (d *DB) FetchAllocations(ctx context.Context, applicationRoundID, reservationUnitID string) ([]model.ApplicationSection, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, name, status, num_persons, age_group, purpose,
		       min_duration_seconds, max_duration_seconds, applied_reservations_per_week
		FROM application_section s
		WHERE s.round_id = $1
		  AND EXISTS (
		      SELECT 1 FROM reservation_unit_option o
		      WHERE o.section_id = s.id AND o.reservation_unit_id = $2
		  )
		ORDER BY s.name, s.id
	`, applicationRoundID, reservationUnitID)
	if err != nil {
		return nil, fmt.Errorf("failed to query application sections: %w", err)
	}
	defer rows.Close()

	var sections []model.ApplicationSection
	var sectionIDs []string
	for rows.Next() {
		var s model.ApplicationSection
		if err := rows.Scan(&s.ID, &s.Name, (*string)(&s.Status), &s.NumPersons,
			&s.AgeGroup, &s.Purpose, &s.ReservationMinDuration,
			&s.ReservationMaxDuration, &s.AppliedReservationsPerWeek); err != nil {
			return nil, fmt.Errorf("failed to scan application section: %w", err)
		}
		sections = append(sections, s)
		sectionIDs = append(sectionIDs, s.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating application sections: %w", err)
	}

	if len(sections) == 0 {
		return []model.ApplicationSection{}, nil
	}

	byID := make(map[string]*model.ApplicationSection, len(sections))
	for i := range sections {
		byID[sections[i].ID] = &sections[i]
	}

	if err := d.attachTimeRanges(ctx, sectionIDs, byID); err != nil {
		return nil, err
	}
	if err := d.attachOptions(ctx, sectionIDs, byID); err != nil {
		return nil, err
	}

	return sections, nil
}

func (d *DB) attachTimeRanges(ctx context.Context, sectionIDs []string, byID map[string]*model.ApplicationSection) error {
	rows, err := d.pool.Query(ctx, `
		SELECT id, section_id, priority, day_of_week, begin_time::text, end_time::text
		FROM suitable_time_range
		WHERE section_id = ANY($1)
		ORDER BY day_of_week, begin_time
	`, sectionIDs)
	if err != nil {
		return fmt.Errorf("failed to query suitable time ranges: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec db.SuitableTimeRangeRecord
		if err := rows.Scan(&rec.ID, &rec.SectionID, &rec.Priority,
			&rec.DayOfWeek, &rec.BeginTime, &rec.EndTime); err != nil {
			return fmt.Errorf("failed to scan suitable time range: %w", err)
		}
		tr, err := rec.ToModel()
		if err != nil {
			return err
		}
		if section := byID[rec.SectionID]; section != nil {
			section.SuitableTimeRanges = append(section.SuitableTimeRanges, tr)
		}
	}
	return rows.Err()
}

func (d *DB) attachOptions(ctx context.Context, sectionIDs []string, byID map[string]*model.ApplicationSection) error {
	rows, err := d.pool.Query(ctx, `
		SELECT o.id, o.section_id, o.preferred_order, o.is_locked, o.is_rejected,
		       u.id, u.name, u.space_id
		FROM reservation_unit_option o
		JOIN reservation_unit u ON u.id = o.reservation_unit_id
		WHERE o.section_id = ANY($1)
		ORDER BY o.preferred_order, o.id
	`, sectionIDs)
	if err != nil {
		return fmt.Errorf("failed to query reservation unit options: %w", err)
	}

	optionSection := make(map[string]string)
	var optionIDs []string
	for rows.Next() {
		var opt model.ReservationUnitOption
		var sectionID string
		if err := rows.Scan(&opt.ID, &sectionID, &opt.PreferredOrder,
			&opt.IsLocked, &opt.IsRejected,
			&opt.ReservationUnit.ID, &opt.ReservationUnit.Name,
			&opt.ReservationUnit.SpaceID); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan reservation unit option: %w", err)
		}
		if section := byID[sectionID]; section != nil {
			section.ReservationUnitOptions = append(section.ReservationUnitOptions, opt)
			optionSection[opt.ID] = sectionID
			optionIDs = append(optionIDs, opt.ID)
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("error iterating options: %w", err)
	}
	rows.Close()

	if len(optionIDs) == 0 {
		return nil
	}

	slots, err := d.slotsForOptions(ctx, optionIDs)
	if err != nil {
		return err
	}

	for optionID, optionSlots := range slots {
		section := byID[optionSection[optionID]]
		if section == nil {
			continue
		}
		for i := range section.ReservationUnitOptions {
			if section.ReservationUnitOptions[i].ID == optionID {
				section.ReservationUnitOptions[i].AllocatedSlots = optionSlots
				break
			}
		}
	}
	return nil
}

func (d *DB) slotsForOptions(ctx context.Context, optionIDs []string) (map[string][]model.AllocatedTimeSlot, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, option_id, day_of_week, begin_time::text, end_time::text
		FROM allocated_time_slot
		WHERE option_id = ANY($1)
		ORDER BY day_of_week, begin_time
	`, optionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query allocated time slots: %w", err)
	}
	defer rows.Close()

	slots := make(map[string][]model.AllocatedTimeSlot)
	for rows.Next() {
		var rec db.AllocatedSlotRecord
		if err := rows.Scan(&rec.ID, &rec.OptionID, &rec.DayOfWeek,
			&rec.BeginTime, &rec.EndTime); err != nil {
			return nil, fmt.Errorf("failed to scan allocated time slot: %w", err)
		}
		slot, err := rec.ToModel()
		if err != nil {
			return nil, err
		}
		slots[rec.OptionID] = append(slots[rec.OptionID], slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating allocated time slots: %w", err)
	}
	return slots, nil
}

// FetchRelatedAllocations returns the raw allocated slots of the given
// reservation units within the round, the input to the related-slot
// aggregator.
func (d *DB) FetchRelatedAllocations(ctx context.Context, unitIDs []string, applicationRoundID string) ([]model.AllocatedTimeSlot, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT a.id, a.option_id, a.day_of_week, a.begin_time::text, a.end_time::text
		FROM allocated_time_slot a
		JOIN reservation_unit_option o ON o.id = a.option_id
		JOIN application_section s ON s.id = o.section_id
		WHERE s.round_id = $2
		  AND o.reservation_unit_id = ANY($1)
	`, unitIDs, applicationRoundID)
	if err != nil {
		return nil, fmt.Errorf("failed to query related allocations: %w", err)
	}
	defer rows.Close()

	var slots []model.AllocatedTimeSlot
	for rows.Next() {
		var rec db.AllocatedSlotRecord
		if err := rows.Scan(&rec.ID, &rec.OptionID, &rec.DayOfWeek,
			&rec.BeginTime, &rec.EndTime); err != nil {
			return nil, fmt.Errorf("failed to scan related allocation: %w", err)
		}
		slot, err := rec.ToModel()
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating related allocations: %w", err)
	}
	return slots, nil
}

// AcceptTimeSlot inserts one confirmed allocation for the option.
func (d *DB) AcceptTimeSlot(ctx context.Context, sectionID, optionID string, day timegrid.Weekday, begin, end timegrid.TimeOfDay) (model.AllocatedTimeSlot, error) {
	slot := model.AllocatedTimeSlot{
		ID:       uuid.NewString(),
		OptionID: optionID,
		Day:      day,
		Begin:    begin,
		End:      end,
	}
	rec := db.SlotToRecord(slot)

	tag, err := d.pool.Exec(ctx, `
		INSERT INTO allocated_time_slot (id, option_id, day_of_week, begin_time, end_time)
		SELECT $1, $2, $3, $4::time, $5::time
		WHERE EXISTS (
		    SELECT 1 FROM reservation_unit_option o
		    WHERE o.id = $2 AND o.section_id = $6
		)
	`, rec.ID, rec.OptionID, rec.DayOfWeek, rec.BeginTime, rec.EndTime, sectionID)
	if err != nil {
		return model.AllocatedTimeSlot{}, fmt.Errorf("failed to insert allocated time slot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.AllocatedTimeSlot{}, fmt.Errorf("option %s not found on section %s", optionID, sectionID)
	}

	return slot, nil
}

// RemoveAllocatedTimeSlot deletes one allocation. Missing slots surface as a
// not-found error; the caller re-fetches rather than reconciling.
func (d *DB) RemoveAllocatedTimeSlot(ctx context.Context, allocatedSlotID string) error {
	tag, err := d.pool.Exec(ctx, `
		DELETE FROM allocated_time_slot WHERE id = $1
	`, allocatedSlotID)
	if err != nil {
		return fmt.Errorf("failed to delete allocated time slot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("allocated time slot %s not found", allocatedSlotID)
	}
	return nil
}

// UpdateReservationUnitOption patches the lock/reject flags; nil fields keep
// their stored value.
func (d *DB) UpdateReservationUnitOption(ctx context.Context, optionID string, patch engine.OptionPatch) (model.ReservationUnitOption, error) {
	var opt model.ReservationUnitOption
	err := d.pool.QueryRow(ctx, `
		UPDATE reservation_unit_option o
		SET is_locked   = COALESCE($2, is_locked),
		    is_rejected = COALESCE($3, is_rejected)
		FROM reservation_unit u
		WHERE o.id = $1 AND u.id = o.reservation_unit_id
		RETURNING o.id, o.preferred_order, o.is_locked, o.is_rejected,
		          u.id, u.name, u.space_id
	`, optionID, patch.IsLocked, patch.IsRejected).Scan(
		&opt.ID, &opt.PreferredOrder, &opt.IsLocked, &opt.IsRejected,
		&opt.ReservationUnit.ID, &opt.ReservationUnit.Name, &opt.ReservationUnit.SpaceID)
	if err != nil {
		return model.ReservationUnitOption{}, fmt.Errorf("failed to update option %s: %w", optionID, err)
	}

	slots, err := d.slotsForOptions(ctx, []string{optionID})
	if err != nil {
		return model.ReservationUnitOption{}, err
	}
	opt.AllocatedSlots = slots[optionID]

	return opt, nil
}
