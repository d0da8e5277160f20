package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hallatus/roundbooker/pkg/core/allocation"
	"github.com/hallatus/roundbooker/pkg/core/model"
	"github.com/hallatus/roundbooker/pkg/core/timegrid"
)

// OptionPatch carries the flag updates for UpdateReservationUnitOption. Nil
// fields are left untouched by the store.
type OptionPatch struct {
	IsLocked   *bool
	IsRejected *bool
}

// Store is the authoritative allocation store. The engine never trusts its
// in-memory snapshot after a mutation; every successful command is followed
// by a full re-fetch through this interface.
type Store interface {
	FetchAllocations(ctx context.Context, applicationRoundID, reservationUnitID string) ([]model.ApplicationSection, error)
	FetchRelatedAllocations(ctx context.Context, unitIDs []string, applicationRoundID string) ([]model.AllocatedTimeSlot, error)
	AcceptTimeSlot(ctx context.Context, sectionID, optionID string, day timegrid.Weekday, begin, end timegrid.TimeOfDay) (model.AllocatedTimeSlot, error)
	RemoveAllocatedTimeSlot(ctx context.Context, allocatedSlotID string) error
	UpdateReservationUnitOption(ctx context.Context, optionID string, patch OptionPatch) (model.ReservationUnitOption, error)
}

// Config holds the engine's round-level settings.
type Config struct {
	// AllocationEnabled gates all accept commands for the round. Lock,
	// reject, and remove remain available when allocation is closed.
	AllocationEnabled bool
}

// Engine executes staff allocation commands against the authoritative store.
// One engine serves one allocation session; its only internal state is the
// in-flight mutation guard.
type Engine struct {
	store    Store
	logger   *zap.Logger
	cfg      Config
	inflight *inflightGuard
}

// New creates an Engine over the given store.
func New(store Store, logger *zap.Logger, cfg Config) *Engine {
	return &Engine{
		store:    store,
		logger:   logger,
		cfg:      cfg,
		inflight: newInflightGuard(),
	}
}

// AcceptSlotRequest is the input for an accept command. Section is the
// caller's current snapshot; Related is the blocking overlay for the unit's
// space, built by allocation.AggregateRelated from freshly fetched data.
type AcceptSlotRequest struct {
	ApplicationRoundID string
	ReservationUnitID  string
	Section            *model.ApplicationSection
	OptionID           string
	Selection          allocation.Selection
	Related            allocation.RelatedSlots
}

// AcceptSlotResult is the outcome of a successful accept: the new slot,
// advisory warnings that did not block the command, and the re-fetched
// section state.
type AcceptSlotResult struct {
	Slot     model.AllocatedTimeSlot
	Warnings []Reason
	Sections []model.ApplicationSection
}

// AcceptSlot confirms a staff-drawn selection as an allocated time slot.
//
// Hard preconditions, checked locally before any remote call: allocation
// enabled for the round, option exists and is not rejected, selection
// duration within the section's min/max bounds, and no overlap with the
// option's existing slots nor with related-space allocations. A selection
// outside the applicant's requested times is advisory only: the command
// proceeds and the mismatch is reported as a warning.
func (e *Engine) AcceptSlot(ctx context.Context, req AcceptSlotRequest) (*AcceptSlotResult, error) {
	if !e.cfg.AllocationEnabled {
		return nil, preconditionErr(ReasonAllocationDisabled, "allocation is not enabled for this round")
	}

	section := req.Section
	option := optionByID(section, req.OptionID)
	if option == nil {
		return nil, fmt.Errorf("option %s not found on section %s", req.OptionID, section.ID)
	}
	if option.IsRejected {
		return nil, preconditionErr(ReasonOptionRejected, "option %s is rejected", option.ID)
	}

	duration := req.Selection.DurationSeconds()
	if duration < section.ReservationMinDuration {
		return nil, preconditionErr(ReasonDurationTooShort,
			"selection is %ds, section requires at least %ds", duration, section.ReservationMinDuration)
	}
	if duration > section.ReservationMaxDuration {
		return nil, preconditionErr(ReasonDurationTooLong,
			"selection is %ds, section allows at most %ds", duration, section.ReservationMaxDuration)
	}

	if allocation.ConflictsWithSlots(req.Selection, option.AllocatedSlots) {
		return nil, preconditionErr(ReasonUnitUnavailable,
			"selection overlaps an allocated slot on option %s", option.ID)
	}
	if req.Related.ConflictsWith(req.Selection) {
		return nil, preconditionErr(ReasonUnitUnavailable,
			"selection overlaps an allocation on a space-sharing unit")
	}

	// Advisory only: staff may deliberately allocate outside the applicant's
	// requested times.
	var warnings []Reason
	if !allocation.SelectionMatchesRequested(req.Selection, section.SuitableTimeRanges) {
		warnings = append(warnings, ReasonOutsideRequestedTimes)
	}

	if !e.inflight.begin(section.ID, option.ID) {
		return nil, preconditionErr(ReasonMutationPending,
			"a mutation is already pending for option %s", option.ID)
	}
	defer e.inflight.end(section.ID, option.ID)

	e.logger.Info("accepting time slot",
		zap.String("section_id", section.ID),
		zap.String("option_id", option.ID),
		zap.String("day", req.Selection.Day.String()),
		zap.String("begin", req.Selection.Begin.String()),
		zap.String("end", req.Selection.End.String()))

	slot, err := e.store.AcceptTimeSlot(ctx, section.ID, option.ID,
		req.Selection.Day, req.Selection.Begin, req.Selection.End)
	if err != nil {
		return nil, fmt.Errorf("accept time slot: %w", err)
	}

	sections, err := e.refetch(ctx, req.ApplicationRoundID, req.ReservationUnitID)
	if err != nil {
		return nil, err
	}

	return &AcceptSlotResult{Slot: slot, Warnings: warnings, Sections: sections}, nil
}

// RemoveAllocationRequest identifies one allocated slot to delete. SectionID
// and OptionID scope the in-flight guard.
type RemoveAllocationRequest struct {
	ApplicationRoundID string
	ReservationUnitID  string
	SectionID          string
	OptionID           string
	AllocatedSlotID    string
}

// RemoveAllocation deletes one allocated time slot. Removal is always
// permitted regardless of lock state; it is how staff walks back a decision.
func (e *Engine) RemoveAllocation(ctx context.Context, req RemoveAllocationRequest) ([]model.ApplicationSection, error) {
	if !e.inflight.begin(req.SectionID, req.OptionID) {
		return nil, preconditionErr(ReasonMutationPending,
			"a mutation is already pending for option %s", req.OptionID)
	}
	defer e.inflight.end(req.SectionID, req.OptionID)

	e.logger.Info("removing allocated time slot",
		zap.String("section_id", req.SectionID),
		zap.String("allocated_slot_id", req.AllocatedSlotID))

	if err := e.store.RemoveAllocatedTimeSlot(ctx, req.AllocatedSlotID); err != nil {
		return nil, fmt.Errorf("remove allocated time slot: %w", err)
	}

	return e.refetch(ctx, req.ApplicationRoundID, req.ReservationUnitID)
}

// SetLockedRequest toggles the lock flag of one option.
type SetLockedRequest struct {
	ApplicationRoundID string
	ReservationUnitID  string
	Section            *model.ApplicationSection
	OptionID           string
	Locked             bool
}

// SetLocked freezes or unfreezes further allocation for an option. Rejected
// options cannot be locked or unlocked.
func (e *Engine) SetLocked(ctx context.Context, req SetLockedRequest) ([]model.ApplicationSection, error) {
	option := optionByID(req.Section, req.OptionID)
	if option == nil {
		return nil, fmt.Errorf("option %s not found on section %s", req.OptionID, req.Section.ID)
	}
	if option.IsRejected {
		return nil, preconditionErr(ReasonOptionRejected, "option %s is rejected", option.ID)
	}

	if !e.inflight.begin(req.Section.ID, req.OptionID) {
		return nil, preconditionErr(ReasonMutationPending,
			"a mutation is already pending for option %s", req.OptionID)
	}
	defer e.inflight.end(req.Section.ID, req.OptionID)

	e.logger.Info("setting option lock",
		zap.String("section_id", req.Section.ID),
		zap.String("option_id", req.OptionID),
		zap.Bool("locked", req.Locked))

	locked := req.Locked
	if _, err := e.store.UpdateReservationUnitOption(ctx, req.OptionID, OptionPatch{IsLocked: &locked}); err != nil {
		return nil, fmt.Errorf("update option lock: %w", err)
	}

	return e.refetch(ctx, req.ApplicationRoundID, req.ReservationUnitID)
}

// RejectRestRequest declines the remaining, unallocated portion of an option.
type RejectRestRequest struct {
	ApplicationRoundID string
	ReservationUnitID  string
	Section            *model.ApplicationSection
	OptionID           string
	Locked             bool
}

// RejectRest marks an option rejected, writing both flags in a single store
// call. Existing allocated slots are untouched; only the remaining capacity
// is declined.
func (e *Engine) RejectRest(ctx context.Context, req RejectRestRequest) ([]model.ApplicationSection, error) {
	option := optionByID(req.Section, req.OptionID)
	if option == nil {
		return nil, fmt.Errorf("option %s not found on section %s", req.OptionID, req.Section.ID)
	}

	if !e.inflight.begin(req.Section.ID, req.OptionID) {
		return nil, preconditionErr(ReasonMutationPending,
			"a mutation is already pending for option %s", req.OptionID)
	}
	defer e.inflight.end(req.Section.ID, req.OptionID)

	e.logger.Info("rejecting remaining option capacity",
		zap.String("section_id", req.Section.ID),
		zap.String("option_id", req.OptionID),
		zap.Bool("locked", req.Locked))

	rejected := true
	locked := req.Locked
	patch := OptionPatch{IsRejected: &rejected, IsLocked: &locked}
	if _, err := e.store.UpdateReservationUnitOption(ctx, req.OptionID, patch); err != nil {
		return nil, fmt.Errorf("update option rejection: %w", err)
	}

	return e.refetch(ctx, req.ApplicationRoundID, req.ReservationUnitID)
}

// refetch pulls the full section state for the unit after a successful
// mutation. Classifications are always re-derived from this fresh state, never
// from an optimistic local merge.
func (e *Engine) refetch(ctx context.Context, roundID, unitID string) ([]model.ApplicationSection, error) {
	sections, err := e.store.FetchAllocations(ctx, roundID, unitID)
	if err != nil {
		return nil, fmt.Errorf("refetch allocations: %w", err)
	}
	return sections, nil
}

func optionByID(section *model.ApplicationSection, optionID string) *model.ReservationUnitOption {
	for i := range section.ReservationUnitOptions {
		if section.ReservationUnitOptions[i].ID == optionID {
			return &section.ReservationUnitOptions[i]
		}
	}
	return nil
}
