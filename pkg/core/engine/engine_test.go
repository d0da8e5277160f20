package engine

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hallatus/roundbooker/pkg/core/allocation"
	"github.com/hallatus/roundbooker/pkg/core/model"
	"github.com/hallatus/roundbooker/pkg/core/timegrid"
)

// fakeStore implements Store in memory and records every remote call.
type fakeStore struct {
	mu          sync.Mutex
	acceptCalls int
	removeCalls int
	updateCalls int
	fetchCalls  int

	acceptErr error
	updateErr error

	// acceptStarted/acceptRelease let a test hold an accept mid-flight
	acceptStarted chan struct{}
	acceptRelease chan struct{}

	sections  []model.ApplicationSection
	lastPatch OptionPatch
}

func (f *fakeStore) FetchAllocations(ctx context.Context, roundID, unitID string) ([]model.ApplicationSection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchCalls++
	return f.sections, nil
}

func (f *fakeStore) FetchRelatedAllocations(ctx context.Context, unitIDs []string, roundID string) ([]model.AllocatedTimeSlot, error) {
	return nil, nil
}

func (f *fakeStore) AcceptTimeSlot(ctx context.Context, sectionID, optionID string, day timegrid.Weekday, begin, end timegrid.TimeOfDay) (model.AllocatedTimeSlot, error) {
	f.mu.Lock()
	f.acceptCalls++
	started := f.acceptStarted
	release := f.acceptRelease
	f.mu.Unlock()

	if started != nil {
		close(started)
	}
	if release != nil {
		<-release
	}

	if f.acceptErr != nil {
		return model.AllocatedTimeSlot{}, f.acceptErr
	}
	return model.AllocatedTimeSlot{
		ID:       "new-slot",
		OptionID: optionID,
		Day:      day,
		Begin:    begin,
		End:      end,
	}, nil
}

func (f *fakeStore) RemoveAllocatedTimeSlot(ctx context.Context, allocatedSlotID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removeCalls++
	return nil
}

func (f *fakeStore) UpdateReservationUnitOption(ctx context.Context, optionID string, patch OptionPatch) (model.ReservationUnitOption, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	f.lastPatch = patch
	if f.updateErr != nil {
		return model.ReservationUnitOption{}, f.updateErr
	}
	return model.ReservationUnitOption{ID: optionID}, nil
}

func tod(t *testing.T, s string) timegrid.TimeOfDay {
	t.Helper()
	parsed, err := timegrid.ParseTimeOfDay(s)
	require.NoError(t, err)
	return parsed
}

// testSection builds a section with one option on unit-1, min 2h, max 4h,
// requesting Monday 10:00-14:00.
func testSection(t *testing.T) *model.ApplicationSection {
	t.Helper()
	return &model.ApplicationSection{
		ID:                         "section-1",
		Name:                       "Junior floorball",
		Status:                     model.SectionStatusInAllocation,
		ReservationMinDuration:     7200,
		ReservationMaxDuration:     14400,
		AppliedReservationsPerWeek: 2,
		SuitableTimeRanges: []model.SuitableTimeRange{
			{
				Priority: model.PriorityPrimary,
				Day:      timegrid.Monday,
				Begin:    tod(t, "10:00"),
				End:      tod(t, "14:00"),
			},
		},
		ReservationUnitOptions: []model.ReservationUnitOption{
			{
				ID:              "option-1",
				ReservationUnit: model.ReservationUnit{ID: "unit-1", SpaceID: "space-1"},
			},
		},
	}
}

func newTestEngine(store *fakeStore) *Engine {
	return New(store, zap.NewNop(), Config{AllocationEnabled: true})
}

func acceptRequest(t *testing.T, section *model.ApplicationSection, begin, end string) AcceptSlotRequest {
	t.Helper()
	return AcceptSlotRequest{
		ApplicationRoundID: "round-1",
		ReservationUnitID:  "unit-1",
		Section:            section,
		OptionID:           "option-1",
		Selection: allocation.Selection{
			Day:   timegrid.Monday,
			Begin: tod(t, begin),
			End:   tod(t, end),
		},
	}
}

func TestAcceptSlot_DurationTooShort_NoRemoteCall(t *testing.T) {
	store := &fakeStore{}
	eng := newTestEngine(store)

	// 1 hour against a 2 hour minimum
	_, err := eng.AcceptSlot(context.Background(), acceptRequest(t, testSection(t), "10:00", "11:00"))

	reason, ok := ReasonOf(err)
	require.True(t, ok, "expected a precondition error, got %v", err)
	assert.Equal(t, ReasonDurationTooShort, reason)
	assert.Zero(t, store.acceptCalls, "no remote call on precondition failure")
	assert.Zero(t, store.fetchCalls)
}

func TestAcceptSlot_DurationTooLong_NoRemoteCall(t *testing.T) {
	store := &fakeStore{}
	eng := newTestEngine(store)

	// 5 hours against a 4 hour maximum
	_, err := eng.AcceptSlot(context.Background(), acceptRequest(t, testSection(t), "09:00", "14:00"))

	reason, ok := ReasonOf(err)
	require.True(t, ok)
	assert.Equal(t, ReasonDurationTooLong, reason)
	assert.Zero(t, store.acceptCalls)
}

func TestAcceptSlot_Succeeds(t *testing.T) {
	refreshed := []model.ApplicationSection{*testSection(t)}
	store := &fakeStore{sections: refreshed}
	eng := newTestEngine(store)

	result, err := eng.AcceptSlot(context.Background(), acceptRequest(t, testSection(t), "10:00", "12:00"))

	require.NoError(t, err)
	assert.Equal(t, timegrid.Monday, result.Slot.Day)
	assert.Equal(t, "10:00", result.Slot.Begin.String())
	assert.Empty(t, result.Warnings, "selection inside requested times carries no warnings")
	assert.Equal(t, 1, store.acceptCalls)
	assert.Equal(t, 1, store.fetchCalls, "successful mutation is followed by a re-fetch")
	assert.Equal(t, refreshed, result.Sections)
}

func TestAcceptSlot_OutsideRequestedTimes_WarnsButSucceeds(t *testing.T) {
	store := &fakeStore{}
	eng := newTestEngine(store)

	// Friday was never requested; the accept still goes through
	req := acceptRequest(t, testSection(t), "10:00", "12:00")
	req.Selection.Day = timegrid.Friday

	result, err := eng.AcceptSlot(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, []Reason{ReasonOutsideRequestedTimes}, result.Warnings)
	assert.Equal(t, 1, store.acceptCalls)
}

func TestAcceptSlot_RejectedOption(t *testing.T) {
	store := &fakeStore{}
	eng := newTestEngine(store)

	section := testSection(t)
	section.ReservationUnitOptions[0].IsRejected = true

	_, err := eng.AcceptSlot(context.Background(), acceptRequest(t, section, "10:00", "12:00"))

	reason, ok := ReasonOf(err)
	require.True(t, ok)
	assert.Equal(t, ReasonOptionRejected, reason)
	assert.Zero(t, store.acceptCalls)
}

func TestAcceptSlot_AllocationDisabled(t *testing.T) {
	store := &fakeStore{}
	eng := New(store, zap.NewNop(), Config{AllocationEnabled: false})

	_, err := eng.AcceptSlot(context.Background(), acceptRequest(t, testSection(t), "10:00", "12:00"))

	reason, ok := ReasonOf(err)
	require.True(t, ok)
	assert.Equal(t, ReasonAllocationDisabled, reason)
	assert.Zero(t, store.acceptCalls)
}

func TestAcceptSlot_OverlapWithOwnSlots(t *testing.T) {
	store := &fakeStore{}
	eng := newTestEngine(store)

	section := testSection(t)
	section.ReservationUnitOptions[0].AllocatedSlots = []model.AllocatedTimeSlot{
		{ID: "slot-1", Day: timegrid.Monday, Begin: tod(t, "11:00"), End: tod(t, "13:00")},
	}

	_, err := eng.AcceptSlot(context.Background(), acceptRequest(t, section, "10:00", "12:00"))

	reason, ok := ReasonOf(err)
	require.True(t, ok)
	assert.Equal(t, ReasonUnitUnavailable, reason)
	assert.Zero(t, store.acceptCalls)
}

func TestAcceptSlot_RelatedSlotConflict(t *testing.T) {
	store := &fakeStore{}
	eng := newTestEngine(store)

	// A space-sharing unit holds Monday 10:00-12:00; candidate 11:00-13:00 must fail
	req := acceptRequest(t, testSection(t), "11:00", "13:00")
	req.Related = allocation.AggregateRelated([]model.AllocatedTimeSlot{
		{Day: timegrid.Monday, Begin: tod(t, "10:00"), End: tod(t, "12:00")},
	})

	_, err := eng.AcceptSlot(context.Background(), req)

	reason, ok := ReasonOf(err)
	require.True(t, ok)
	assert.Equal(t, ReasonUnitUnavailable, reason)
	assert.Zero(t, store.acceptCalls)
}

func TestAcceptSlot_RemoteFailure_NoRefetch(t *testing.T) {
	store := &fakeStore{acceptErr: errors.New("store unavailable")}
	eng := newTestEngine(store)

	_, err := eng.AcceptSlot(context.Background(), acceptRequest(t, testSection(t), "10:00", "12:00"))

	require.Error(t, err)
	_, ok := ReasonOf(err)
	assert.False(t, ok, "remote failures are not precondition errors")
	assert.Zero(t, store.fetchCalls, "no re-fetch after a failed mutation")
}

func TestCommands_SecondMutationRejectedWhilePending(t *testing.T) {
	store := &fakeStore{
		acceptStarted: make(chan struct{}),
		acceptRelease: make(chan struct{}),
	}
	eng := newTestEngine(store)

	done := make(chan error, 1)
	go func() {
		_, err := eng.AcceptSlot(context.Background(), acceptRequest(t, testSection(t), "10:00", "12:00"))
		done <- err
	}()

	<-store.acceptStarted

	// Same (section, option) pair while the accept is in flight
	_, err := eng.SetLocked(context.Background(), SetLockedRequest{
		ApplicationRoundID: "round-1",
		ReservationUnitID:  "unit-1",
		Section:            testSection(t),
		OptionID:           "option-1",
		Locked:             true,
	})
	reason, ok := ReasonOf(err)
	require.True(t, ok)
	assert.Equal(t, ReasonMutationPending, reason)
	assert.Zero(t, store.updateCalls)

	close(store.acceptRelease)
	require.NoError(t, <-done)

	// The pair is free again once the first mutation resolves
	_, err = eng.SetLocked(context.Background(), SetLockedRequest{
		ApplicationRoundID: "round-1",
		ReservationUnitID:  "unit-1",
		Section:            testSection(t),
		OptionID:           "option-1",
		Locked:             true,
	})
	assert.NoError(t, err)
}

func TestSetLocked_RejectedOption(t *testing.T) {
	store := &fakeStore{}
	eng := newTestEngine(store)

	section := testSection(t)
	section.ReservationUnitOptions[0].IsRejected = true

	_, err := eng.SetLocked(context.Background(), SetLockedRequest{
		ApplicationRoundID: "round-1",
		ReservationUnitID:  "unit-1",
		Section:            section,
		OptionID:           "option-1",
		Locked:             true,
	})

	reason, ok := ReasonOf(err)
	require.True(t, ok)
	assert.Equal(t, ReasonOptionRejected, reason)
	assert.Zero(t, store.updateCalls)
}

func TestSetLocked_UpdatesFlagAndRefetches(t *testing.T) {
	store := &fakeStore{}
	eng := newTestEngine(store)

	_, err := eng.SetLocked(context.Background(), SetLockedRequest{
		ApplicationRoundID: "round-1",
		ReservationUnitID:  "unit-1",
		Section:            testSection(t),
		OptionID:           "option-1",
		Locked:             true,
	})

	require.NoError(t, err)
	require.NotNil(t, store.lastPatch.IsLocked)
	assert.True(t, *store.lastPatch.IsLocked)
	assert.Nil(t, store.lastPatch.IsRejected, "lock command must not touch the reject flag")
	assert.Equal(t, 1, store.fetchCalls)
}

func TestRejectRest_SetsBothFlagsInOneCall(t *testing.T) {
	store := &fakeStore{}
	eng := newTestEngine(store)

	_, err := eng.RejectRest(context.Background(), RejectRestRequest{
		ApplicationRoundID: "round-1",
		ReservationUnitID:  "unit-1",
		Section:            testSection(t),
		OptionID:           "option-1",
		Locked:             true,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, store.updateCalls)
	require.NotNil(t, store.lastPatch.IsRejected)
	require.NotNil(t, store.lastPatch.IsLocked)
	assert.True(t, *store.lastPatch.IsRejected)
	assert.True(t, *store.lastPatch.IsLocked)
}

func TestRemoveAllocation_AlwaysPermitted(t *testing.T) {
	store := &fakeStore{}
	eng := newTestEngine(store)

	// Lock state is irrelevant to removal; the command needs no section snapshot
	_, err := eng.RemoveAllocation(context.Background(), RemoveAllocationRequest{
		ApplicationRoundID: "round-1",
		ReservationUnitID:  "unit-1",
		SectionID:          "section-1",
		OptionID:           "option-1",
		AllocatedSlotID:    "slot-1",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, store.removeCalls)
	assert.Equal(t, 1, store.fetchCalls)
}
