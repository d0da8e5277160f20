package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hallatus/roundbooker/pkg/core/allocation"
	"github.com/hallatus/roundbooker/pkg/core/model"
)

// RelatedStore defines the database operations needed to build the
// related-slot conflict overlay.
type RelatedStore interface {
	RelatedUnitIDs(ctx context.Context, reservationUnitID string) ([]string, error)
	FetchRelatedAllocations(ctx context.Context, unitIDs []string, applicationRoundID string) ([]model.AllocatedTimeSlot, error)
}

// RelatedOverlay fetches every allocation on units sharing physical space
// with the given unit and aggregates them into the per-day blocking
// structure. Callers must rebuild the overlay whenever any space-sharing
// unit is mutated; a stale overlay yields stale conflict results.
func RelatedOverlay(ctx context.Context, store RelatedStore, logger *zap.Logger, applicationRoundID, reservationUnitID string) (allocation.RelatedSlots, error) {
	unitIDs, err := store.RelatedUnitIDs(ctx, reservationUnitID)
	if err != nil {
		return allocation.RelatedSlots{}, fmt.Errorf("failed to resolve related units: %w", err)
	}

	slots, err := store.FetchRelatedAllocations(ctx, unitIDs, applicationRoundID)
	if err != nil {
		return allocation.RelatedSlots{}, fmt.Errorf("failed to fetch related allocations: %w", err)
	}

	logger.Debug("built related-slot overlay",
		zap.String("reservation_unit_id", reservationUnitID),
		zap.Int("related_units", len(unitIDs)),
		zap.Int("blocking_slots", len(slots)))

	return allocation.AggregateRelated(slots), nil
}
