package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hallatus/roundbooker/pkg/core/allocation"
	"github.com/hallatus/roundbooker/pkg/core/model"
)

// QueueStore defines the database operations needed to build section queues.
type QueueStore interface {
	FetchAllocations(ctx context.Context, applicationRoundID, reservationUnitID string) ([]model.ApplicationSection, error)
}

// SectionQueues fetches the round's sections for one reservation unit and
// groups them into the four staff-facing allocation queues.
func SectionQueues(ctx context.Context, store QueueStore, logger *zap.Logger, applicationRoundID, reservationUnitID string) (map[allocation.Bucket][]model.ApplicationSection, error) {
	sections, err := store.FetchAllocations(ctx, applicationRoundID, reservationUnitID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch allocations: %w", err)
	}

	grouped := allocation.GroupByBucket(sections, reservationUnitID)

	logger.Debug("built section queues",
		zap.String("round_id", applicationRoundID),
		zap.String("reservation_unit_id", reservationUnitID),
		zap.Int("unallocated", len(grouped[allocation.BucketUnallocated])),
		zap.Int("partially_allocated", len(grouped[allocation.BucketPartiallyAllocated])),
		zap.Int("allocated", len(grouped[allocation.BucketAllocated])),
		zap.Int("declined", len(grouped[allocation.BucketDeclined])))

	return grouped, nil
}

// QueueSummary counts sections per bucket for one reservation unit.
type QueueSummary map[allocation.Bucket]int

// SummarizeQueues returns per-bucket section counts for the unit.
func SummarizeQueues(ctx context.Context, store QueueStore, logger *zap.Logger, applicationRoundID, reservationUnitID string) (QueueSummary, error) {
	grouped, err := SectionQueues(ctx, store, logger, applicationRoundID, reservationUnitID)
	if err != nil {
		return nil, err
	}

	summary := make(QueueSummary, len(allocation.Buckets))
	for _, bucket := range allocation.Buckets {
		summary[bucket] = len(grouped[bucket])
	}
	return summary, nil
}
