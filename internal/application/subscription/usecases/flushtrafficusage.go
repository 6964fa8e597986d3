package usecases

import (
	"context"
	"fmt"
	"slices"

	"github.com/orris-inc/proxypanel/internal/domain/subscription"
	apperrors "github.com/orris-inc/proxypanel/internal/shared/errors"
	"github.com/orris-inc/proxypanel/internal/shared/logger"
)

// FlushTrafficUsageUseCase moves buffered agent traffic into subscription
// ledgers and data counters. Deltas that fail for transient reasons are put
// back for the next run; deltas for unknown or cancelled subscriptions are
// dropped.
type FlushTrafficUsageUseCase struct {
	source      UsageSource
	recordUsage *RecordUsageUseCase
	logger      logger.Interface
}

func NewFlushTrafficUsageUseCase(source UsageSource, recordUsage *RecordUsageUseCase, logger logger.Interface) *FlushTrafficUsageUseCase {
	return &FlushTrafficUsageUseCase{
		source:      source,
		recordUsage: recordUsage,
		logger:      logger,
	}
}

// Execute returns the number of subscriptions whose usage was recorded.
func (uc *FlushTrafficUsageUseCase) Execute(ctx context.Context) (int, error) {
	deltas, err := uc.source.Drain(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to drain usage buffer: %w", err)
	}
	if len(deltas) == 0 {
		return 0, nil
	}

	ids := make([]string, 0, len(deltas))
	for id := range deltas {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	recorded := 0
	retry := make(map[string]int64)
	for _, id := range ids {
		bytes := deltas[id]
		_, err := uc.recordUsage.Execute(ctx, RecordUsageCommand{
			SubscriptionID: id,
			Kind:           "data",
			Amount:         bytes,
			Source:         UsageSourcePanel,
		})
		if err == nil {
			recorded++
			continue
		}

		if apperrors.IsNotFoundError(err) || apperrors.IsValidationError(err) || subscription.IsInvalidTransition(err) {
			uc.logger.Warnw("dropping traffic for subscription",
				"subscription_id", id,
				"bytes", bytes,
				"error", err,
			)
			continue
		}
		retry[id] = bytes
	}

	if len(retry) > 0 {
		if err := uc.source.AddBatch(ctx, retry); err != nil {
			uc.logger.Errorw("failed to requeue traffic deltas, usage lost",
				"count", len(retry),
				"error", err,
			)
			return recorded, fmt.Errorf("failed to requeue usage: %w", err)
		}
		uc.logger.Warnw("requeued traffic deltas", "count", len(retry))
	}

	return recorded, nil
}
