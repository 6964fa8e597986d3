package usecases

import (
	"context"
	"fmt"

	"github.com/orris-inc/proxypanel/internal/domain/subscription"
	vo "github.com/orris-inc/proxypanel/internal/domain/subscription/valueobjects"
	"github.com/orris-inc/proxypanel/internal/shared/logger"
)

var reportedStatuses = []vo.SubscriptionStatus{
	vo.StatusPending, vo.StatusActive, vo.StatusSuspended, vo.StatusCancelled,
	vo.StatusExpired, vo.StatusTrial, vo.StatusGracePeriod, vo.StatusPaused,
}

// CountSubscriptionsByStatusUseCase reports how many subscriptions sit in
// each status.
type CountSubscriptionsByStatusUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	logger           logger.Interface
}

func NewCountSubscriptionsByStatusUseCase(subscriptionRepo subscription.SubscriptionRepository, logger logger.Interface) *CountSubscriptionsByStatusUseCase {
	return &CountSubscriptionsByStatusUseCase{
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
	}
}

func (uc *CountSubscriptionsByStatusUseCase) Execute(ctx context.Context) (map[vo.SubscriptionStatus]int64, error) {
	counts := make(map[vo.SubscriptionStatus]int64, len(reportedStatuses))
	for _, status := range reportedStatuses {
		n, err := uc.subscriptionRepo.CountByStatus(ctx, status)
		if err != nil {
			return nil, fmt.Errorf("failed to count %s subscriptions: %w", status, err)
		}
		counts[status] = n
	}
	return counts, nil
}
