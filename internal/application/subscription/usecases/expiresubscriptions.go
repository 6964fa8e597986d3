package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/orris-inc/proxypanel/internal/domain/subscription"
	"github.com/orris-inc/proxypanel/internal/shared/logger"
)

// errNotDue marks a subscription whose state changed between the batch query
// and the mutation. It is skipped, not failed.
var errNotDue = errors.New("subscription is no longer due")

// ExpireSubscriptionsUseCase expires active subscriptions past their expiry
// date. Subscriptions that should auto-renew are left to the renewal job
// until autoRenewGrace has passed.
type ExpireSubscriptionsUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	mutator          *SubscriptionMutator
	clock            subscription.Clock
	batchSize        int
	autoRenewGrace   time.Duration
	logger           logger.Interface
}

// NewExpireSubscriptionsUseCase creates a new ExpireSubscriptionsUseCase
func NewExpireSubscriptionsUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	mutator *SubscriptionMutator,
	clock subscription.Clock,
	batchSize int,
	autoRenewGrace time.Duration,
	logger logger.Interface,
) *ExpireSubscriptionsUseCase {
	return &ExpireSubscriptionsUseCase{
		subscriptionRepo: subscriptionRepo,
		mutator:          mutator,
		clock:            clock,
		batchSize:        batchSize,
		autoRenewGrace:   autoRenewGrace,
		logger:           logger,
	}
}

// Execute finds and expires one batch of due subscriptions.
// Returns the number of subscriptions marked as expired.
func (uc *ExpireSubscriptionsUseCase) Execute(ctx context.Context) (int, error) {
	now := uc.clock.Now()
	due, err := uc.subscriptionRepo.FindExpiredActive(ctx, now, uc.batchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to find expired subscriptions: %w", err)
	}
	if len(due) == 0 {
		return 0, nil
	}

	uc.logger.Infow("found expired subscriptions to process", "count", len(due))

	expired := 0
	for _, sub := range due {
		if ctx.Err() != nil {
			return expired, ctx.Err()
		}
		if uc.awaitingRenewal(sub, now) {
			uc.logger.Debugw("skipping expiry, auto-renewal pending",
				"subscription_id", sub.ID(),
				"expiry_date", sub.ExpiryDate(),
			)
			continue
		}

		_, err := uc.mutator.Mutate(ctx, sub.ID(), "expire", func(s *subscription.Subscription, sink subscription.EventSink) error {
			if !s.IsExpired() || uc.awaitingRenewal(s, now) {
				return errNotDue
			}
			return s.Expire(sink)
		})
		if err != nil {
			if !errors.Is(err, errNotDue) {
				uc.logger.Warnw("failed to expire subscription",
					"subscription_id", sub.ID(),
					"error", err,
				)
			}
			continue
		}
		expired++
	}

	return expired, nil
}

func (uc *ExpireSubscriptionsUseCase) awaitingRenewal(sub *subscription.Subscription, now time.Time) bool {
	if !sub.ShouldAutoRenew() || sub.ExpiryDate() == nil {
		return false
	}
	return now.Sub(*sub.ExpiryDate()) < uc.autoRenewGrace
}
