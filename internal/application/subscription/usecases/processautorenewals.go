package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/orris-inc/proxypanel/internal/domain/subscription"
	"github.com/orris-inc/proxypanel/internal/shared/logger"
)

// ProcessAutoRenewalsUseCase renews overdue auto-renewing subscriptions by
// their renewal period once the confirmer has settled payment.
type ProcessAutoRenewalsUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	mutator          *SubscriptionMutator
	confirmer        RenewalPaymentConfirmer
	clock            subscription.Clock
	batchSize        int
	logger           logger.Interface
}

func NewProcessAutoRenewalsUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	mutator *SubscriptionMutator,
	confirmer RenewalPaymentConfirmer,
	clock subscription.Clock,
	batchSize int,
	logger logger.Interface,
) *ProcessAutoRenewalsUseCase {
	return &ProcessAutoRenewalsUseCase{
		subscriptionRepo: subscriptionRepo,
		mutator:          mutator,
		confirmer:        confirmer,
		clock:            clock,
		batchSize:        batchSize,
		logger:           logger,
	}
}

// Execute returns the number of subscriptions renewed.
func (uc *ProcessAutoRenewalsUseCase) Execute(ctx context.Context) (int, error) {
	if uc.confirmer == nil {
		uc.logger.Debugw("no renewal payment confirmer configured, skipping auto-renewals")
		return 0, nil
	}

	due, err := uc.subscriptionRepo.FindAutoRenewDue(ctx, uc.clock.Now(), uc.batchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to find auto-renew candidates: %w", err)
	}

	renewed := 0
	for _, sub := range due {
		if ctx.Err() != nil {
			return renewed, ctx.Err()
		}
		if !sub.ShouldAutoRenew() || sub.RenewalPeriodDays() == nil {
			continue
		}

		reference, ok, err := uc.confirmer.ConfirmRenewal(ctx, sub)
		if err != nil {
			uc.logger.Warnw("renewal payment confirmation failed",
				"subscription_id", sub.ID(),
				"error", err,
			)
			continue
		}
		if !ok {
			uc.logger.Infow("renewal payment not settled, skipping",
				"subscription_id", sub.ID(),
			)
			continue
		}

		_, err = uc.mutator.Mutate(ctx, sub.ID(), "auto-renew", func(s *subscription.Subscription, sink subscription.EventSink) error {
			if !s.ShouldAutoRenew() || s.RenewalPeriodDays() == nil {
				return errNotDue
			}
			return s.Renew(*s.RenewalPeriodDays(), nil, sink)
		})
		if err != nil {
			if !errors.Is(err, errNotDue) {
				uc.logger.Errorw("failed to auto-renew subscription",
					"subscription_id", sub.ID(),
					"payment_reference", reference,
					"error", err,
				)
			}
			continue
		}

		renewed++
		uc.logger.Infow("subscription auto-renewed",
			"subscription_id", sub.ID(),
			"payment_reference", reference,
		)
	}

	return renewed, nil
}
