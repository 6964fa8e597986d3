package usecases

import (
	"context"

	"github.com/orris-inc/proxypanel/internal/application/subscription/dto"
	"github.com/orris-inc/proxypanel/internal/domain/subscription"
	"github.com/orris-inc/proxypanel/internal/shared/logger"
)

// SetAutoRenewCommand toggles auto-renew. PeriodDays is required when
// enabling.
type SetAutoRenewCommand struct {
	SubscriptionID string
	Enabled        bool
	PeriodDays     int
}

type SetAutoRenewUseCase struct {
	mutator *SubscriptionMutator
	logger  logger.Interface
}

func NewSetAutoRenewUseCase(mutator *SubscriptionMutator, logger logger.Interface) *SetAutoRenewUseCase {
	return &SetAutoRenewUseCase{
		mutator: mutator,
		logger:  logger,
	}
}

func (uc *SetAutoRenewUseCase) Execute(ctx context.Context, cmd SetAutoRenewCommand) (*dto.SubscriptionDTO, error) {
	sub, err := uc.mutator.Mutate(ctx, cmd.SubscriptionID, "set auto-renew", func(s *subscription.Subscription, sink subscription.EventSink) error {
		if cmd.Enabled {
			return s.EnableAutoRenew(cmd.PeriodDays, sink)
		}
		return s.DisableAutoRenew(sink)
	})
	if err != nil {
		return nil, err
	}
	return dto.ToSubscriptionDTO(sub), nil
}
