package usecases

import (
	"context"

	"github.com/orris-inc/proxypanel/internal/application/subscription/dto"
	"github.com/orris-inc/proxypanel/internal/domain/subscription"
	"github.com/orris-inc/proxypanel/internal/shared/logger"
)

type ExpireSubscriptionCommand struct {
	SubscriptionID string
}

// ExpireSubscriptionUseCase expires one active subscription on demand,
// regardless of its expiry date.
type ExpireSubscriptionUseCase struct {
	mutator *SubscriptionMutator
	logger  logger.Interface
}

func NewExpireSubscriptionUseCase(mutator *SubscriptionMutator, logger logger.Interface) *ExpireSubscriptionUseCase {
	return &ExpireSubscriptionUseCase{
		mutator: mutator,
		logger:  logger,
	}
}

func (uc *ExpireSubscriptionUseCase) Execute(ctx context.Context, cmd ExpireSubscriptionCommand) (*dto.SubscriptionDTO, error) {
	sub, err := uc.mutator.Mutate(ctx, cmd.SubscriptionID, "expire", func(s *subscription.Subscription, sink subscription.EventSink) error {
		return s.Expire(sink)
	})
	if err != nil {
		return nil, err
	}
	return dto.ToSubscriptionDTO(sub), nil
}
