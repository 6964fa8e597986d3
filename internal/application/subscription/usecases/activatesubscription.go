package usecases

import (
	"context"

	"github.com/orris-inc/proxypanel/internal/application/subscription/dto"
	"github.com/orris-inc/proxypanel/internal/domain/subscription"
	"github.com/orris-inc/proxypanel/internal/shared/logger"
)

// ActivateSubscriptionCommand represents the command to activate a pending subscription
type ActivateSubscriptionCommand struct {
	SubscriptionID string
}

// ActivateSubscriptionUseCase handles activating pending subscriptions
type ActivateSubscriptionUseCase struct {
	mutator *SubscriptionMutator
	logger  logger.Interface
}

// NewActivateSubscriptionUseCase creates a new ActivateSubscriptionUseCase
func NewActivateSubscriptionUseCase(mutator *SubscriptionMutator, logger logger.Interface) *ActivateSubscriptionUseCase {
	return &ActivateSubscriptionUseCase{
		mutator: mutator,
		logger:  logger,
	}
}

func (uc *ActivateSubscriptionUseCase) Execute(ctx context.Context, cmd ActivateSubscriptionCommand) (*dto.SubscriptionDTO, error) {
	sub, err := uc.mutator.Mutate(ctx, cmd.SubscriptionID, "activate", func(s *subscription.Subscription, sink subscription.EventSink) error {
		return s.Activate(sink)
	})
	if err != nil {
		return nil, err
	}
	return dto.ToSubscriptionDTO(sub), nil
}
