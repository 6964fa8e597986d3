package usecases

import (
	"context"

	"github.com/orris-inc/proxypanel/internal/application/subscription/dto"
	"github.com/orris-inc/proxypanel/internal/domain/subscription"
	"github.com/orris-inc/proxypanel/internal/shared/logger"
)

type PauseSubscriptionCommand struct {
	SubscriptionID string
	Reason         string
}

// PauseSubscriptionUseCase puts an active subscription on hold at the
// customer's request.
type PauseSubscriptionUseCase struct {
	mutator *SubscriptionMutator
	logger  logger.Interface
}

func NewPauseSubscriptionUseCase(mutator *SubscriptionMutator, logger logger.Interface) *PauseSubscriptionUseCase {
	return &PauseSubscriptionUseCase{
		mutator: mutator,
		logger:  logger,
	}
}

func (uc *PauseSubscriptionUseCase) Execute(ctx context.Context, cmd PauseSubscriptionCommand) (*dto.SubscriptionDTO, error) {
	sub, err := uc.mutator.Mutate(ctx, cmd.SubscriptionID, "pause", func(s *subscription.Subscription, sink subscription.EventSink) error {
		return s.Pause(cmd.Reason, sink)
	})
	if err != nil {
		return nil, err
	}
	return dto.ToSubscriptionDTO(sub), nil
}

type UnpauseSubscriptionCommand struct {
	SubscriptionID string
}

type UnpauseSubscriptionUseCase struct {
	mutator *SubscriptionMutator
	logger  logger.Interface
}

func NewUnpauseSubscriptionUseCase(mutator *SubscriptionMutator, logger logger.Interface) *UnpauseSubscriptionUseCase {
	return &UnpauseSubscriptionUseCase{
		mutator: mutator,
		logger:  logger,
	}
}

func (uc *UnpauseSubscriptionUseCase) Execute(ctx context.Context, cmd UnpauseSubscriptionCommand) (*dto.SubscriptionDTO, error) {
	sub, err := uc.mutator.Mutate(ctx, cmd.SubscriptionID, "unpause", func(s *subscription.Subscription, sink subscription.EventSink) error {
		return s.Unpause(sink)
	})
	if err != nil {
		return nil, err
	}
	return dto.ToSubscriptionDTO(sub), nil
}
