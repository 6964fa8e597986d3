package usecases

import (
	"context"

	"github.com/orris-inc/proxypanel/internal/application/subscription/dto"
	"github.com/orris-inc/proxypanel/internal/domain/subscription"
	"github.com/orris-inc/proxypanel/internal/shared/logger"
)

type StartTrialCommand struct {
	SubscriptionID string
	Days           int
}

// StartTrialUseCase puts a pending subscription into a time-boxed trial.
type StartTrialUseCase struct {
	mutator *SubscriptionMutator
	logger  logger.Interface
}

func NewStartTrialUseCase(mutator *SubscriptionMutator, logger logger.Interface) *StartTrialUseCase {
	return &StartTrialUseCase{
		mutator: mutator,
		logger:  logger,
	}
}

func (uc *StartTrialUseCase) Execute(ctx context.Context, cmd StartTrialCommand) (*dto.SubscriptionDTO, error) {
	sub, err := uc.mutator.Mutate(ctx, cmd.SubscriptionID, "start trial", func(s *subscription.Subscription, sink subscription.EventSink) error {
		return s.StartTrial(cmd.Days, sink)
	})
	if err != nil {
		return nil, err
	}
	return dto.ToSubscriptionDTO(sub), nil
}

type ConvertTrialCommand struct {
	SubscriptionID string
}

type ConvertTrialUseCase struct {
	mutator *SubscriptionMutator
	logger  logger.Interface
}

func NewConvertTrialUseCase(mutator *SubscriptionMutator, logger logger.Interface) *ConvertTrialUseCase {
	return &ConvertTrialUseCase{
		mutator: mutator,
		logger:  logger,
	}
}

func (uc *ConvertTrialUseCase) Execute(ctx context.Context, cmd ConvertTrialCommand) (*dto.SubscriptionDTO, error) {
	sub, err := uc.mutator.Mutate(ctx, cmd.SubscriptionID, "convert trial", func(s *subscription.Subscription, sink subscription.EventSink) error {
		return s.ConvertTrial(sink)
	})
	if err != nil {
		return nil, err
	}
	return dto.ToSubscriptionDTO(sub), nil
}
