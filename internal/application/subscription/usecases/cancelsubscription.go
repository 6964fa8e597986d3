package usecases

import (
	"context"

	"github.com/orris-inc/proxypanel/internal/application/subscription/dto"
	"github.com/orris-inc/proxypanel/internal/domain/subscription"
	"github.com/orris-inc/proxypanel/internal/shared/logger"
)

type CancelSubscriptionCommand struct {
	SubscriptionID string
	Reason         string
}

// CancelSubscriptionUseCase terminates a subscription. Cancellation is final.
type CancelSubscriptionUseCase struct {
	mutator *SubscriptionMutator
	logger  logger.Interface
}

func NewCancelSubscriptionUseCase(mutator *SubscriptionMutator, logger logger.Interface) *CancelSubscriptionUseCase {
	return &CancelSubscriptionUseCase{
		mutator: mutator,
		logger:  logger,
	}
}

func (uc *CancelSubscriptionUseCase) Execute(ctx context.Context, cmd CancelSubscriptionCommand) (*dto.SubscriptionDTO, error) {
	sub, err := uc.mutator.Mutate(ctx, cmd.SubscriptionID, "cancel", func(s *subscription.Subscription, sink subscription.EventSink) error {
		return s.Cancel(cmd.Reason, sink)
	})
	if err != nil {
		return nil, err
	}
	return dto.ToSubscriptionDTO(sub), nil
}
