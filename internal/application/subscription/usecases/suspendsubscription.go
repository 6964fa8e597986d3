package usecases

import (
	"context"

	"github.com/orris-inc/proxypanel/internal/application/subscription/dto"
	"github.com/orris-inc/proxypanel/internal/domain/subscription"
	"github.com/orris-inc/proxypanel/internal/shared/logger"
)

// SuspendSubscriptionCommand represents the command to suspend a subscription
type SuspendSubscriptionCommand struct {
	SubscriptionID string
	Reason         string
}

// SuspendSubscriptionUseCase handles suspending subscriptions
type SuspendSubscriptionUseCase struct {
	mutator *SubscriptionMutator
	logger  logger.Interface
}

// NewSuspendSubscriptionUseCase creates a new instance of SuspendSubscriptionUseCase
func NewSuspendSubscriptionUseCase(mutator *SubscriptionMutator, logger logger.Interface) *SuspendSubscriptionUseCase {
	return &SuspendSubscriptionUseCase{
		mutator: mutator,
		logger:  logger,
	}
}

// Execute suspends a subscription
func (uc *SuspendSubscriptionUseCase) Execute(ctx context.Context, cmd SuspendSubscriptionCommand) (*dto.SubscriptionDTO, error) {
	sub, err := uc.mutator.Mutate(ctx, cmd.SubscriptionID, "suspend", func(s *subscription.Subscription, sink subscription.EventSink) error {
		return s.Suspend(cmd.Reason, sink)
	})
	if err != nil {
		return nil, err
	}
	return dto.ToSubscriptionDTO(sub), nil
}

// ResumeSubscriptionCommand represents the command to lift a suspension
type ResumeSubscriptionCommand struct {
	SubscriptionID string
}

// ResumeSubscriptionUseCase handles resuming suspended subscriptions
type ResumeSubscriptionUseCase struct {
	mutator *SubscriptionMutator
	logger  logger.Interface
}

// NewResumeSubscriptionUseCase creates a new instance of ResumeSubscriptionUseCase
func NewResumeSubscriptionUseCase(mutator *SubscriptionMutator, logger logger.Interface) *ResumeSubscriptionUseCase {
	return &ResumeSubscriptionUseCase{
		mutator: mutator,
		logger:  logger,
	}
}

// Execute resumes a subscription
func (uc *ResumeSubscriptionUseCase) Execute(ctx context.Context, cmd ResumeSubscriptionCommand) (*dto.SubscriptionDTO, error) {
	sub, err := uc.mutator.Mutate(ctx, cmd.SubscriptionID, "resume", func(s *subscription.Subscription, sink subscription.EventSink) error {
		return s.Resume(sink)
	})
	if err != nil {
		return nil, err
	}
	return dto.ToSubscriptionDTO(sub), nil
}
