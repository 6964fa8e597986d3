package usecases

import (
	"context"

	"github.com/orris-inc/proxypanel/internal/application/subscription/dto"
	"github.com/orris-inc/proxypanel/internal/domain/subscription"
	"github.com/orris-inc/proxypanel/internal/shared/logger"
)

// SetDataUsageCommand overwrites the data counter, e.g. with a total read
// back from the panel.
type SetDataUsageCommand struct {
	SubscriptionID string
	Bytes          int64
}

type SetDataUsageUseCase struct {
	mutator *SubscriptionMutator
	logger  logger.Interface
}

func NewSetDataUsageUseCase(mutator *SubscriptionMutator, logger logger.Interface) *SetDataUsageUseCase {
	return &SetDataUsageUseCase{
		mutator: mutator,
		logger:  logger,
	}
}

func (uc *SetDataUsageUseCase) Execute(ctx context.Context, cmd SetDataUsageCommand) (*dto.SubscriptionDTO, error) {
	sub, err := uc.mutator.Mutate(ctx, cmd.SubscriptionID, "set data usage", func(s *subscription.Subscription, sink subscription.EventSink) error {
		return s.UpdateDataUsage(cmd.Bytes, sink)
	})
	if err != nil {
		return nil, err
	}
	return dto.ToSubscriptionDTO(sub), nil
}

type ResetDataUsageCommand struct {
	SubscriptionID string
}

// ResetDataUsageUseCase zeroes the data counter, lifting a cap suspension.
type ResetDataUsageUseCase struct {
	mutator *SubscriptionMutator
	logger  logger.Interface
}

func NewResetDataUsageUseCase(mutator *SubscriptionMutator, logger logger.Interface) *ResetDataUsageUseCase {
	return &ResetDataUsageUseCase{
		mutator: mutator,
		logger:  logger,
	}
}

func (uc *ResetDataUsageUseCase) Execute(ctx context.Context, cmd ResetDataUsageCommand) (*dto.SubscriptionDTO, error) {
	sub, err := uc.mutator.Mutate(ctx, cmd.SubscriptionID, "reset data usage", func(s *subscription.Subscription, sink subscription.EventSink) error {
		return s.ResetDataUsage(sink)
	})
	if err != nil {
		return nil, err
	}
	return dto.ToSubscriptionDTO(sub), nil
}

// UpdateDataLimitCommand replaces the cap. A nil Limit removes it.
type UpdateDataLimitCommand struct {
	SubscriptionID string
	Limit          *int64
}

type UpdateDataLimitUseCase struct {
	mutator *SubscriptionMutator
	logger  logger.Interface
}

func NewUpdateDataLimitUseCase(mutator *SubscriptionMutator, logger logger.Interface) *UpdateDataLimitUseCase {
	return &UpdateDataLimitUseCase{
		mutator: mutator,
		logger:  logger,
	}
}

func (uc *UpdateDataLimitUseCase) Execute(ctx context.Context, cmd UpdateDataLimitCommand) (*dto.SubscriptionDTO, error) {
	sub, err := uc.mutator.Mutate(ctx, cmd.SubscriptionID, "update data limit", func(s *subscription.Subscription, sink subscription.EventSink) error {
		return s.UpdateDataLimit(cmd.Limit, sink)
	})
	if err != nil {
		return nil, err
	}
	return dto.ToSubscriptionDTO(sub), nil
}
