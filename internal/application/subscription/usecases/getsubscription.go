package usecases

import (
	"context"
	"fmt"

	"github.com/orris-inc/proxypanel/internal/application/subscription/dto"
	"github.com/orris-inc/proxypanel/internal/domain/subscription"
	apperrors "github.com/orris-inc/proxypanel/internal/shared/errors"
	"github.com/orris-inc/proxypanel/internal/shared/logger"
)

type GetSubscriptionQuery struct {
	SubscriptionID string
}

type GetSubscriptionUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	logger           logger.Interface
}

func NewGetSubscriptionUseCase(subscriptionRepo subscription.SubscriptionRepository, logger logger.Interface) *GetSubscriptionUseCase {
	return &GetSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
	}
}

func (uc *GetSubscriptionUseCase) Execute(ctx context.Context, query GetSubscriptionQuery) (*dto.SubscriptionDTO, error) {
	sub, err := uc.subscriptionRepo.GetByID(ctx, query.SubscriptionID)
	if err != nil {
		uc.logger.Errorw("failed to get subscription", "error", err, "subscription_id", query.SubscriptionID)
		return nil, apperrors.NewInternalError("failed to get subscription").WithCause(fmt.Errorf("get subscription: %w", err))
	}
	if sub == nil {
		return nil, apperrors.NewNotFoundError("subscription not found", query.SubscriptionID)
	}
	return dto.ToSubscriptionDTO(sub), nil
}
