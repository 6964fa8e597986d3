package usecases

import (
	"context"
	"errors"

	"github.com/orris-inc/proxypanel/internal/domain/subscription"
	apperrors "github.com/orris-inc/proxypanel/internal/shared/errors"
	"github.com/orris-inc/proxypanel/internal/shared/logger"
)

type DeleteSubscriptionCommand struct {
	SubscriptionID string
}

// DeleteSubscriptionUseCase soft-deletes a subscription and drops its cached
// quota. Ledger rows are kept.
type DeleteSubscriptionUseCase struct {
	subscriptionRepo  subscription.SubscriptionRepository
	quotaCacheManager QuotaCacheManager
	logger            logger.Interface
}

func NewDeleteSubscriptionUseCase(subscriptionRepo subscription.SubscriptionRepository, logger logger.Interface) *DeleteSubscriptionUseCase {
	return &DeleteSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
	}
}

// SetQuotaCacheManager sets the quota cache manager (optional).
func (uc *DeleteSubscriptionUseCase) SetQuotaCacheManager(manager QuotaCacheManager) {
	uc.quotaCacheManager = manager
}

func (uc *DeleteSubscriptionUseCase) Execute(ctx context.Context, cmd DeleteSubscriptionCommand) error {
	if err := uc.subscriptionRepo.Delete(ctx, cmd.SubscriptionID); err != nil {
		if errors.Is(err, subscription.ErrSubscriptionNotFound) {
			return apperrors.NewNotFoundError("subscription not found", cmd.SubscriptionID)
		}
		uc.logger.Errorw("failed to delete subscription", "error", err, "subscription_id", cmd.SubscriptionID)
		return apperrors.NewInternalError("failed to delete subscription").WithCause(err)
	}

	if uc.quotaCacheManager != nil {
		if err := uc.quotaCacheManager.InvalidateQuota(ctx, cmd.SubscriptionID); err != nil {
			uc.logger.Warnw("failed to invalidate quota cache",
				"subscription_id", cmd.SubscriptionID,
				"error", err,
			)
		}
	}

	uc.logger.Infow("subscription deleted", "subscription_id", cmd.SubscriptionID)
	return nil
}
