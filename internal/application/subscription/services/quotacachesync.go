package services

import (
	"context"
	"fmt"

	"github.com/orris-inc/proxypanel/internal/domain/subscription"
	"github.com/orris-inc/proxypanel/internal/infrastructure/cache"
	"github.com/orris-inc/proxypanel/internal/shared/logger"
)

// QuotaCacheSyncService keeps the enforcement view read by panel agents in
// line with persisted subscriptions.
type QuotaCacheSyncService struct {
	subscriptionRepo subscription.SubscriptionRepository
	quotaCache       cache.SubscriptionQuotaCache
	logger           logger.Interface
}

// NewQuotaCacheSyncService creates a new QuotaCacheSyncService
func NewQuotaCacheSyncService(
	subscriptionRepo subscription.SubscriptionRepository,
	quotaCache cache.SubscriptionQuotaCache,
	logger logger.Interface,
) *QuotaCacheSyncService {
	return &QuotaCacheSyncService{
		subscriptionRepo: subscriptionRepo,
		quotaCache:       quotaCache,
		logger:           logger,
	}
}

// QuotaFromSubscription builds the cached view. Anything that is not usable
// right now is reported as suspended.
func QuotaFromSubscription(sub *subscription.Subscription) *cache.CachedQuota {
	quota := &cache.CachedQuota{
		Limit:     subscription.UnlimitedData,
		Used:      sub.DataUsed(),
		Status:    sub.Status().String(),
		Suspended: !sub.IsActive(),
	}
	if limit := sub.DataLimit(); limit != nil {
		quota.Limit = *limit
	}
	if expiry := sub.ExpiryDate(); expiry != nil {
		quota.ExpiresAt = expiry.UTC()
	}
	return quota
}

// SyncQuotaFromSubscription writes the subscription's quota to cache.
func (s *QuotaCacheSyncService) SyncQuotaFromSubscription(ctx context.Context, sub *subscription.Subscription) error {
	if sub == nil {
		return nil
	}

	quota := QuotaFromSubscription(sub)
	if err := s.quotaCache.SetQuota(ctx, sub.ID(), quota); err != nil {
		return fmt.Errorf("failed to cache quota: %w", err)
	}

	s.logger.Debugw("subscription quota synced to cache",
		"subscription_id", sub.ID(),
		"limit", quota.Limit,
		"used", quota.Used,
		"suspended", quota.Suspended,
	)
	return nil
}

// InvalidateQuota removes quota information from cache
func (s *QuotaCacheSyncService) InvalidateQuota(ctx context.Context, subscriptionID string) error {
	return s.quotaCache.InvalidateQuota(ctx, subscriptionID)
}

// GetQuota reads through the cache. Unknown subscriptions return nil, nil and
// leave a null marker behind.
func (s *QuotaCacheSyncService) GetQuota(ctx context.Context, subscriptionID string) (*cache.CachedQuota, error) {
	cached, err := s.quotaCache.GetQuota(ctx, subscriptionID)
	if err != nil {
		s.logger.Warnw("quota cache read failed, falling back to database",
			"subscription_id", subscriptionID,
			"error", err,
		)
	} else if cached != nil {
		if cached.NotFound {
			return nil, nil
		}
		return cached, nil
	}

	sub, err := s.subscriptionRepo.GetByID(ctx, subscriptionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	if sub == nil {
		if err := s.quotaCache.SetNullMarker(ctx, subscriptionID); err != nil {
			s.logger.Warnw("failed to cache null marker",
				"subscription_id", subscriptionID,
				"error", err,
			)
		}
		return nil, nil
	}

	quota := QuotaFromSubscription(sub)
	if err := s.quotaCache.SetQuota(ctx, subscriptionID, quota); err != nil {
		s.logger.Warnw("failed to cache loaded quota",
			"subscription_id", subscriptionID,
			"error", err,
		)
	}
	return quota, nil
}
