package cache

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/orris-inc/proxypanel/internal/shared/logger"
)

// CachedQuota is the enforcement view of a subscription read by panel agents.
type CachedQuota struct {
	Limit     int64     // Data limit in bytes, -1 for unlimited
	Used      int64     // Persisted data usage in bytes
	ExpiresAt time.Time // Zero when the subscription never expires
	Status    string
	Suspended bool
	NotFound  bool // Null marker: subscription confirmed missing in DB
}

// Unlimited reports whether the quota has no data cap.
func (q *CachedQuota) Unlimited() bool {
	return q.Limit < 0
}

// SubscriptionQuotaCache defines the interface for subscription quota caching
type SubscriptionQuotaCache interface {
	GetQuota(ctx context.Context, subscriptionID string) (*CachedQuota, error)
	SetQuota(ctx context.Context, subscriptionID string, quota *CachedQuota) error
	InvalidateQuota(ctx context.Context, subscriptionID string) error
	// SetNullMarker caches a short-lived marker for an unknown subscription
	// so repeated lookups do not reach the database.
	SetNullMarker(ctx context.Context, subscriptionID string) error
}

const (
	quotaKeyPrefix  = "subscription:quota:"
	nullMarkerTTL   = 2 * time.Minute
	fieldLimit      = "limit"
	fieldUsed       = "used"
	fieldExpiresAt  = "expires_at"
	fieldStatus     = "status"
	fieldSuspended  = "suspended"
	fieldNullMarker = "_null"
)

// RedisSubscriptionQuotaCache implements SubscriptionQuotaCache using Redis Hash
type RedisSubscriptionQuotaCache struct {
	client  *redis.Client
	baseTTL time.Duration
	logger  logger.Interface
}

// NewRedisSubscriptionQuotaCache creates a cache whose entries live between
// ttl and ttl*4/3.
func NewRedisSubscriptionQuotaCache(client *redis.Client, ttl time.Duration, logger logger.Interface) *RedisSubscriptionQuotaCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RedisSubscriptionQuotaCache{
		client:  client,
		baseTTL: ttl,
		logger:  logger,
	}
}

func (c *RedisSubscriptionQuotaCache) key(subscriptionID string) string {
	return quotaKeyPrefix + subscriptionID
}

// GetQuota retrieves quota information from cache. A miss returns nil, nil.
func (c *RedisSubscriptionQuotaCache) GetQuota(ctx context.Context, subscriptionID string) (*CachedQuota, error) {
	result, err := c.client.HGetAll(ctx, c.key(subscriptionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get quota from cache: %w", err)
	}

	if len(result) == 0 {
		return nil, nil
	}

	if result[fieldNullMarker] == "1" {
		return &CachedQuota{NotFound: true}, nil
	}

	quota := &CachedQuota{
		Status:    result[fieldStatus],
		Suspended: result[fieldSuspended] == "1",
	}
	quota.Limit, _ = strconv.ParseInt(result[fieldLimit], 10, 64)
	quota.Used, _ = strconv.ParseInt(result[fieldUsed], 10, 64)
	if unix, _ := strconv.ParseInt(result[fieldExpiresAt], 10, 64); unix > 0 {
		quota.ExpiresAt = time.Unix(unix, 0).UTC()
	}

	return quota, nil
}

// SetQuota replaces the cached quota.
func (c *RedisSubscriptionQuotaCache) SetQuota(ctx context.Context, subscriptionID string, quota *CachedQuota) error {
	key := c.key(subscriptionID)

	var expiresAt int64
	if !quota.ExpiresAt.IsZero() {
		expiresAt = quota.ExpiresAt.Unix()
	}

	pipe := c.client.TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key, map[string]any{
		fieldLimit:     quota.Limit,
		fieldUsed:      quota.Used,
		fieldExpiresAt: expiresAt,
		fieldStatus:    quota.Status,
		fieldSuspended: boolToInt(quota.Suspended),
	})
	pipe.Expire(ctx, key, c.ttlWithJitter())

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to set quota in cache: %w", err)
	}

	c.logger.Debugw("subscription quota cached",
		"subscription_id", subscriptionID,
		"limit", quota.Limit,
		"used", quota.Used,
		"status", quota.Status,
	)

	return nil
}

// InvalidateQuota removes quota information from cache
func (c *RedisSubscriptionQuotaCache) InvalidateQuota(ctx context.Context, subscriptionID string) error {
	if err := c.client.Del(ctx, c.key(subscriptionID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate quota cache: %w", err)
	}

	c.logger.Debugw("subscription quota cache invalidated",
		"subscription_id", subscriptionID,
	)

	return nil
}

func (c *RedisSubscriptionQuotaCache) SetNullMarker(ctx context.Context, subscriptionID string) error {
	key := c.key(subscriptionID)

	pipe := c.client.Pipeline()
	pipe.HSet(ctx, key, fieldNullMarker, "1")
	pipe.Expire(ctx, key, nullMarkerTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to set null marker in cache: %w", err)
	}

	return nil
}

// ttlWithJitter spreads expiries over a third of the base TTL so entries
// written together do not expire together.
func (c *RedisSubscriptionQuotaCache) ttlWithJitter() time.Duration {
	jitter := c.baseTTL / 3
	if jitter <= 0 {
		return c.baseTTL
	}
	return c.baseTTL + time.Duration(rand.Int64N(int64(jitter)))
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
