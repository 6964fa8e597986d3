package cache

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/orris-inc/proxypanel/internal/shared/logger"
)

const usageBufferKey = "subscription:usage:pending"

// drainScript reads and deletes the buffer atomically so deltas reported
// during a flush land in the next one.
var drainScript = redis.NewScript(`
local entries = redis.call('HGETALL', KEYS[1])
redis.call('DEL', KEYS[1])
return entries
`)

// UsageBuffer accumulates traffic deltas reported by panel agents until the
// flush job writes them to the ledger.
type UsageBuffer interface {
	Add(ctx context.Context, subscriptionID string, bytes int64) error
	AddBatch(ctx context.Context, deltas map[string]int64) error
	Drain(ctx context.Context) (map[string]int64, error)
	Pending(ctx context.Context) (int64, error)
}

// RedisUsageBuffer keeps one HINCRBY counter per subscription.
type RedisUsageBuffer struct {
	client *redis.Client
	logger logger.Interface
}

func NewRedisUsageBuffer(client *redis.Client, logger logger.Interface) *RedisUsageBuffer {
	return &RedisUsageBuffer{
		client: client,
		logger: logger,
	}
}

func (b *RedisUsageBuffer) Add(ctx context.Context, subscriptionID string, bytes int64) error {
	return b.AddBatch(ctx, map[string]int64{subscriptionID: bytes})
}

// AddBatch increments every counter in one round trip. Non-positive deltas
// are ignored.
func (b *RedisUsageBuffer) AddBatch(ctx context.Context, deltas map[string]int64) error {
	pipe := b.client.Pipeline()
	queued := 0
	for id, bytes := range deltas {
		if id == "" || bytes <= 0 {
			continue
		}
		pipe.HIncrBy(ctx, usageBufferKey, id, bytes)
		queued++
	}
	if queued == 0 {
		return nil
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to buffer usage: %w", err)
	}
	return nil
}

// Drain returns and clears every buffered counter.
func (b *RedisUsageBuffer) Drain(ctx context.Context) (map[string]int64, error) {
	raw, err := drainScript.Run(ctx, b.client, []string{usageBufferKey}).StringSlice()
	if err != nil {
		return nil, fmt.Errorf("failed to drain usage buffer: %w", err)
	}

	out := make(map[string]int64, len(raw)/2)
	for i := 0; i+1 < len(raw); i += 2 {
		n, err := strconv.ParseInt(raw[i+1], 10, 64)
		if err != nil {
			b.logger.Warnw("dropping malformed usage counter",
				"subscription_id", raw[i],
				"value", raw[i+1],
			)
			continue
		}
		out[raw[i]] = n
	}
	return out, nil
}

// Pending returns how many subscriptions have buffered usage.
func (b *RedisUsageBuffer) Pending(ctx context.Context) (int64, error) {
	n, err := b.client.HLen(ctx, usageBufferKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count buffered usage: %w", err)
	}
	return n, nil
}
