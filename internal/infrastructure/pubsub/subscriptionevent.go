package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/orris-inc/proxypanel/internal/domain/shared/events"
	"github.com/orris-inc/proxypanel/internal/shared/goroutine"
	"github.com/orris-inc/proxypanel/internal/shared/logger"
)

// DefaultSubscriptionEventChannel is used when no channel is configured.
const DefaultSubscriptionEventChannel = "proxypanel:subscription:events"

const publishTimeout = 3 * time.Second

// EventEnvelope is the wire form of a domain event. Payload holds the full
// event as JSON.
type EventEnvelope struct {
	EventType   string          `json:"event_type"`
	AggregateID string          `json:"aggregate_id"`
	Version     int             `json:"version"`
	OccurredAt  time.Time       `json:"occurred_at"`
	Payload     json.RawMessage `json:"payload"`
}

// SubscriptionEventHandler is a callback function for handling subscription events
type SubscriptionEventHandler func(ctx context.Context, envelope EventEnvelope)

// RedisSubscriptionEventBus publishes subscription domain events over Redis
// Pub/Sub for other instances and external consumers.
type RedisSubscriptionEventBus struct {
	client  *redis.Client
	channel string
	logger  logger.Interface
}

var _ events.EventPublisher = (*RedisSubscriptionEventBus)(nil)

// NewRedisSubscriptionEventBus creates a new Redis-based subscription event bus
func NewRedisSubscriptionEventBus(client *redis.Client, channel string, logger logger.Interface) *RedisSubscriptionEventBus {
	if channel == "" {
		channel = DefaultSubscriptionEventChannel
	}
	return &RedisSubscriptionEventBus{
		client:  client,
		channel: channel,
		logger:  logger,
	}
}

// Publish sends one event.
func (b *RedisSubscriptionEventBus) Publish(event events.DomainEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	return b.publish(ctx, event)
}

// PublishAll sends events in order in a single pipeline.
func (b *RedisSubscriptionEventBus) PublishAll(list []events.DomainEvent) error {
	if len(list) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	pipe := b.client.Pipeline()
	for _, event := range list {
		data, err := encodeEnvelope(event)
		if err != nil {
			return err
		}
		pipe.Publish(ctx, b.channel, data)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		b.logger.Errorw("failed to publish subscription events",
			"count", len(list),
			"aggregate_id", list[0].GetAggregateID(),
			"error", err,
		)
		return fmt.Errorf("failed to publish events: %w", err)
	}

	b.logger.Debugw("subscription events published",
		"count", len(list),
		"aggregate_id", list[0].GetAggregateID(),
	)
	return nil
}

func (b *RedisSubscriptionEventBus) publish(ctx context.Context, event events.DomainEvent) error {
	data, err := encodeEnvelope(event)
	if err != nil {
		return err
	}

	if err := b.client.Publish(ctx, b.channel, data).Err(); err != nil {
		b.logger.Errorw("failed to publish subscription event",
			"aggregate_id", event.GetAggregateID(),
			"event_type", event.GetEventType(),
			"error", err,
		)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	b.logger.Debugw("subscription event published",
		"aggregate_id", event.GetAggregateID(),
		"event_type", event.GetEventType(),
		"version", event.GetVersion(),
	)
	return nil
}

// Subscribe delivers events to handler until ctx is cancelled. ready, when
// not nil, is closed once the subscription is confirmed.
func (b *RedisSubscriptionEventBus) Subscribe(ctx context.Context, handler SubscriptionEventHandler, ready chan<- struct{}) error {
	ps := b.client.Subscribe(ctx, b.channel)
	defer ps.Close()

	if _, err := ps.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to channel: %w", err)
	}
	if ready != nil {
		close(ready)
	}

	b.logger.Infow("subscribed to subscription events",
		"channel", b.channel,
	)

	ch := ps.Channel()

	for {
		select {
		case <-ctx.Done():
			b.logger.Infow("subscription event subscriber stopped",
				"reason", ctx.Err(),
			)
			return ctx.Err()

		case msg, ok := <-ch:
			if !ok {
				b.logger.Warnw("subscription event channel closed")
				return nil
			}

			var envelope EventEnvelope
			if err := json.Unmarshal([]byte(msg.Payload), &envelope); err != nil {
				b.logger.Warnw("failed to unmarshal subscription event",
					"payload", msg.Payload,
					"error", err,
				)
				continue
			}

			goroutine.SafeGo(b.logger, "subscription-event-handler", func() {
				handler(context.Background(), envelope)
			})
		}
	}
}

func encodeEnvelope(event events.DomainEvent) ([]byte, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event %s: %w", event.GetEventType(), err)
	}
	data, err := json.Marshal(EventEnvelope{
		EventType:   event.GetEventType(),
		AggregateID: event.GetAggregateID(),
		Version:     event.GetVersion(),
		OccurredAt:  event.GetOccurredAt(),
		Payload:     payload,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event envelope: %w", err)
	}
	return data, nil
}
