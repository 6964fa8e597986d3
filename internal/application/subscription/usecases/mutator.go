package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/orris-inc/proxypanel/internal/domain/shared/events"
	"github.com/orris-inc/proxypanel/internal/domain/subscription"
	"github.com/orris-inc/proxypanel/internal/shared/db"
	"github.com/orris-inc/proxypanel/internal/shared/logger"
)

// maxMutationAttempts bounds reload-and-retry after an optimistic-lock
// conflict.
const maxMutationAttempts = 3

// MutationFunc performs one aggregate operation, recording events into sink.
type MutationFunc func(sub *subscription.Subscription, sink subscription.EventSink) error

// SubscriptionMutator runs the load, mutate, persist, publish cycle shared
// by every write use case. Events are published only after the transaction
// commits; a failed attempt discards them.
type SubscriptionMutator struct {
	subscriptionRepo  subscription.SubscriptionRepository
	txManager         db.Transactor
	publisher         events.EventPublisher
	quotaCacheManager QuotaCacheManager
	logger            logger.Interface
}

// NewSubscriptionMutator creates a mutator. txManager and publisher may be nil.
func NewSubscriptionMutator(
	subscriptionRepo subscription.SubscriptionRepository,
	txManager db.Transactor,
	publisher events.EventPublisher,
	logger logger.Interface,
) *SubscriptionMutator {
	return &SubscriptionMutator{
		subscriptionRepo: subscriptionRepo,
		txManager:        txManager,
		publisher:        publisher,
		logger:           logger,
	}
}

// SetQuotaCacheManager sets the quota cache manager (optional).
func (m *SubscriptionMutator) SetQuotaCacheManager(manager QuotaCacheManager) {
	m.quotaCacheManager = manager
}

// Mutate loads the subscription, applies fn and persists the result. A lost
// optimistic-lock race reloads and reapplies fn against the fresh state.
func (m *SubscriptionMutator) Mutate(ctx context.Context, subscriptionID, operation string, fn MutationFunc) (*subscription.Subscription, error) {
	var lastErr error
	for attempt := 1; attempt <= maxMutationAttempts; attempt++ {
		sub, pending, err := m.apply(ctx, subscriptionID, fn)
		if err == nil {
			m.afterCommit(ctx, operation, sub, pending)
			return sub, nil
		}

		lastErr = err
		if !errors.Is(err, subscription.ErrConcurrentModification) {
			break
		}
		m.logger.Warnw("subscription modified concurrently, retrying",
			"subscription_id", subscriptionID,
			"operation", operation,
			"attempt", attempt,
		)
	}

	m.logFailure(subscriptionID, operation, lastErr)
	return nil, translateDomainError(lastErr)
}

// Create persists a new aggregate together with the events recorded while
// building it.
func (m *SubscriptionMutator) Create(ctx context.Context, sub *subscription.Subscription, buffer *subscription.EventBuffer) error {
	err := m.runInTx(ctx, func(txCtx context.Context) error {
		return m.subscriptionRepo.Create(txCtx, sub)
	})
	if err != nil {
		buffer.Discard()
		m.logFailure(sub.ID(), "create", err)
		return translateDomainError(err)
	}

	m.afterCommit(ctx, "create", sub, buffer.Drain())
	return nil
}

func (m *SubscriptionMutator) apply(ctx context.Context, subscriptionID string, fn MutationFunc) (*subscription.Subscription, []events.DomainEvent, error) {
	buffer := subscription.NewEventBuffer()

	var sub *subscription.Subscription
	err := m.runInTx(ctx, func(txCtx context.Context) error {
		loaded, err := m.subscriptionRepo.GetByID(txCtx, subscriptionID)
		if err != nil {
			return fmt.Errorf("failed to get subscription: %w", err)
		}
		if loaded == nil {
			return subscription.ErrSubscriptionNotFound
		}

		if err := fn(loaded, buffer); err != nil {
			return err
		}
		if err := m.subscriptionRepo.Update(txCtx, loaded); err != nil {
			return err
		}
		sub = loaded
		return nil
	})
	if err != nil {
		buffer.Discard()
		return nil, nil, err
	}
	return sub, buffer.Drain(), nil
}

func (m *SubscriptionMutator) runInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.txManager == nil {
		return fn(ctx)
	}
	return m.txManager.RunInTransaction(ctx, fn)
}

// afterCommit never fails the operation: the state is already durable.
func (m *SubscriptionMutator) afterCommit(ctx context.Context, operation string, sub *subscription.Subscription, pending []events.DomainEvent) {
	if m.quotaCacheManager != nil {
		if err := m.quotaCacheManager.SyncQuotaFromSubscription(ctx, sub); err != nil {
			m.logger.Warnw("failed to sync subscription quota cache",
				"subscription_id", sub.ID(),
				"error", err,
			)
		}
	}

	if m.publisher != nil && len(pending) > 0 {
		if err := m.publisher.PublishAll(pending); err != nil {
			m.logger.Warnw("failed to publish subscription events",
				"subscription_id", sub.ID(),
				"event_count", len(pending),
				"error", err,
			)
		}
	}

	m.logger.Infow("subscription "+operation+" completed",
		"subscription_id", sub.ID(),
		"status", sub.Status().String(),
		"version", sub.Version(),
		"events", len(pending),
	)
}

func (m *SubscriptionMutator) logFailure(subscriptionID, operation string, err error) {
	if errors.Is(err, errNotDue) {
		m.logger.Debugw("subscription "+operation+" skipped",
			"subscription_id", subscriptionID,
			"reason", err,
		)
		return
	}
	if subscription.IsInvalidTransition(err) || subscription.IsValidation(err) ||
		subscription.IsLimitExceeded(err) || errors.Is(err, subscription.ErrSubscriptionNotFound) {
		m.logger.Warnw("subscription "+operation+" rejected",
			"subscription_id", subscriptionID,
			"error", err,
		)
		return
	}
	m.logger.Errorw("subscription "+operation+" failed",
		"subscription_id", subscriptionID,
		"error", err,
	)
}
