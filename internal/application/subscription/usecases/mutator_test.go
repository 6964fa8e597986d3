package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/proxypanel/internal/domain/shared/events"
	"github.com/orris-inc/proxypanel/internal/domain/subscription"
	vo "github.com/orris-inc/proxypanel/internal/domain/subscription/valueobjects"
	apperrors "github.com/orris-inc/proxypanel/internal/shared/errors"
	"github.com/orris-inc/proxypanel/internal/shared/logger"
)

var testNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func int64Ptr(v int64) *int64 {
	return &v
}

// newStoredSubscription builds a subscription in the given status as the
// repository would return it.
func newStoredSubscription(t *testing.T, clock subscription.Clock, status vo.SubscriptionStatus, modify ...func(*subscription.CreateParams)) *subscription.Subscription {
	t.Helper()
	params := subscription.CreateParams{
		UserID:    "user-1",
		PanelID:   "panel-1",
		Type:      vo.TypeBasic,
		DataLimit: int64Ptr(1000),
	}
	for _, m := range modify {
		m(&params)
	}
	sub, err := subscription.NewSubscription(params, clock, subscription.NewEventBuffer())
	require.NoError(t, err)

	snap := sub.Snapshot()
	snap.Status = status
	stored, err := subscription.ReconstructSubscription(snap, nil, clock)
	require.NoError(t, err)
	return stored
}

// reload returns an independent copy of sub, as a second GetByID would.
func reload(t *testing.T, sub *subscription.Subscription, clock subscription.Clock) *subscription.Subscription {
	t.Helper()
	out, err := subscription.ReconstructSubscription(sub.Snapshot(), nil, clock)
	require.NoError(t, err)
	return out
}

func publishedTypes(list []events.DomainEvent) []string {
	out := make([]string, 0, len(list))
	for _, e := range list {
		out = append(out, e.GetEventType())
	}
	return out
}

func eventTypesAre(expected ...string) any {
	return mock.MatchedBy(func(list []events.DomainEvent) bool {
		return assert.ObjectsAreEqual(expected, publishedTypes(list))
	})
}

func newTestMutator(repo *mockSubscriptionRepository, publisher *mockEventPublisher) (*SubscriptionMutator, *recordingTransactor) {
	tx := &recordingTransactor{}
	var pub events.EventPublisher
	if publisher != nil {
		pub = publisher
	}
	return NewSubscriptionMutator(repo, tx, pub, logger.NewNopLogger()), tx
}

func TestSubscriptionMutator_PublishesAfterUpdate(t *testing.T) {
	ctx := context.Background()
	clock := subscription.NewFixedClock(testNow)
	sub := newStoredSubscription(t, clock, vo.StatusActive)

	repo := new(mockSubscriptionRepository)
	publisher := new(mockEventPublisher)
	quota := new(mockQuotaCacheManager)

	repo.On("GetByID", mock.Anything, sub.ID()).Return(sub, nil).Once()
	repo.On("Update", mock.Anything, sub).Return(nil).Once()
	publisher.On("PublishAll", eventTypesAre(subscription.EventTypeSuspended)).Return(nil).Once()
	quota.On("SyncQuotaFromSubscription", mock.Anything, sub).Return(nil).Once()

	mutator, tx := newTestMutator(repo, publisher)
	mutator.SetQuotaCacheManager(quota)

	got, err := mutator.Mutate(ctx, sub.ID(), "suspend", func(s *subscription.Subscription, sink subscription.EventSink) error {
		return s.Suspend("abuse", sink)
	})

	require.NoError(t, err)
	assert.Equal(t, vo.StatusSuspended, got.Status())
	assert.Equal(t, 1, tx.calls)
	repo.AssertExpectations(t)
	publisher.AssertExpectations(t)
	quota.AssertExpectations(t)
}

func TestSubscriptionMutator_NotFound(t *testing.T) {
	repo := new(mockSubscriptionRepository)
	publisher := new(mockEventPublisher)
	repo.On("GetByID", mock.Anything, "sub_missing").Return(nil, nil).Once()

	mutator, _ := newTestMutator(repo, publisher)
	_, err := mutator.Mutate(context.Background(), "sub_missing", "activate", func(s *subscription.Subscription, sink subscription.EventSink) error {
		return s.Activate(sink)
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsNotFoundError(err))
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	publisher.AssertNotCalled(t, "PublishAll", mock.Anything)
}

func TestSubscriptionMutator_InvalidTransitionIsConflict(t *testing.T) {
	clock := subscription.NewFixedClock(testNow)
	sub := newStoredSubscription(t, clock, vo.StatusCancelled)

	repo := new(mockSubscriptionRepository)
	publisher := new(mockEventPublisher)
	repo.On("GetByID", mock.Anything, sub.ID()).Return(sub, nil).Once()

	mutator, _ := newTestMutator(repo, publisher)
	_, err := mutator.Mutate(context.Background(), sub.ID(), "activate", func(s *subscription.Subscription, sink subscription.EventSink) error {
		return s.Activate(sink)
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsConflictError(err))
	assert.True(t, subscription.IsInvalidTransition(err))
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	publisher.AssertNotCalled(t, "PublishAll", mock.Anything)
}

func TestSubscriptionMutator_RetriesConcurrentModification(t *testing.T) {
	clock := subscription.NewFixedClock(testNow)
	first := newStoredSubscription(t, clock, vo.StatusActive)
	second := reload(t, first, clock)

	repo := new(mockSubscriptionRepository)
	publisher := new(mockEventPublisher)
	repo.On("GetByID", mock.Anything, first.ID()).Return(first, nil).Once()
	repo.On("GetByID", mock.Anything, first.ID()).Return(second, nil).Once()
	repo.On("Update", mock.Anything, first).Return(subscription.ErrConcurrentModification).Once()
	repo.On("Update", mock.Anything, second).Return(nil).Once()
	publisher.On("PublishAll", eventTypesAre(subscription.EventTypeSuspended)).Return(nil).Once()

	mutator, tx := newTestMutator(repo, publisher)
	got, err := mutator.Mutate(context.Background(), first.ID(), "suspend", func(s *subscription.Subscription, sink subscription.EventSink) error {
		return s.Suspend("abuse", sink)
	})

	require.NoError(t, err)
	assert.Same(t, second, got)
	assert.Equal(t, 2, tx.calls)
	repo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestSubscriptionMutator_PersistentConflictGivesUp(t *testing.T) {
	clock := subscription.NewFixedClock(testNow)
	sub := newStoredSubscription(t, clock, vo.StatusActive)

	repo := new(mockSubscriptionRepository)
	publisher := new(mockEventPublisher)
	for i := 0; i < maxMutationAttempts; i++ {
		repo.On("GetByID", mock.Anything, sub.ID()).Return(reload(t, sub, clock), nil).Once()
	}
	repo.On("Update", mock.Anything, mock.Anything).Return(subscription.ErrConcurrentModification).Times(maxMutationAttempts)

	mutator, tx := newTestMutator(repo, publisher)
	_, err := mutator.Mutate(context.Background(), sub.ID(), "suspend", func(s *subscription.Subscription, sink subscription.EventSink) error {
		return s.Suspend("abuse", sink)
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsConflictError(err))
	assert.ErrorIs(t, err, subscription.ErrConcurrentModification)
	assert.Equal(t, maxMutationAttempts, tx.calls)
	repo.AssertExpectations(t)
	publisher.AssertNotCalled(t, "PublishAll", mock.Anything)
}

func TestSubscriptionMutator_PublishFailureIsNotFatal(t *testing.T) {
	clock := subscription.NewFixedClock(testNow)
	sub := newStoredSubscription(t, clock, vo.StatusPending)

	repo := new(mockSubscriptionRepository)
	publisher := new(mockEventPublisher)
	quota := new(mockQuotaCacheManager)
	repo.On("GetByID", mock.Anything, sub.ID()).Return(sub, nil).Once()
	repo.On("Update", mock.Anything, sub).Return(nil).Once()
	publisher.On("PublishAll", mock.Anything).Return(errors.New("redis down")).Once()
	quota.On("SyncQuotaFromSubscription", mock.Anything, sub).Return(errors.New("redis down")).Once()

	mutator, _ := newTestMutator(repo, publisher)
	mutator.SetQuotaCacheManager(quota)
	got, err := mutator.Mutate(context.Background(), sub.ID(), "activate", func(s *subscription.Subscription, sink subscription.EventSink) error {
		return s.Activate(sink)
	})

	require.NoError(t, err)
	assert.Equal(t, vo.StatusActive, got.Status())
	publisher.AssertExpectations(t)
	quota.AssertExpectations(t)
}

func TestSubscriptionMutator_RepositoryErrorIsInternal(t *testing.T) {
	repo := new(mockSubscriptionRepository)
	repo.On("GetByID", mock.Anything, "sub_x").Return(nil, errors.New("connection refused")).Once()

	mutator, _ := newTestMutator(repo, nil)
	_, err := mutator.Mutate(context.Background(), "sub_x", "activate", func(s *subscription.Subscription, sink subscription.EventSink) error {
		return s.Activate(sink)
	})

	require.Error(t, err)
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrorTypeInternal, appErr.Type)
}
