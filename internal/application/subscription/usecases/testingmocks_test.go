package usecases

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/orris-inc/proxypanel/internal/domain/shared/events"
	"github.com/orris-inc/proxypanel/internal/domain/subscription"
	vo "github.com/orris-inc/proxypanel/internal/domain/subscription/valueobjects"
)

type mockSubscriptionRepository struct {
	mock.Mock
}

func (m *mockSubscriptionRepository) Create(ctx context.Context, sub *subscription.Subscription) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *mockSubscriptionRepository) GetByID(ctx context.Context, id string) (*subscription.Subscription, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscription.Subscription), args.Error(1)
}

func (m *mockSubscriptionRepository) GetByUserID(ctx context.Context, userID string) ([]*subscription.Subscription, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*subscription.Subscription), args.Error(1)
}

func (m *mockSubscriptionRepository) Update(ctx context.Context, sub *subscription.Subscription) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *mockSubscriptionRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockSubscriptionRepository) FindExpiredActive(ctx context.Context, now time.Time, limit int) ([]*subscription.Subscription, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*subscription.Subscription), args.Error(1)
}

func (m *mockSubscriptionRepository) FindAutoRenewDue(ctx context.Context, now time.Time, limit int) ([]*subscription.Subscription, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*subscription.Subscription), args.Error(1)
}

func (m *mockSubscriptionRepository) List(ctx context.Context, filter subscription.SubscriptionFilter) ([]*subscription.Subscription, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*subscription.Subscription), args.Get(1).(int64), args.Error(2)
}

func (m *mockSubscriptionRepository) CountByStatus(ctx context.Context, status vo.SubscriptionStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

type mockUsageRecordRepository struct {
	mock.Mock
}

func (m *mockUsageRecordRepository) ListBySubscription(ctx context.Context, subscriptionID string, kind *vo.UsageKind, from, to time.Time) ([]*subscription.UsageRecord, error) {
	args := m.Called(ctx, subscriptionID, kind, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*subscription.UsageRecord), args.Error(1)
}

func (m *mockUsageRecordRepository) SumBySubscription(ctx context.Context, subscriptionID string, kind vo.UsageKind, from, to time.Time) (int64, error) {
	args := m.Called(ctx, subscriptionID, kind, from, to)
	return args.Get(0).(int64), args.Error(1)
}

type mockEventPublisher struct {
	mock.Mock
}

func (m *mockEventPublisher) Publish(event events.DomainEvent) error {
	args := m.Called(event)
	return args.Error(0)
}

func (m *mockEventPublisher) PublishAll(eventList []events.DomainEvent) error {
	args := m.Called(eventList)
	return args.Error(0)
}

type mockQuotaCacheManager struct {
	mock.Mock
}

func (m *mockQuotaCacheManager) SyncQuotaFromSubscription(ctx context.Context, sub *subscription.Subscription) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *mockQuotaCacheManager) InvalidateQuota(ctx context.Context, subscriptionID string) error {
	args := m.Called(ctx, subscriptionID)
	return args.Error(0)
}

type mockRenewalConfirmer struct {
	mock.Mock
}

func (m *mockRenewalConfirmer) ConfirmRenewal(ctx context.Context, sub *subscription.Subscription) (string, bool, error) {
	args := m.Called(ctx, sub)
	return args.String(0), args.Bool(1), args.Error(2)
}

type mockUsageSource struct {
	mock.Mock
}

func (m *mockUsageSource) Drain(ctx context.Context) (map[string]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

func (m *mockUsageSource) AddBatch(ctx context.Context, deltas map[string]int64) error {
	args := m.Called(ctx, deltas)
	return args.Error(0)
}

// recordingTransactor runs fn inline and counts calls.
type recordingTransactor struct {
	calls int
}

func (t *recordingTransactor) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}
