package subscription

import (
	"context"
	"time"

	vo "github.com/orris-inc/proxypanel/internal/domain/subscription/valueobjects"
	"github.com/orris-inc/proxypanel/internal/shared/query"
)

// SubscriptionRepository persists the aggregate together with its features
// and the pending part of its usage ledger.
type SubscriptionRepository interface {
	Create(ctx context.Context, subscription *Subscription) error
	// GetByID returns nil, nil when no subscription has the ID.
	GetByID(ctx context.Context, id string) (*Subscription, error)
	GetByUserID(ctx context.Context, userID string) ([]*Subscription, error)
	// Update fails with ErrConcurrentModification when the stored version is
	// not the version the aggregate was loaded at.
	Update(ctx context.Context, subscription *Subscription) error
	Delete(ctx context.Context, id string) error

	FindExpiredActive(ctx context.Context, now time.Time, limit int) ([]*Subscription, error)
	FindAutoRenewDue(ctx context.Context, now time.Time, limit int) ([]*Subscription, error)
	List(ctx context.Context, filter SubscriptionFilter) ([]*Subscription, int64, error)
	CountByStatus(ctx context.Context, status vo.SubscriptionStatus) (int64, error)
}

// UsageRecordRepository queries ledger history beyond the loaded window.
type UsageRecordRepository interface {
	ListBySubscription(ctx context.Context, subscriptionID string, kind *vo.UsageKind, from, to time.Time) ([]*UsageRecord, error)
	SumBySubscription(ctx context.Context, subscriptionID string, kind vo.UsageKind, from, to time.Time) (int64, error)
}

type SubscriptionFilter struct {
	query.BaseFilter
	UserID  string
	PanelID string
	Status  *vo.SubscriptionStatus
	Type    *vo.SubscriptionType
}
