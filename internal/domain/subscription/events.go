package subscription

import (
	"time"

	"github.com/orris-inc/proxypanel/internal/domain/shared/events"
	vo "github.com/orris-inc/proxypanel/internal/domain/subscription/valueobjects"
)

const (
	EventTypeCreated          = "subscription.created"
	EventTypeActivated        = "subscription.activated"
	EventTypeRenewed          = "subscription.renewed"
	EventTypeSuspended        = "subscription.suspended"
	EventTypeCancelled        = "subscription.cancelled"
	EventTypeExpired          = "subscription.expired"
	EventTypeTrialStarted     = "subscription.trial_started"
	EventTypePaused           = "subscription.paused"
	EventTypeDataUsageUpdated = "subscription.data_usage_updated"
	EventTypeDataUsageReset   = "subscription.data_usage_reset"
	EventTypeDataLimitUpdated = "subscription.data_limit_updated"
	EventTypeAutoRenewChanged = "subscription.auto_renew_changed"
	EventTypeFeatureChanged   = "subscription.feature_changed"
	EventTypeUsageRecorded    = "subscription.usage_recorded"
)

// EventSink collects events emitted by the aggregate. It only buffers; the
// caller delivers events after persistence succeeds.
type EventSink interface {
	Record(event events.DomainEvent)
}

// EventBuffer is the default EventSink.
type EventBuffer struct {
	events []events.DomainEvent
}

func NewEventBuffer() *EventBuffer {
	return &EventBuffer{}
}

func (b *EventBuffer) Record(event events.DomainEvent) {
	b.events = append(b.events, event)
}

// Events returns a copy of the buffered events in emission order.
func (b *EventBuffer) Events() []events.DomainEvent {
	out := make([]events.DomainEvent, len(b.events))
	copy(out, b.events)
	return out
}

func (b *EventBuffer) Len() int {
	return len(b.events)
}

// Drain returns the buffered events and empties the buffer.
func (b *EventBuffer) Drain() []events.DomainEvent {
	out := b.events
	b.events = nil
	return out
}

// Discard drops everything buffered, e.g. after a failed transaction.
func (b *EventBuffer) Discard() {
	b.events = nil
}

// FlushTo drains the buffer into publisher.
func (b *EventBuffer) FlushTo(publisher events.EventPublisher) error {
	pending := b.Drain()
	if len(pending) == 0 {
		return nil
	}
	return publisher.PublishAll(pending)
}

// SubscriptionEvent is embedded by every subscription event.
type SubscriptionEvent struct {
	events.BaseEvent
	SubscriptionID string `json:"subscription_id"`
	UserID         string `json:"user_id"`
}

func newSubscriptionEvent(s *Subscription, eventType string, at time.Time) SubscriptionEvent {
	return SubscriptionEvent{
		BaseEvent:      events.NewBaseEvent(s.id, eventType, at, s.version),
		SubscriptionID: s.id,
		UserID:         s.userID,
	}
}

type SubscriptionCreatedEvent struct {
	SubscriptionEvent
	Type      vo.SubscriptionType `json:"type"`
	PanelID   string              `json:"panel_id,omitempty"`
	Amount    int64               `json:"amount"`
	DataLimit *int64              `json:"data_limit,omitempty"`
	StartDate time.Time           `json:"start_date"`
	EndDate   *time.Time          `json:"end_date,omitempty"`
}

type SubscriptionActivatedEvent struct {
	SubscriptionEvent
	ActivatedAt    time.Time             `json:"activated_at"`
	PreviousStatus vo.SubscriptionStatus `json:"previous_status"`
}

type SubscriptionRenewedEvent struct {
	SubscriptionEvent
	Days          int        `json:"days"`
	OldExpiryDate *time.Time `json:"old_expiry_date,omitempty"`
	NewExpiryDate time.Time  `json:"new_expiry_date"`
	NewDataLimit  *int64     `json:"new_data_limit,omitempty"`
}

type SubscriptionSuspendedEvent struct {
	SubscriptionEvent
	Reason      string    `json:"reason"`
	SuspendedAt time.Time `json:"suspended_at"`
}

type SubscriptionCancelledEvent struct {
	SubscriptionEvent
	Reason      string    `json:"reason"`
	CancelledAt time.Time `json:"cancelled_at"`
}

type SubscriptionExpiredEvent struct {
	SubscriptionEvent
	ExpiredAt time.Time `json:"expired_at"`
}

type SubscriptionTrialStartedEvent struct {
	SubscriptionEvent
	TrialEndsAt time.Time `json:"trial_ends_at"`
}

type SubscriptionPausedEvent struct {
	SubscriptionEvent
	Reason string `json:"reason"`
}

type SubscriptionDataUsageUpdatedEvent struct {
	SubscriptionEvent
	Previous int64 `json:"previous"`
	Current  int64 `json:"current"`
}

type SubscriptionDataUsageResetEvent struct {
	SubscriptionEvent
	Previous int64 `json:"previous"`
}

type SubscriptionDataLimitUpdatedEvent struct {
	SubscriptionEvent
	Previous *int64 `json:"previous,omitempty"`
	Current  *int64 `json:"current,omitempty"`
}

type SubscriptionAutoRenewChangedEvent struct {
	SubscriptionEvent
	Enabled    bool `json:"enabled"`
	PeriodDays *int `json:"period_days,omitempty"`
}

type SubscriptionFeatureChangedEvent struct {
	SubscriptionEvent
	Feature string `json:"feature"`
	Change  string `json:"change"`
}

type SubscriptionUsageRecordedEvent struct {
	SubscriptionEvent
	Kind   vo.UsageKind `json:"kind"`
	Metric string       `json:"metric"`
	Amount int64        `json:"amount"`
	Source string       `json:"source"`
}
