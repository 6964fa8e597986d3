package metrics

import (
	"github.com/orris-inc/proxypanel/internal/domain/shared/events"
	"github.com/orris-inc/proxypanel/internal/domain/subscription"
)

// EventCounter feeds lifecycle counters from the in-process event dispatcher.
type EventCounter struct{}

var _ events.EventHandler = EventCounter{}

func NewEventCounter() EventCounter {
	return EventCounter{}
}

func (EventCounter) CanHandle(string) bool {
	return true
}

func (EventCounter) Handle(event events.DomainEvent) error {
	LifecycleEventsTotal.WithLabelValues(event.GetEventType()).Inc()

	if recorded, ok := event.(*subscription.SubscriptionUsageRecordedEvent); ok {
		UsageRecordedTotal.WithLabelValues(recorded.Kind.String()).Add(float64(recorded.Amount))
	}
	return nil
}
