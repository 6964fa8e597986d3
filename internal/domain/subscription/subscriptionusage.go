package subscription

import (
	vo "github.com/orris-inc/proxypanel/internal/domain/subscription/valueobjects"
)

// RecordDataUsage appends a data record to the ledger. The usage counter is
// not changed; pair it with AddDataUsage when the bytes should count
// against the cap.
func (s *Subscription) RecordDataUsage(bytes int64, source string, sink EventSink, opts ...UsageOption) (*UsageRecord, error) {
	return s.appendUsage(sink, func() (*UsageRecord, error) {
		return NewDataUsageRecord(s.id, bytes, source, s.clock.Now(), opts...)
	})
}

// RecordTimeUsage appends a connected-minutes record to the ledger.
func (s *Subscription) RecordTimeUsage(minutes int64, source string, sink EventSink, opts ...UsageOption) (*UsageRecord, error) {
	return s.appendUsage(sink, func() (*UsageRecord, error) {
		return NewTimeUsageRecord(s.id, minutes, source, s.clock.Now(), opts...)
	})
}

// RecordFeatureUsage appends a feature-use record to the ledger.
func (s *Subscription) RecordFeatureUsage(featureName string, count int64, source string, sink EventSink, opts ...UsageOption) (*UsageRecord, error) {
	return s.appendUsage(sink, func() (*UsageRecord, error) {
		return NewFeatureUsageRecord(s.id, featureName, count, source, s.clock.Now(), opts...)
	})
}

// TotalUsage sums the loaded ledger records of one kind.
func (s *Subscription) TotalUsage(kind vo.UsageKind) int64 {
	return s.ledger.TotalAmount(kind)
}

func (s *Subscription) appendUsage(sink EventSink, build func() (*UsageRecord, error)) (*UsageRecord, error) {
	if err := s.ensurePermits(vo.OpMutate); err != nil {
		return nil, err
	}
	r, err := build()
	if err != nil {
		return nil, err
	}
	s.ledger.append(r)
	now := s.touch()
	record(sink, &SubscriptionUsageRecordedEvent{
		SubscriptionEvent: newSubscriptionEvent(s, EventTypeUsageRecorded, now),
		Kind:              r.Kind(),
		Metric:            r.Metric(),
		Amount:            r.Amount(),
		Source:            r.Source(),
	})
	return r, nil
}
