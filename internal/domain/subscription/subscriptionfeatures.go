package subscription

import (
	"fmt"

	vo "github.com/orris-inc/proxypanel/internal/domain/subscription/valueobjects"
)

// Feature change kinds carried by SubscriptionFeatureChangedEvent.
const (
	FeatureChangeAdded        = "added"
	FeatureChangeRemoved      = "removed"
	FeatureChangeValueUpdated = "value_updated"
	FeatureChangeLimitUpdated = "limit_updated"
	FeatureChangeEnabled      = "enabled"
	FeatureChangeDisabled     = "disabled"
	FeatureChangeIncremented  = "incremented"
	FeatureChangeDecremented  = "decremented"
	FeatureChangeReset        = "reset"
)

// Feature returns a copy of the named feature, or nil.
func (s *Subscription) Feature(name string) *Feature {
	if f := s.findFeature(name); f != nil {
		return f.clone()
	}
	return nil
}

func (s *Subscription) HasFeature(name string) bool {
	return s.findFeature(name) != nil
}

// AddFeature attaches a new feature. Names are unique per subscription.
func (s *Subscription) AddFeature(f *Feature, sink EventSink) error {
	if f == nil {
		return errValidation("feature", "is required")
	}
	if err := s.guardFeatureMutation(); err != nil {
		return err
	}
	if s.findFeature(f.Name()) != nil {
		return errValidation("feature", "duplicate name "+f.Name())
	}
	s.features = append(s.features, f.clone())
	s.featureChanged(f.Name(), FeatureChangeAdded, sink)
	return nil
}

// RemoveFeature detaches the named feature.
func (s *Subscription) RemoveFeature(name string, sink EventSink) error {
	if err := s.guardFeatureMutation(); err != nil {
		return err
	}
	for i, f := range s.features {
		if f.Name() == name {
			s.features = append(s.features[:i], s.features[i+1:]...)
			s.featureChanged(name, FeatureChangeRemoved, sink)
			return nil
		}
	}
	return errFeatureNotFound(name)
}

func (s *Subscription) UpdateFeatureValue(name string, value any, sink EventSink) error {
	return s.mutateFeature(name, FeatureChangeValueUpdated, sink, func(f *Feature) error {
		return f.UpdateValue(value)
	})
}

func (s *Subscription) UpdateFeatureLimit(name string, limit *int64, sink EventSink) error {
	return s.mutateFeature(name, FeatureChangeLimitUpdated, sink, func(f *Feature) error {
		return f.UpdateLimit(limit)
	})
}

func (s *Subscription) EnableFeature(name string, sink EventSink) error {
	return s.mutateFeature(name, FeatureChangeEnabled, sink, func(f *Feature) error {
		f.Enable()
		return nil
	})
}

func (s *Subscription) DisableFeature(name string, sink EventSink) error {
	return s.mutateFeature(name, FeatureChangeDisabled, sink, func(f *Feature) error {
		f.Disable()
		return nil
	})
}

// IncrementFeature adds amount to a numeric feature. On LimitExceededError
// the feature and the subscription are left unchanged.
func (s *Subscription) IncrementFeature(name string, amount int64, sink EventSink) error {
	return s.mutateFeature(name, FeatureChangeIncremented, sink, func(f *Feature) error {
		return f.Increment(amount)
	})
}

func (s *Subscription) DecrementFeature(name string, amount int64, sink EventSink) error {
	return s.mutateFeature(name, FeatureChangeDecremented, sink, func(f *Feature) error {
		return f.Decrement(amount)
	})
}

func (s *Subscription) ResetFeature(name string, sink EventSink) error {
	return s.mutateFeature(name, FeatureChangeReset, sink, func(f *Feature) error {
		return f.Reset()
	})
}

func (s *Subscription) mutateFeature(name, change string, sink EventSink, apply func(*Feature) error) error {
	if err := s.guardFeatureMutation(); err != nil {
		return err
	}
	f := s.findFeature(name)
	if f == nil {
		return errFeatureNotFound(name)
	}
	if err := apply(f); err != nil {
		return err
	}
	s.featureChanged(name, change, sink)
	return nil
}

func (s *Subscription) guardFeatureMutation() error {
	return s.ensurePermits(vo.OpMutate)
}

func (s *Subscription) featureChanged(name, change string, sink EventSink) {
	now := s.touch()
	record(sink, &SubscriptionFeatureChangedEvent{
		SubscriptionEvent: newSubscriptionEvent(s, EventTypeFeatureChanged, now),
		Feature:           name,
		Change:            change,
	})
}

func (s *Subscription) findFeature(name string) *Feature {
	for _, f := range s.features {
		if f.Name() == name {
			return f
		}
	}
	return nil
}

func errFeatureNotFound(name string) error {
	return errValidation("feature", fmt.Sprintf("%q not found", name))
}
