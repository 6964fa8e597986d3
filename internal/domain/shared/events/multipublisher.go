package events

import "errors"

// MultiPublisher forwards every event to each publisher in order. A failing
// publisher does not stop delivery to the others.
type MultiPublisher []EventPublisher

var _ EventPublisher = MultiPublisher(nil)

func NewMultiPublisher(publishers ...EventPublisher) MultiPublisher {
	kept := make(MultiPublisher, 0, len(publishers))
	for _, p := range publishers {
		if p != nil {
			kept = append(kept, p)
		}
	}
	return kept
}

func (m MultiPublisher) Publish(event DomainEvent) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m MultiPublisher) PublishAll(list []DomainEvent) error {
	var errs []error
	for _, p := range m {
		if err := p.PublishAll(list); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
