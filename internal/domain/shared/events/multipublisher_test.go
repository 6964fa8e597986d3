package events

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubPublisher struct {
	published []string
	err       error
}

func (s *stubPublisher) Publish(event DomainEvent) error {
	s.published = append(s.published, event.GetEventType())
	return s.err
}

func (s *stubPublisher) PublishAll(list []DomainEvent) error {
	for _, e := range list {
		s.published = append(s.published, e.GetEventType())
	}
	return s.err
}

func TestMultiPublisher_DeliversToAll(t *testing.T) {
	first := &stubPublisher{err: errors.New("redis down")}
	second := &stubPublisher{}
	pub := NewMultiPublisher(first, nil, second)

	err := pub.PublishAll([]DomainEvent{newEvent("a"), newEvent("b")})

	assert.ErrorContains(t, err, "redis down")
	assert.Equal(t, []string{"a", "b"}, first.published)
	assert.Equal(t, []string{"a", "b"}, second.published)
}

func TestMultiPublisher_Empty(t *testing.T) {
	assert.NoError(t, NewMultiPublisher().Publish(newEvent("a")))
}
