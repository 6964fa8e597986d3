package events

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/proxypanel/internal/infrastructure/pubsub"
)

func TestPrinter_FiltersByType(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, []string{"subscription.suspended"})
	at := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	printer(context.Background(), pubsub.EventEnvelope{EventType: "subscription.renewed", AggregateID: "sub_a", OccurredAt: at})
	printer(context.Background(), pubsub.EventEnvelope{
		EventType:   "subscription.suspended",
		AggregateID: "sub_a",
		Version:     4,
		OccurredAt:  at,
		Payload:     json.RawMessage(`{"reason":"Data limit exceeded"}`),
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var got pubsub.EventEnvelope
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &got))
	assert.Equal(t, "subscription.suspended", got.EventType)
	assert.Equal(t, 4, got.Version)
	assert.JSONEq(t, `{"reason":"Data limit exceeded"}`, string(got.Payload))
}

func TestPrinter_NoFilterPrintsAll(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, nil)

	printer(context.Background(), pubsub.EventEnvelope{EventType: "a"})
	printer(context.Background(), pubsub.EventEnvelope{EventType: "b"})

	assert.Equal(t, 2, strings.Count(buf.String(), "\n"))
}
