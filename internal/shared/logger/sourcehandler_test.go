package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSourceHandler(t *testing.T) {
	tests := []struct {
		name       string
		level      slog.Level
		minLevel   slog.Level
		wantSource bool
	}{
		{"info below warn threshold", slog.LevelInfo, slog.LevelWarn, false},
		{"warn at threshold", slog.LevelWarn, slog.LevelWarn, true},
		{"error above threshold", slog.LevelError, slog.LevelWarn, true},
		{"info with debug threshold", slog.LevelInfo, slog.LevelDebug, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			base := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
			log := slog.New(NewSourceHandler(base, tt.minLevel))

			log.Log(context.Background(), tt.level, "subscription suspended")

			out := buf.String()
			assert.Contains(t, out, "subscription suspended")
			if tt.wantSource {
				assert.Contains(t, out, "source=")
				assert.Contains(t, out, "sourcehandler_test.go")
			} else {
				assert.NotContains(t, out, "source=")
			}
		})
	}
}

func TestSourceHandler_WithAttrsKeepsThreshold(t *testing.T) {
	var buf bytes.Buffer
	base := slog.NewTextHandler(&buf, nil)
	log := slog.New(NewSourceHandler(base, slog.LevelWarn)).With("subscription_id", "sub_x")

	log.Info("loaded")
	assert.NotContains(t, buf.String(), "source=")

	buf.Reset()
	log.Warn("cache sync failed")
	assert.Contains(t, buf.String(), "subscription_id=sub_x")
	assert.Contains(t, buf.String(), "source=")
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	l.Infow("ignored", "key", "value")
	assert.Same(t, l, l.With("a", 1))
	assert.Same(t, l, l.Named("scheduler"))
}
