package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/proxypanel/internal/domain/shared/events"
	"github.com/orris-inc/proxypanel/internal/domain/subscription"
	vo "github.com/orris-inc/proxypanel/internal/domain/subscription/valueobjects"
)

func TestEventCounter_Handle(t *testing.T) {
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	suspended := testutil.ToFloat64(LifecycleEventsTotal.WithLabelValues(subscription.EventTypeSuspended))
	data := testutil.ToFloat64(UsageRecordedTotal.WithLabelValues(vo.UsageKindData.String()))

	c := NewEventCounter()
	require.True(t, c.CanHandle(subscription.EventTypeSuspended))
	require.NoError(t, c.Handle(events.NewBaseEvent("sub_1", subscription.EventTypeSuspended, at, 2)))
	require.NoError(t, c.Handle(&subscription.SubscriptionUsageRecordedEvent{
		SubscriptionEvent: subscription.SubscriptionEvent{
			BaseEvent: events.NewBaseEvent("sub_1", subscription.EventTypeUsageRecorded, at, 3),
		},
		Kind:   vo.UsageKindData,
		Amount: 1024,
	}))

	assert.Equal(t, suspended+1, testutil.ToFloat64(LifecycleEventsTotal.WithLabelValues(subscription.EventTypeSuspended)))
	assert.Equal(t, data+1024, testutil.ToFloat64(UsageRecordedTotal.WithLabelValues(vo.UsageKindData.String())))
}

func TestObserveJob(t *testing.T) {
	ok := testutil.ToFloat64(JobRunsTotal.WithLabelValues("test-job", "success"))
	failed := testutil.ToFloat64(JobRunsTotal.WithLabelValues("test-job", "error"))
	items := testutil.ToFloat64(JobItemsTotal.WithLabelValues("test-job"))

	ObserveJob("test-job", 3, 0.2, nil)
	ObserveJob("test-job", 0, 0.1, errors.New("db down"))

	assert.Equal(t, ok+1, testutil.ToFloat64(JobRunsTotal.WithLabelValues("test-job", "success")))
	assert.Equal(t, failed+1, testutil.ToFloat64(JobRunsTotal.WithLabelValues("test-job", "error")))
	assert.Equal(t, items+3, testutil.ToFloat64(JobItemsTotal.WithLabelValues("test-job")))
}

func TestHandler(t *testing.T) {
	ObserveJob("handler-job", 1, 0.01, nil)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "proxypanel_scheduler_job_runs_total")
}
