// Package metrics exposes Prometheus collectors for the subscription engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "proxypanel"

var (
	// LifecycleEventsTotal counts published domain events by type.
	LifecycleEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "subscription",
		Name:      "events_total",
		Help:      "Subscription domain events published, by event type.",
	}, []string{"event_type"})

	// UsageRecordedTotal sums ledger amounts by usage kind.
	UsageRecordedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "subscription",
		Name:      "usage_recorded_total",
		Help:      "Usage appended to subscription ledgers, by kind (bytes, minutes or uses).",
	}, []string{"kind"})

	// SubscriptionsByStatus is refreshed by the status snapshot job.
	SubscriptionsByStatus = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "subscription",
		Name:      "by_status",
		Help:      "Number of subscriptions in each lifecycle status.",
	}, []string{"status"})

	// JobRunsTotal counts scheduler job runs by outcome.
	JobRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "scheduler",
		Name:      "job_runs_total",
		Help:      "Scheduled job runs by job name and outcome.",
	}, []string{"job", "outcome"})

	// JobItemsTotal counts items a job processed successfully.
	JobItemsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "scheduler",
		Name:      "job_items_total",
		Help:      "Items processed by scheduled jobs.",
	}, []string{"job"})

	// JobDuration tracks how long job runs take.
	JobDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "scheduler",
		Name:      "job_duration_seconds",
		Help:      "Scheduled job run duration in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"job"})
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveJob records one job run.
func ObserveJob(job string, processed int, seconds float64, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	JobRunsTotal.WithLabelValues(job, outcome).Inc()
	JobDuration.WithLabelValues(job).Observe(seconds)
	if processed > 0 {
		JobItemsTotal.WithLabelValues(job).Add(float64(processed))
	}
}
