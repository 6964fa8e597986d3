// Package scheduler runs the subscription background jobs on gocron v2.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	vo "github.com/orris-inc/proxypanel/internal/domain/subscription/valueobjects"
	"github.com/orris-inc/proxypanel/internal/infrastructure/metrics"
	"github.com/orris-inc/proxypanel/internal/shared/biztime"
	"github.com/orris-inc/proxypanel/internal/shared/goroutine"
	"github.com/orris-inc/proxypanel/internal/shared/logger"
)

// Job names, also used as metric labels.
const (
	JobExpireSubscriptions = "subscription-expire"
	JobAutoRenew           = "subscription-auto-renew"
	JobUsageFlush          = "usage-flush"
	JobStatusSnapshot      = "subscription-status-snapshot"
)

const statusSnapshotInterval = time.Minute

// BatchJob defines the interface for a scheduled batch processing job.
// Each Execute call processes a batch and returns the number of items processed.
type BatchJob interface {
	Execute(ctx context.Context) (int, error)
}

// StatusCounter reports subscription counts per status.
type StatusCounter interface {
	Execute(ctx context.Context) (map[vo.SubscriptionStatus]int64, error)
}

type registeredJob struct {
	name    string
	timeout time.Duration
	run     func(ctx context.Context) (int, error)
}

// SchedulerManager owns the single gocron scheduler of the worker process.
type SchedulerManager struct {
	scheduler gocron.Scheduler
	logger    logger.Interface

	jobs []registeredJob

	started   bool
	startedMu sync.RWMutex
}

// NewSchedulerManager creates a new SchedulerManager instance.
// It initializes gocron with the business timezone.
func NewSchedulerManager(log logger.Interface) (*SchedulerManager, error) {
	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(biztime.Location()),
	)
	if err != nil {
		return nil, err
	}

	return &SchedulerManager{
		scheduler: scheduler,
		logger:    log,
	}, nil
}

// RegisterExpiryJob marks overdue active subscriptions as expired.
func (m *SchedulerManager) RegisterExpiryJob(job BatchJob, interval time.Duration) error {
	return m.registerBatchJob(JobExpireSubscriptions, interval, 10*time.Minute, job.Execute, "subscription", "expire")
}

// RegisterAutoRenewJob renews overdue auto-renewing subscriptions.
func (m *SchedulerManager) RegisterAutoRenewJob(job BatchJob, interval time.Duration) error {
	return m.registerBatchJob(JobAutoRenew, interval, 10*time.Minute, job.Execute, "subscription", "auto-renew")
}

// RegisterUsageFlushJob moves buffered agent traffic into the ledger.
func (m *SchedulerManager) RegisterUsageFlushJob(job BatchJob, interval time.Duration) error {
	return m.registerBatchJob(JobUsageFlush, interval, interval, job.Execute, "usage", "flush")
}

// RegisterStatusSnapshotJob refreshes the per-status subscription gauge.
func (m *SchedulerManager) RegisterStatusSnapshotJob(counter StatusCounter) error {
	run := func(ctx context.Context) (int, error) {
		counts, err := counter.Execute(ctx)
		if err != nil {
			return 0, err
		}
		for status, n := range counts {
			metrics.SubscriptionsByStatus.WithLabelValues(status.String()).Set(float64(n))
		}
		return len(counts), nil
	}
	return m.registerBatchJob(JobStatusSnapshot, statusSnapshotInterval, 30*time.Second, run, "subscription", "metrics")
}

func (m *SchedulerManager) registerBatchJob(
	name string,
	interval time.Duration,
	timeout time.Duration,
	run func(ctx context.Context) (int, error),
	tags ...string,
) error {
	if interval <= 0 {
		return errors.New("scheduler: interval must be positive for job " + name)
	}
	if timeout <= 0 || timeout > interval {
		timeout = interval
	}

	_, err := m.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			m.runBatch(ctx, name, run)
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags(tags...),
		gocron.WithName(name),
	)
	if err != nil {
		return err
	}

	m.jobs = append(m.jobs, registeredJob{name: name, timeout: timeout, run: run})
	m.logger.Infow("registered scheduled job", "job", name, "interval", interval)
	return nil
}

func (m *SchedulerManager) runBatch(ctx context.Context, name string, run func(ctx context.Context) (int, error)) (int, error) {
	defer goroutine.Recover(m.logger, name)

	m.logger.Debugw("scheduled job started", "job", name)
	startTime := time.Now()

	count, err := run(ctx)
	elapsed := time.Since(startTime)
	metrics.ObserveJob(name, count, elapsed.Seconds(), err)

	switch {
	case err != nil && ctx.Err() != nil:
		// Shutdown or timeout; the next run picks up the rest.
		m.logger.Warnw("scheduled job interrupted",
			"job", name,
			"count", count,
			"error", err,
			"duration", elapsed,
		)
	case err != nil:
		m.logger.Errorw("scheduled job failed",
			"job", name,
			"count", count,
			"error", err,
			"duration", elapsed,
		)
	case count > 0:
		m.logger.Infow("scheduled job processed items",
			"job", name,
			"count", count,
			"duration", elapsed,
		)
	default:
		m.logger.Debugw("scheduled job found nothing to process",
			"job", name,
			"duration", elapsed,
		)
	}
	return count, err
}

// RunOnce executes every registered job once, in registration order,
// without starting the scheduler.
func (m *SchedulerManager) RunOnce(ctx context.Context) error {
	var errs []error
	for _, job := range m.jobs {
		jobCtx, cancel := context.WithTimeout(ctx, job.timeout)
		_, err := m.runBatch(jobCtx, job.name, job.run)
		cancel()
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Start starts the scheduler and all registered jobs.
func (m *SchedulerManager) Start() {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if m.started {
		return
	}

	m.scheduler.Start()
	m.started = true
	m.logger.Infow("scheduler manager started", "job_count", len(m.scheduler.Jobs()))
}

// Stop gracefully stops the scheduler.
// It waits for all running jobs to complete before returning.
func (m *SchedulerManager) Stop() error {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if !m.started {
		return nil
	}

	m.logger.Infow("stopping scheduler manager")

	err := m.scheduler.Shutdown()
	m.started = false

	if err != nil {
		m.logger.Errorw("scheduler manager shutdown with error", "error", err)
		return err
	}

	m.logger.Infow("scheduler manager stopped")
	return nil
}

// IsStarted returns whether the scheduler is running.
func (m *SchedulerManager) IsStarted() bool {
	m.startedMu.RLock()
	defer m.startedMu.RUnlock()
	return m.started
}

// Jobs returns all registered jobs for inspection.
func (m *SchedulerManager) Jobs() []gocron.Job {
	return m.scheduler.Jobs()
}
