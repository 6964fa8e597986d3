package http

import (
	"fmt"

	subscriptionServices "github.com/orris-inc/proxypanel/internal/application/subscription/services"
	"github.com/orris-inc/proxypanel/internal/application/subscription/usecases"
	"github.com/orris-inc/proxypanel/internal/domain/shared/events"
	"github.com/orris-inc/proxypanel/internal/infrastructure/cache"
	"github.com/orris-inc/proxypanel/internal/infrastructure/metrics"
	"github.com/orris-inc/proxypanel/internal/infrastructure/pubsub"
	"github.com/orris-inc/proxypanel/internal/infrastructure/scheduler"
	"github.com/orris-inc/proxypanel/internal/interfaces/http/middleware"
)

const eventDispatcherBuffer = 1024

// ============================================================
// Section 1: Infrastructure - Repositories, Caches, Middlewares
// ============================================================

func (c *Container) initInfrastructure() {
	cfg := c.cfg
	log := c.log

	c.repos = newRepositories(c.db, c.clock, log)

	c.quotaCache = cache.NewRedisSubscriptionQuotaCache(c.redis, cfg.Subscription.QuotaCacheTTL, log)
	c.usageBuffer = cache.NewRedisUsageBuffer(c.redis, log)
	c.quotaCacheSyncService = subscriptionServices.NewQuotaCacheSyncService(c.repos.subscriptionRepo, c.quotaCache, log)

	c.agentTokenMiddleware = middleware.NewTokenMiddleware(middleware.AgentTokenHeader, cfg.Agent.Token, log)
	c.adminTokenMiddleware = middleware.NewTokenMiddleware(middleware.AdminTokenHeader, cfg.Admin.Token, log)

	if cfg.Agent.Token == "" {
		log.Warnw("agent.token is empty, agent API will reject every request")
	}
	if cfg.Admin.Token == "" {
		log.Warnw("admin.token is empty, subscription API will reject every request")
	}
}

// ============================================================
// Section 2: Events
// ============================================================

// initEvents starts the in-process dispatcher feeding metrics and creates the
// Redis bus that fans events out to other instances.
func (c *Container) initEvents() error {
	log := c.log

	c.eventDispatcher = events.NewInMemoryEventDispatcher(eventDispatcherBuffer, func(event events.DomainEvent, err error) {
		log.Warnw("event handler failed",
			"event_type", event.GetEventType(),
			"aggregate_id", event.GetAggregateID(),
			"error", err,
		)
	})
	if err := c.eventDispatcher.Subscribe(events.AllEvents, metrics.NewEventCounter()); err != nil {
		return fmt.Errorf("failed to subscribe event counter: %w", err)
	}
	if err := c.eventDispatcher.Start(); err != nil {
		return fmt.Errorf("failed to start event dispatcher: %w", err)
	}

	c.eventBus = pubsub.NewRedisSubscriptionEventBus(c.redis, c.cfg.Subscription.EventChannel, log)
	return nil
}

// ============================================================
// Section 3: Subscription - UseCases, Handlers
// ============================================================

func (c *Container) initSubscription() {
	cfg := c.cfg
	log := c.log
	repos := c.repos

	publisher := events.NewMultiPublisher(c.eventDispatcher, c.eventBus)
	mutator := usecases.NewSubscriptionMutator(repos.subscriptionRepo, repos.txManager, publisher, log)
	mutator.SetQuotaCacheManager(c.quotaCacheSyncService)

	deleteSubscription := usecases.NewDeleteSubscriptionUseCase(repos.subscriptionRepo, log)
	deleteSubscription.SetQuotaCacheManager(c.quotaCacheSyncService)

	var confirmer usecases.RenewalPaymentConfirmer
	if cfg.Subscription.AutoRenewTrust {
		confirmer = usecases.TrustedRenewalConfirmer{}
	} else {
		log.Infow("no renewal payment confirmer configured, auto-renewal will only log due subscriptions")
	}

	recordUsage := usecases.NewRecordUsageUseCase(mutator, log)

	c.ucs = &allUseCases{
		mutator: mutator,

		createSubscription: usecases.NewCreateSubscriptionUseCase(mutator, c.clock, log),
		getSubscription:    usecases.NewGetSubscriptionUseCase(repos.subscriptionRepo, log),
		listSubscriptions:  usecases.NewListSubscriptionsUseCase(repos.subscriptionRepo, log),
		deleteSubscription: deleteSubscription,
		countByStatus:      usecases.NewCountSubscriptionsByStatusUseCase(repos.subscriptionRepo, log),

		activateSubscription: usecases.NewActivateSubscriptionUseCase(mutator, log),
		suspendSubscription:  usecases.NewSuspendSubscriptionUseCase(mutator, log),
		resumeSubscription:   usecases.NewResumeSubscriptionUseCase(mutator, log),
		cancelSubscription:   usecases.NewCancelSubscriptionUseCase(mutator, log),
		expireSubscription:   usecases.NewExpireSubscriptionUseCase(mutator, log),
		renewSubscription:    usecases.NewRenewSubscriptionUseCase(mutator, log),
		startTrial:           usecases.NewStartTrialUseCase(mutator, log),
		convertTrial:         usecases.NewConvertTrialUseCase(mutator, log),
		pauseSubscription:    usecases.NewPauseSubscriptionUseCase(mutator, log),
		unpauseSubscription:  usecases.NewUnpauseSubscriptionUseCase(mutator, log),

		recordUsage:     recordUsage,
		setDataUsage:    usecases.NewSetDataUsageUseCase(mutator, log),
		resetDataUsage:  usecases.NewResetDataUsageUseCase(mutator, log),
		updateDataLimit: usecases.NewUpdateDataLimitUseCase(mutator, log),
		setAutoRenew:    usecases.NewSetAutoRenewUseCase(mutator, log),
		manageFeature:   usecases.NewManageFeatureUseCase(mutator, log),
		usageSummary:    usecases.NewGetUsageSummaryUseCase(repos.subscriptionRepo, repos.usageRecordRepo, c.clock, log),
		usageRecords:    usecases.NewListUsageRecordsUseCase(repos.usageRecordRepo, log),

		expireSubscriptions: usecases.NewExpireSubscriptionsUseCase(
			repos.subscriptionRepo, mutator, c.clock,
			cfg.Subscription.BatchSize, cfg.Subscription.AutoRenewGrace, log,
		),
		processAutoRenewals: usecases.NewProcessAutoRenewalsUseCase(
			repos.subscriptionRepo, mutator, confirmer, c.clock,
			cfg.Subscription.BatchSize, log,
		),
		flushTrafficUsage: usecases.NewFlushTrafficUsageUseCase(c.usageBuffer, recordUsage, log),
	}

	c.initHandlers()
}

// ============================================================
// Section 4: Scheduler
// ============================================================

func (c *Container) initScheduler() error {
	cfg := c.cfg.Subscription

	manager, err := scheduler.NewSchedulerManager(c.log)
	if err != nil {
		return err
	}

	if err := manager.RegisterExpiryJob(c.ucs.expireSubscriptions, cfg.ExpiryCheckInterval); err != nil {
		return err
	}
	if err := manager.RegisterAutoRenewJob(c.ucs.processAutoRenewals, cfg.AutoRenewInterval); err != nil {
		return err
	}
	if err := manager.RegisterUsageFlushJob(c.ucs.flushTrafficUsage, cfg.UsageFlushInterval); err != nil {
		return err
	}
	if err := manager.RegisterStatusSnapshotJob(c.ucs.countByStatus); err != nil {
		return err
	}

	c.schedulerManager = manager
	return nil
}
