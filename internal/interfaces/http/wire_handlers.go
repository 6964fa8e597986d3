package http

import (
	"github.com/orris-inc/proxypanel/internal/interfaces/http/handlers"
	agentHandlers "github.com/orris-inc/proxypanel/internal/interfaces/http/handlers/agent"
)

type allHandlers struct {
	healthHandler       *handlers.HealthHandler
	subscriptionHandler *handlers.SubscriptionHandler
	lifecycleHandler    *handlers.LifecycleHandler
	usageHandler        *handlers.UsageHandler
	trafficHandler      *agentHandlers.TrafficHandler
}

func (c *Container) initHandlers() {
	ucs := c.ucs
	log := c.log

	c.hdlrs = &allHandlers{
		healthHandler: handlers.NewHealthHandler(c.db, c.redis, log),
		subscriptionHandler: handlers.NewSubscriptionHandler(
			ucs.createSubscription,
			ucs.getSubscription,
			ucs.listSubscriptions,
			ucs.deleteSubscription,
			ucs.usageSummary,
			ucs.usageRecords,
			log,
		),
		lifecycleHandler: handlers.NewLifecycleHandler(handlers.LifecycleUseCases{
			Activate:     ucs.activateSubscription,
			Suspend:      ucs.suspendSubscription,
			Resume:       ucs.resumeSubscription,
			Cancel:       ucs.cancelSubscription,
			Expire:       ucs.expireSubscription,
			Renew:        ucs.renewSubscription,
			StartTrial:   ucs.startTrial,
			ConvertTrial: ucs.convertTrial,
			Pause:        ucs.pauseSubscription,
			Unpause:      ucs.unpauseSubscription,
		}, log),
		usageHandler: handlers.NewUsageHandler(handlers.UsageUseCases{
			RecordUsage:     ucs.recordUsage,
			SetDataUsage:    ucs.setDataUsage,
			ResetDataUsage:  ucs.resetDataUsage,
			UpdateDataLimit: ucs.updateDataLimit,
			SetAutoRenew:    ucs.setAutoRenew,
			ManageFeature:   ucs.manageFeature,
		}, log),
		trafficHandler: agentHandlers.NewTrafficHandler(c.usageBuffer, c.quotaCacheSyncService, log),
	}
}
