package http

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	subscriptionServices "github.com/orris-inc/proxypanel/internal/application/subscription/services"
	"github.com/orris-inc/proxypanel/internal/domain/shared/events"
	"github.com/orris-inc/proxypanel/internal/domain/subscription"
	"github.com/orris-inc/proxypanel/internal/infrastructure/cache"
	"github.com/orris-inc/proxypanel/internal/infrastructure/config"
	"github.com/orris-inc/proxypanel/internal/infrastructure/pubsub"
	"github.com/orris-inc/proxypanel/internal/infrastructure/scheduler"
	"github.com/orris-inc/proxypanel/internal/interfaces/http/middleware"
	"github.com/orris-inc/proxypanel/internal/shared/logger"
)

// Container holds infrastructure components, repositories, use cases,
// handlers and background jobs, and owns their shutdown order.
type Container struct {
	// Core infrastructure
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client
	clock  subscription.Clock

	repos *repositories
	ucs   *allUseCases
	hdlrs *allHandlers

	// Middlewares
	agentTokenMiddleware *middleware.TokenMiddleware
	adminTokenMiddleware *middleware.TokenMiddleware

	// Caches
	quotaCache            *cache.RedisSubscriptionQuotaCache
	usageBuffer           *cache.RedisUsageBuffer
	quotaCacheSyncService *subscriptionServices.QuotaCacheSyncService

	// Events
	eventDispatcher *events.InMemoryEventDispatcher
	eventBus        *pubsub.RedisSubscriptionEventBus

	schedulerManager *scheduler.SchedulerManager
}

// NewContainer wires every component. The caller owns db and redisClient.
func NewContainer(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log logger.Interface) (*Container, error) {
	c := &Container{
		engine: gin.New(),
		db:     db,
		cfg:    cfg,
		log:    log,
		redis:  redisClient,
		clock:  subscription.SystemClock{},
	}

	// Section 1: Infrastructure - Repositories, Caches, Middlewares
	c.initInfrastructure()

	// Section 2: Events - in-process dispatcher and Redis fan-out
	if err := c.initEvents(); err != nil {
		return nil, err
	}

	// Section 3: Subscription - UseCases and Handlers
	c.initSubscription()

	// Section 4: Scheduler jobs
	if err := c.initScheduler(); err != nil {
		c.stopEvents()
		return nil, err
	}

	return c, nil
}

// GetEngine returns the Gin engine
func (c *Container) GetEngine() *gin.Engine {
	return c.engine
}

// Scheduler returns the background job manager.
func (c *Container) Scheduler() *scheduler.SchedulerManager {
	return c.schedulerManager
}

// EventBus returns the Redis subscription event bus.
func (c *Container) EventBus() *pubsub.RedisSubscriptionEventBus {
	return c.eventBus
}

// Shutdown stops background jobs, flushes buffered agent traffic and drains
// the event dispatcher.
func (c *Container) Shutdown(ctx context.Context) error {
	var firstErr error

	if err := c.schedulerManager.Stop(); err != nil {
		c.log.Errorw("failed to stop scheduler", "error", err)
		firstErr = err
	}

	// Final flush of agent traffic from Redis into the ledger
	if n, err := c.ucs.flushTrafficUsage.Execute(ctx); err != nil {
		c.log.Errorw("failed to flush traffic usage on shutdown", "error", err)
		if firstErr == nil {
			firstErr = fmt.Errorf("final traffic flush: %w", err)
		}
	} else if n > 0 {
		c.log.Infow("flushed traffic usage on shutdown", "subscriptions", n)
	}

	c.stopEvents()
	return firstErr
}

func (c *Container) stopEvents() {
	if c.eventDispatcher == nil {
		return
	}
	if err := c.eventDispatcher.Stop(); err != nil {
		c.log.Warnw("failed to stop event dispatcher", "error", err)
	}
}
