package http

import (
	"github.com/gin-gonic/gin"

	"github.com/orris-inc/proxypanel/internal/infrastructure/metrics"
	"github.com/orris-inc/proxypanel/internal/interfaces/http/middleware"
	"github.com/orris-inc/proxypanel/internal/interfaces/http/routes"
)

// SetupRoutes configures all HTTP routes
func (c *Container) SetupRoutes() {
	c.engine.Use(middleware.RequestID())
	c.engine.Use(middleware.CustomLogger(c.log))
	c.engine.Use(middleware.Recovery(c.log))
	c.engine.Use(middleware.CORS(c.cfg.Server.AllowedOrigins))
	c.engine.Use(middleware.SecurityHeaders())

	c.engine.GET("/health", c.hdlrs.healthHandler.Health)
	c.engine.GET("/metrics", gin.WrapH(metrics.Handler()))

	routes.SetupSubscriptionRoutes(c.engine, &routes.SubscriptionRouteConfig{
		SubscriptionHandler: c.hdlrs.subscriptionHandler,
		LifecycleHandler:    c.hdlrs.lifecycleHandler,
		UsageHandler:        c.hdlrs.usageHandler,
		AdminToken:          c.adminTokenMiddleware,
	})

	routes.SetupAgentRoutes(c.engine, &routes.AgentRouteConfig{
		TrafficHandler: c.hdlrs.trafficHandler,
		AgentToken:     c.agentTokenMiddleware,
	})
}
