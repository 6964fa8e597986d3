package routes

import (
	"github.com/gin-gonic/gin"

	agentHandlers "github.com/orris-inc/proxypanel/internal/interfaces/http/handlers/agent"
	"github.com/orris-inc/proxypanel/internal/interfaces/http/middleware"
)

// AgentRouteConfig holds dependencies for panel agent routes.
type AgentRouteConfig struct {
	TrafficHandler *agentHandlers.TrafficHandler
	AgentToken     *middleware.TokenMiddleware
}

// SetupAgentRoutes configures /api/v1/agent.
func SetupAgentRoutes(engine *gin.Engine, cfg *AgentRouteConfig) {
	agent := engine.Group("/api/v1/agent")
	agent.Use(cfg.AgentToken.RequireToken())
	{
		agent.POST("/traffic", cfg.TrafficHandler.ReportTraffic)
		agent.GET("/subscriptions/:id/quota", cfg.TrafficHandler.GetQuota)
	}
}
