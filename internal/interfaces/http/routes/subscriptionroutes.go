// Package routes provides HTTP route configurations.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/orris-inc/proxypanel/internal/interfaces/http/handlers"
	"github.com/orris-inc/proxypanel/internal/interfaces/http/middleware"
)

// SubscriptionRouteConfig contains dependencies for the subscription management API.
type SubscriptionRouteConfig struct {
	SubscriptionHandler *handlers.SubscriptionHandler
	LifecycleHandler    *handlers.LifecycleHandler
	UsageHandler        *handlers.UsageHandler
	AdminToken          *middleware.TokenMiddleware
}

// SetupSubscriptionRoutes configures /api/v1/subscriptions.
// :id is a subscription SID (sub_xxx format)
func SetupSubscriptionRoutes(engine *gin.Engine, cfg *SubscriptionRouteConfig) {
	subscriptions := engine.Group("/api/v1/subscriptions")
	subscriptions.Use(cfg.AdminToken.RequireToken())
	{
		subscriptions.POST("", cfg.SubscriptionHandler.CreateSubscription)
		subscriptions.GET("", cfg.SubscriptionHandler.ListSubscriptions)

		sub := subscriptions.Group("/:id")
		{
			sub.GET("", cfg.SubscriptionHandler.GetSubscription)
			sub.DELETE("", cfg.SubscriptionHandler.DeleteSubscription)
			sub.GET("/usage-summary", cfg.SubscriptionHandler.GetUsageSummary)
			sub.GET("/usage-records", cfg.SubscriptionHandler.ListUsageRecords)

			sub.POST("/activate", cfg.LifecycleHandler.Activate)
			sub.POST("/suspend", cfg.LifecycleHandler.Suspend)
			sub.POST("/resume", cfg.LifecycleHandler.Resume)
			sub.POST("/cancel", cfg.LifecycleHandler.Cancel)
			sub.POST("/expire", cfg.LifecycleHandler.Expire)
			sub.POST("/renew", cfg.LifecycleHandler.Renew)
			sub.POST("/trial", cfg.LifecycleHandler.StartTrial)
			sub.POST("/trial/convert", cfg.LifecycleHandler.ConvertTrial)
			sub.POST("/pause", cfg.LifecycleHandler.Pause)
			sub.POST("/unpause", cfg.LifecycleHandler.Unpause)

			sub.POST("/usage", cfg.UsageHandler.RecordUsage)
			sub.PUT("/usage", cfg.UsageHandler.SetDataUsage)
			sub.POST("/usage/reset", cfg.UsageHandler.ResetDataUsage)
			sub.PUT("/data-limit", cfg.UsageHandler.UpdateDataLimit)
			sub.PUT("/auto-renew", cfg.UsageHandler.SetAutoRenew)

			sub.POST("/features", cfg.UsageHandler.AddFeature)
			sub.DELETE("/features/:name", cfg.UsageHandler.RemoveFeature)
			sub.POST("/features/:name/:action", cfg.UsageHandler.FeatureAction)
		}
	}
}
