// Package agent provides HTTP handlers called by panel agents.
package agent

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/proxypanel/internal/infrastructure/cache"
	"github.com/orris-inc/proxypanel/internal/shared/errors"
	"github.com/orris-inc/proxypanel/internal/shared/id"
	"github.com/orris-inc/proxypanel/internal/shared/logger"
	"github.com/orris-inc/proxypanel/internal/shared/utils"
)

// maxTrafficItems bounds one report.
const maxTrafficItems = 5000

// TrafficBuffer accumulates reported bytes until the flush job drains them.
type TrafficBuffer interface {
	AddBatch(ctx context.Context, deltas map[string]int64) error
}

// QuotaReader returns the enforcement view of a subscription, nil when unknown.
type QuotaReader interface {
	GetQuota(ctx context.Context, subscriptionID string) (*cache.CachedQuota, error)
}

// TrafficHandler receives traffic reports and serves quota lookups.
type TrafficHandler struct {
	buffer TrafficBuffer
	quotas QuotaReader
	logger logger.Interface
}

// NewTrafficHandler creates a new TrafficHandler.
func NewTrafficHandler(buffer TrafficBuffer, quotas QuotaReader, log logger.Interface) *TrafficHandler {
	return &TrafficHandler{
		buffer: buffer,
		quotas: quotas,
		logger: log,
	}
}

type TrafficItem struct {
	SubscriptionID string `json:"subscription_id" binding:"required"`
	Upload         int64  `json:"upload" binding:"min=0"`
	Download       int64  `json:"download" binding:"min=0"`
}

type ReportTrafficRequest struct {
	Items []TrafficItem `json:"items" binding:"required,min=1,dive"`
}

type ReportTrafficResponse struct {
	Accepted int `json:"accepted"`
	Ignored  int `json:"ignored"`
}

type QuotaResponse struct {
	SubscriptionID string     `json:"subscription_id"`
	Status         string     `json:"status"`
	Suspended      bool       `json:"suspended"`
	Unlimited      bool       `json:"unlimited"`
	Limit          int64      `json:"limit"`
	Used           int64      `json:"used"`
	Remaining      int64      `json:"remaining"`
	ExpiresAt      *time.Time `json:"expires_at"`
}

// ReportTraffic buffers per-subscription byte counts.
// POST /api/v1/agent/traffic
func (h *TrafficHandler) ReportTraffic(c *gin.Context) {
	var req ReportTrafficRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid traffic report", "error", err, "ip", c.ClientIP())
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}
	if len(req.Items) > maxTrafficItems {
		utils.ErrorResponseWithError(c, errors.NewValidationError("too many traffic items"))
		return
	}

	deltas := make(map[string]int64, len(req.Items))
	ignored := 0
	for _, item := range req.Items {
		if id.ValidateSubscriptionID(item.SubscriptionID) != nil {
			ignored++
			continue
		}
		total := item.Upload + item.Download
		if total <= 0 {
			ignored++
			continue
		}
		deltas[item.SubscriptionID] += total
	}

	if len(deltas) > 0 {
		if err := h.buffer.AddBatch(c.Request.Context(), deltas); err != nil {
			h.logger.Errorw("failed to buffer traffic report",
				"subscriptions", len(deltas),
				"error", err,
			)
			utils.ErrorResponseWithError(c, errors.NewInternalError("failed to record traffic"))
			return
		}
	}

	h.logger.Debugw("traffic report buffered",
		"accepted", len(req.Items)-ignored,
		"ignored", ignored,
		"ip", c.ClientIP(),
	)

	utils.SuccessResponse(c, http.StatusAccepted, "", ReportTrafficResponse{
		Accepted: len(req.Items) - ignored,
		Ignored:  ignored,
	})
}

// GetQuota returns whether the subscription may carry traffic.
// GET /api/v1/agent/subscriptions/:id/quota
func (h *TrafficHandler) GetQuota(c *gin.Context) {
	subscriptionID := c.Param("id")
	if err := id.ValidateSubscriptionID(subscriptionID); err != nil {
		utils.ErrorResponseWithError(c, errors.NewBadRequestError("invalid subscription ID format, expected sub_xxxxx"))
		return
	}

	quota, err := h.quotas.GetQuota(c.Request.Context(), subscriptionID)
	if err != nil {
		h.logger.Errorw("failed to load subscription quota",
			"subscription_id", subscriptionID,
			"error", err,
		)
		utils.ErrorResponseWithError(c, errors.NewInternalError("failed to load quota"))
		return
	}
	if quota == nil {
		utils.ErrorResponseWithError(c, errors.NewNotFoundError("subscription not found"))
		return
	}

	resp := QuotaResponse{
		SubscriptionID: subscriptionID,
		Status:         quota.Status,
		Suspended:      quota.Suspended,
		Unlimited:      quota.Unlimited(),
		Limit:          quota.Limit,
		Used:           quota.Used,
		Remaining:      -1,
	}
	if !quota.Unlimited() {
		resp.Remaining = max(quota.Limit-quota.Used, 0)
	}
	if !quota.ExpiresAt.IsZero() {
		expiresAt := quota.ExpiresAt
		resp.ExpiresAt = &expiresAt
	}

	utils.SuccessResponse(c, http.StatusOK, "", resp)
}
