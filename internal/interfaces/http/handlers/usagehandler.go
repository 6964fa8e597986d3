package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/proxypanel/internal/application/subscription/usecases"
	"github.com/orris-inc/proxypanel/internal/shared/logger"
)

// UsageUseCases groups the usage, limit, renewal and feature use cases.
type UsageUseCases struct {
	RecordUsage     subscriptionCommand[usecases.RecordUsageCommand]
	SetDataUsage    subscriptionCommand[usecases.SetDataUsageCommand]
	ResetDataUsage  subscriptionCommand[usecases.ResetDataUsageCommand]
	UpdateDataLimit subscriptionCommand[usecases.UpdateDataLimitCommand]
	SetAutoRenew    subscriptionCommand[usecases.SetAutoRenewCommand]
	ManageFeature   subscriptionCommand[usecases.ManageFeatureCommand]
}

// UsageHandler records usage and edits quotas and features.
type UsageHandler struct {
	ucs    UsageUseCases
	logger logger.Interface
}

func NewUsageHandler(ucs UsageUseCases, logger logger.Interface) *UsageHandler {
	return &UsageHandler{
		ucs:    ucs,
		logger: logger,
	}
}

type RecordUsageRequest struct {
	Kind       string         `json:"kind" binding:"required,oneof=data time feature"`
	Amount     int64          `json:"amount" binding:"min=0"`
	Feature    string         `json:"feature" binding:"required_if=Kind feature"`
	SourceID   string         `json:"source_id"`
	RecordedAt *time.Time     `json:"recorded_at"`
	Metadata   map[string]any `json:"metadata"`
}

type SetDataUsageRequest struct {
	Bytes *int64 `json:"bytes" binding:"required,min=0"`
}

// UpdateDataLimitRequest sets the cap. A null limit removes it.
type UpdateDataLimitRequest struct {
	Limit *int64 `json:"limit" binding:"omitempty,min=0"`
}

type SetAutoRenewRequest struct {
	Enabled    *bool `json:"enabled" binding:"required"`
	PeriodDays int   `json:"period_days" binding:"min=0"`
}

type FeatureActionRequest struct {
	Value  any    `json:"value"`
	Limit  *int64 `json:"limit" binding:"omitempty,min=0"`
	Amount int64  `json:"amount" binding:"min=0"`
}

func (h *UsageHandler) RecordUsage(c *gin.Context) {
	var req RecordUsageRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	runCommand(c, h.logger, "record usage", h.ucs.RecordUsage, func(id string) usecases.RecordUsageCommand {
		cmd := usecases.RecordUsageCommand{
			SubscriptionID: id,
			Kind:           req.Kind,
			Amount:         req.Amount,
			Feature:        req.Feature,
			Source:         usecases.UsageSourceAPI,
			SourceID:       req.SourceID,
			Metadata:       req.Metadata,
		}
		if req.RecordedAt != nil {
			cmd.RecordedAt = req.RecordedAt.UTC()
		}
		return cmd
	})
}

func (h *UsageHandler) SetDataUsage(c *gin.Context) {
	var req SetDataUsageRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	runCommand(c, h.logger, "set data usage", h.ucs.SetDataUsage, func(id string) usecases.SetDataUsageCommand {
		return usecases.SetDataUsageCommand{SubscriptionID: id, Bytes: *req.Bytes}
	})
}

func (h *UsageHandler) ResetDataUsage(c *gin.Context) {
	runCommand(c, h.logger, "reset data usage", h.ucs.ResetDataUsage, func(id string) usecases.ResetDataUsageCommand {
		return usecases.ResetDataUsageCommand{SubscriptionID: id}
	})
}

func (h *UsageHandler) UpdateDataLimit(c *gin.Context) {
	var req UpdateDataLimitRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	runCommand(c, h.logger, "update data limit", h.ucs.UpdateDataLimit, func(id string) usecases.UpdateDataLimitCommand {
		return usecases.UpdateDataLimitCommand{SubscriptionID: id, Limit: req.Limit}
	})
}

func (h *UsageHandler) SetAutoRenew(c *gin.Context) {
	var req SetAutoRenewRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	runCommand(c, h.logger, "set auto-renew", h.ucs.SetAutoRenew, func(id string) usecases.SetAutoRenewCommand {
		return usecases.SetAutoRenewCommand{SubscriptionID: id, Enabled: *req.Enabled, PeriodDays: req.PeriodDays}
	})
}

// AddFeature attaches a new feature.
func (h *UsageHandler) AddFeature(c *gin.Context) {
	var req FeatureRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	runCommand(c, h.logger, "add feature", h.ucs.ManageFeature, func(id string) usecases.ManageFeatureCommand {
		return usecases.ManageFeatureCommand{
			SubscriptionID: id,
			Name:           req.Name,
			Action:         usecases.FeatureActionAdd,
			Spec:           req.toSpec(),
		}
	})
}

func (h *UsageHandler) RemoveFeature(c *gin.Context) {
	name := c.Param("name")
	runCommand(c, h.logger, "remove feature", h.ucs.ManageFeature, func(id string) usecases.ManageFeatureCommand {
		return usecases.ManageFeatureCommand{SubscriptionID: id, Name: name, Action: usecases.FeatureActionRemove}
	})
}

// FeatureAction applies :action (update-value, update-limit, enable, disable,
// increment, decrement or reset) to the :name feature.
func (h *UsageHandler) FeatureAction(c *gin.Context) {
	var req FeatureActionRequest
	if !bindOptionalJSON(c, h.logger, &req) {
		return
	}
	name := c.Param("name")
	action := usecases.FeatureAction(c.Param("action"))
	runCommand(c, h.logger, "feature "+string(action), h.ucs.ManageFeature, func(id string) usecases.ManageFeatureCommand {
		return usecases.ManageFeatureCommand{
			SubscriptionID: id,
			Name:           name,
			Action:         action,
			Value:          req.Value,
			Limit:          req.Limit,
			Amount:         req.Amount,
		}
	})
}
