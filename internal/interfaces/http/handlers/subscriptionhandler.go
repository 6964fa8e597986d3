package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/proxypanel/internal/application/subscription/usecases"
	"github.com/orris-inc/proxypanel/internal/shared/errors"
	"github.com/orris-inc/proxypanel/internal/shared/logger"
	"github.com/orris-inc/proxypanel/internal/shared/utils"
)

// SubscriptionHandler serves subscription creation, deletion and queries.
type SubscriptionHandler struct {
	createUseCase       createSubscriptionUseCase
	getUseCase          getSubscriptionUseCase
	listUseCase         listSubscriptionsUseCase
	deleteUseCase       deleteSubscriptionUseCase
	usageSummaryUseCase getUsageSummaryUseCase
	usageRecordsUseCase listUsageRecordsUseCase
	logger              logger.Interface
}

// NewSubscriptionHandler creates a new subscription handler
func NewSubscriptionHandler(
	createUC createSubscriptionUseCase,
	getUC getSubscriptionUseCase,
	listUC listSubscriptionsUseCase,
	deleteUC deleteSubscriptionUseCase,
	usageSummaryUC getUsageSummaryUseCase,
	usageRecordsUC listUsageRecordsUseCase,
	logger logger.Interface,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		createUseCase:       createUC,
		getUseCase:          getUC,
		listUseCase:         listUC,
		deleteUseCase:       deleteUC,
		usageSummaryUseCase: usageSummaryUC,
		usageRecordsUseCase: usageRecordsUC,
		logger:              logger,
	}
}

type FeatureRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Kind        string `json:"kind" binding:"required,oneof=boolean numeric text structured"`
	Value       any    `json:"value"`
	Limit       *int64 `json:"limit" binding:"omitempty,min=0"`
}

func (r FeatureRequest) toSpec() usecases.FeatureSpec {
	return usecases.FeatureSpec{
		Name:        r.Name,
		Description: r.Description,
		Kind:        r.Kind,
		Value:       r.Value,
		Limit:       r.Limit,
	}
}

// CreateSubscriptionRequest creates a pending subscription, or an active or
// trial one when activate or trial_days is set.
type CreateSubscriptionRequest struct {
	UserID            string           `json:"user_id" binding:"required"`
	PanelID           string           `json:"panel_id"`
	Name              string           `json:"name"`
	Type              string           `json:"type" binding:"required"`
	DataLimit         *int64           `json:"data_limit" binding:"omitempty,min=0"`
	UnlimitedData     bool             `json:"unlimited_data"`
	ExpiryDays        int              `json:"expiry_days" binding:"min=0"`
	NoExpiry          bool             `json:"no_expiry"`
	AutoRenew         bool             `json:"auto_renew"`
	RenewalPeriodDays int              `json:"renewal_period_days" binding:"min=0"`
	Amount            int64            `json:"amount" binding:"min=0"`
	Metadata          map[string]any   `json:"metadata"`
	Features          []FeatureRequest `json:"features" binding:"dive"`
	Activate          bool             `json:"activate"`
	TrialDays         int              `json:"trial_days" binding:"min=0"`
}

func (h *SubscriptionHandler) CreateSubscription(c *gin.Context) {
	var req CreateSubscriptionRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}

	features := make([]usecases.FeatureSpec, 0, len(req.Features))
	for _, f := range req.Features {
		features = append(features, f.toSpec())
	}

	result, err := h.createUseCase.Execute(c.Request.Context(), usecases.CreateSubscriptionCommand{
		UserID:            req.UserID,
		PanelID:           req.PanelID,
		Name:              req.Name,
		Type:              req.Type,
		DataLimit:         req.DataLimit,
		UnlimitedData:     req.UnlimitedData,
		ExpiryDays:        req.ExpiryDays,
		NoExpiry:          req.NoExpiry,
		AutoRenew:         req.AutoRenew,
		RenewalPeriodDays: req.RenewalPeriodDays,
		Amount:            req.Amount,
		Metadata:          req.Metadata,
		Features:          features,
		Activate:          req.Activate,
		TrialDays:         req.TrialDays,
	})
	if err != nil {
		h.logger.Warnw("failed to create subscription", "error", err, "user_id", req.UserID)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Subscription created successfully")
}

func (h *SubscriptionHandler) GetSubscription(c *gin.Context) {
	subscriptionID, ok := subscriptionIDParam(c)
	if !ok {
		return
	}

	result, err := h.getUseCase.Execute(c.Request.Context(), usecases.GetSubscriptionQuery{SubscriptionID: subscriptionID})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// ListSubscriptions filters by user_id, panel_id, status and type.
func (h *SubscriptionHandler) ListSubscriptions(c *gin.Context) {
	p := utils.ParsePagination(c)

	result, err := h.listUseCase.Execute(c.Request.Context(), usecases.ListSubscriptionsQuery{
		UserID:    c.Query("user_id"),
		PanelID:   c.Query("panel_id"),
		Status:    c.Query("status"),
		Type:      c.Query("type"),
		Page:      p.Page,
		PageSize:  p.PageSize,
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Subscriptions, result.Total, p)
}

func (h *SubscriptionHandler) DeleteSubscription(c *gin.Context) {
	subscriptionID, ok := subscriptionIDParam(c)
	if !ok {
		return
	}

	if err := h.deleteUseCase.Execute(c.Request.Context(), usecases.DeleteSubscriptionCommand{SubscriptionID: subscriptionID}); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *SubscriptionHandler) GetUsageSummary(c *gin.Context) {
	subscriptionID, ok := subscriptionIDParam(c)
	if !ok {
		return
	}

	result, err := h.usageSummaryUseCase.Execute(c.Request.Context(), usecases.GetUsageSummaryQuery{SubscriptionID: subscriptionID})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// ListUsageRecords returns ledger records in [from, to), RFC 3339. The range
// defaults to the last 24 hours.
func (h *SubscriptionHandler) ListUsageRecords(c *gin.Context) {
	subscriptionID, ok := subscriptionIDParam(c)
	if !ok {
		return
	}

	to := time.Now().UTC()
	from := to.Add(-24 * time.Hour)
	var err error
	if v := c.Query("from"); v != "" {
		if from, err = time.Parse(time.RFC3339, v); err != nil {
			utils.ErrorResponseWithError(c, errors.NewValidationError("invalid from", "expected RFC 3339 timestamp"))
			return
		}
	}
	if v := c.Query("to"); v != "" {
		if to, err = time.Parse(time.RFC3339, v); err != nil {
			utils.ErrorResponseWithError(c, errors.NewValidationError("invalid to", "expected RFC 3339 timestamp"))
			return
		}
	}

	records, err := h.usageRecordsUseCase.Execute(c.Request.Context(), usecases.ListUsageRecordsQuery{
		SubscriptionID: subscriptionID,
		Kind:           c.Query("kind"),
		From:           from.UTC(),
		To:             to.UTC(),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", records)
}
