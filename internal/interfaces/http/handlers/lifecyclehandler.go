package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/proxypanel/internal/application/subscription/usecases"
	"github.com/orris-inc/proxypanel/internal/shared/logger"
	"github.com/orris-inc/proxypanel/internal/shared/utils"
)

// LifecycleUseCases groups the status transition use cases.
type LifecycleUseCases struct {
	Activate     subscriptionCommand[usecases.ActivateSubscriptionCommand]
	Suspend      subscriptionCommand[usecases.SuspendSubscriptionCommand]
	Resume       subscriptionCommand[usecases.ResumeSubscriptionCommand]
	Cancel       subscriptionCommand[usecases.CancelSubscriptionCommand]
	Expire       subscriptionCommand[usecases.ExpireSubscriptionCommand]
	Renew        subscriptionCommand[usecases.RenewSubscriptionCommand]
	StartTrial   subscriptionCommand[usecases.StartTrialCommand]
	ConvertTrial subscriptionCommand[usecases.ConvertTrialCommand]
	Pause        subscriptionCommand[usecases.PauseSubscriptionCommand]
	Unpause      subscriptionCommand[usecases.UnpauseSubscriptionCommand]
}

// LifecycleHandler moves subscriptions between statuses.
type LifecycleHandler struct {
	ucs    LifecycleUseCases
	logger logger.Interface
}

func NewLifecycleHandler(ucs LifecycleUseCases, logger logger.Interface) *LifecycleHandler {
	return &LifecycleHandler{
		ucs:    ucs,
		logger: logger,
	}
}

type ReasonRequest struct {
	Reason string `json:"reason" binding:"max=255"`
}

type RenewRequest struct {
	Days             int    `json:"days" binding:"required,min=1"`
	NewDataLimit     *int64 `json:"new_data_limit" binding:"omitempty,min=0"`
	PaymentReference string `json:"payment_reference" binding:"required"`
}

type StartTrialRequest struct {
	Days int `json:"days" binding:"required,min=1"`
}

func (h *LifecycleHandler) Activate(c *gin.Context) {
	runCommand(c, h.logger, "activate", h.ucs.Activate, func(id string) usecases.ActivateSubscriptionCommand {
		return usecases.ActivateSubscriptionCommand{SubscriptionID: id}
	})
}

func (h *LifecycleHandler) Suspend(c *gin.Context) {
	var req ReasonRequest
	if !bindOptionalJSON(c, h.logger, &req) {
		return
	}
	runCommand(c, h.logger, "suspend", h.ucs.Suspend, func(id string) usecases.SuspendSubscriptionCommand {
		return usecases.SuspendSubscriptionCommand{SubscriptionID: id, Reason: req.Reason}
	})
}

func (h *LifecycleHandler) Resume(c *gin.Context) {
	runCommand(c, h.logger, "resume", h.ucs.Resume, func(id string) usecases.ResumeSubscriptionCommand {
		return usecases.ResumeSubscriptionCommand{SubscriptionID: id}
	})
}

func (h *LifecycleHandler) Cancel(c *gin.Context) {
	var req ReasonRequest
	if !bindOptionalJSON(c, h.logger, &req) {
		return
	}
	runCommand(c, h.logger, "cancel", h.ucs.Cancel, func(id string) usecases.CancelSubscriptionCommand {
		return usecases.CancelSubscriptionCommand{SubscriptionID: id, Reason: req.Reason}
	})
}

func (h *LifecycleHandler) Expire(c *gin.Context) {
	runCommand(c, h.logger, "expire", h.ucs.Expire, func(id string) usecases.ExpireSubscriptionCommand {
		return usecases.ExpireSubscriptionCommand{SubscriptionID: id}
	})
}

func (h *LifecycleHandler) Renew(c *gin.Context) {
	var req RenewRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	runCommand(c, h.logger, "renew", h.ucs.Renew, func(id string) usecases.RenewSubscriptionCommand {
		return usecases.RenewSubscriptionCommand{
			SubscriptionID:   id,
			Days:             req.Days,
			NewDataLimit:     req.NewDataLimit,
			PaymentReference: req.PaymentReference,
		}
	})
}

func (h *LifecycleHandler) StartTrial(c *gin.Context) {
	var req StartTrialRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	runCommand(c, h.logger, "start trial", h.ucs.StartTrial, func(id string) usecases.StartTrialCommand {
		return usecases.StartTrialCommand{SubscriptionID: id, Days: req.Days}
	})
}

func (h *LifecycleHandler) ConvertTrial(c *gin.Context) {
	runCommand(c, h.logger, "convert trial", h.ucs.ConvertTrial, func(id string) usecases.ConvertTrialCommand {
		return usecases.ConvertTrialCommand{SubscriptionID: id}
	})
}

func (h *LifecycleHandler) Pause(c *gin.Context) {
	var req ReasonRequest
	if !bindOptionalJSON(c, h.logger, &req) {
		return
	}
	runCommand(c, h.logger, "pause", h.ucs.Pause, func(id string) usecases.PauseSubscriptionCommand {
		return usecases.PauseSubscriptionCommand{SubscriptionID: id, Reason: req.Reason}
	})
}

func (h *LifecycleHandler) Unpause(c *gin.Context) {
	runCommand(c, h.logger, "unpause", h.ucs.Unpause, func(id string) usecases.UnpauseSubscriptionCommand {
		return usecases.UnpauseSubscriptionCommand{SubscriptionID: id}
	})
}

// runCommand executes uc against the :id subscription and writes the
// resulting state.
func runCommand[C any](
	c *gin.Context,
	log logger.Interface,
	operation string,
	uc subscriptionCommand[C],
	build func(subscriptionID string) C,
) {
	subscriptionID, ok := subscriptionIDParam(c)
	if !ok {
		return
	}

	result, err := uc.Execute(c.Request.Context(), build(subscriptionID))
	if err != nil {
		log.Warnw("subscription command failed",
			"operation", operation,
			"subscription_id", subscriptionID,
			"error", err,
		)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// bindOptionalJSON binds the body when one was sent.
func bindOptionalJSON(c *gin.Context, log logger.Interface, req any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	return bindJSON(c, log, req)
}
