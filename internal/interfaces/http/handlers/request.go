package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/proxypanel/internal/application/subscription/dto"
	"github.com/orris-inc/proxypanel/internal/shared/errors"
	"github.com/orris-inc/proxypanel/internal/shared/id"
	"github.com/orris-inc/proxypanel/internal/shared/logger"
	"github.com/orris-inc/proxypanel/internal/shared/utils"
)

// subscriptionCommand is implemented by every use case that mutates one
// subscription and returns its new state.
type subscriptionCommand[C any] interface {
	Execute(ctx context.Context, cmd C) (*dto.SubscriptionDTO, error)
}

// bindJSON decodes the body into req, answering 400 on failure.
func bindJSON(c *gin.Context, log logger.Interface, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		log.Warnw("invalid request body", "path", c.FullPath(), "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body", err.Error()))
		return false
	}
	return true
}

// subscriptionIDParam reads and validates the :id path parameter.
func subscriptionIDParam(c *gin.Context) (string, bool) {
	subscriptionID := c.Param("id")
	if err := id.ValidateSubscriptionID(subscriptionID); err != nil {
		utils.ErrorResponseWithError(c, errors.NewBadRequestError("invalid subscription ID format, expected sub_xxxxx"))
		return "", false
	}
	return subscriptionID, true
}
