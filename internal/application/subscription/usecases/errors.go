package usecases

import (
	"errors"

	"github.com/orris-inc/proxypanel/internal/domain/subscription"
	apperrors "github.com/orris-inc/proxypanel/internal/shared/errors"
)

// translateDomainError maps domain failures onto AppErrors. Anything
// unrecognised becomes an internal error carrying the original cause.
func translateDomainError(err error) error {
	if err == nil {
		return nil
	}
	if apperrors.IsAppError(err) {
		return err
	}

	var transition *subscription.InvalidTransitionError
	var limit *subscription.LimitExceededError
	switch {
	case errors.As(err, &transition):
		return apperrors.NewConflictError("operation not allowed in current status", err.Error()).WithCause(err)
	case errors.As(err, &limit):
		return apperrors.NewConflictError("feature limit exceeded", err.Error()).WithCause(err)
	case subscription.IsValidation(err):
		return apperrors.NewValidationError(err.Error()).WithCause(err)
	case errors.Is(err, subscription.ErrConcurrentModification):
		return apperrors.NewConflictError("subscription was modified concurrently, retry the request").WithCause(err)
	case errors.Is(err, subscription.ErrSubscriptionNotFound):
		return apperrors.NewNotFoundError("subscription not found").WithCause(err)
	}
	return apperrors.NewInternalError("subscription operation failed").WithCause(err)
}
