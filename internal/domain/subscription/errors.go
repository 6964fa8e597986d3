package subscription

import (
	"errors"
	"fmt"

	vo "github.com/orris-inc/proxypanel/internal/domain/subscription/valueobjects"
)

var (
	ErrSubscriptionNotFound    = errors.New("subscription not found")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrValidation              = errors.New("validation failed")
	ErrLimitExceeded           = errors.New("limit exceeded")
	ErrConcurrentModification  = errors.New("subscription was modified concurrently")
)

// InvalidTransitionError reports an operation that is not legal from the
// current status.
type InvalidTransitionError struct {
	Operation vo.Operation
	From      vo.SubscriptionStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: cannot %s subscription with status %s", ErrInvalidStatusTransition, e.Operation, e.From)
}

func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidStatusTransition
}

// ValidationError reports malformed input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrValidation, e.Message)
	}
	return fmt.Sprintf("%s: %s %s", ErrValidation, e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// LimitExceededError reports a numeric feature change that would exceed its
// ceiling. The feature value is left unchanged.
type LimitExceededError struct {
	Feature   string
	Current   int64
	Requested int64
	Limit     int64
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("%s: %s current=%d, requested=%d, max=%d", ErrLimitExceeded, e.Feature, e.Current, e.Requested, e.Limit)
}

func (e *LimitExceededError) Is(target error) bool {
	return target == ErrLimitExceeded
}

func errInvalidTransition(operation vo.Operation, from vo.SubscriptionStatus) error {
	return &InvalidTransitionError{Operation: operation, From: from}
}

func errValidation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsInvalidTransition reports whether err is an InvalidTransitionError.
func IsInvalidTransition(err error) bool {
	return errors.Is(err, ErrInvalidStatusTransition)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsLimitExceeded reports whether err is a LimitExceededError.
func IsLimitExceeded(err error) bool {
	return errors.Is(err, ErrLimitExceeded)
}
