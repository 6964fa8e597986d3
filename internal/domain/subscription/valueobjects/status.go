package valueobjects

import "fmt"

// SubscriptionStatus is the lifecycle state of a subscription.
type SubscriptionStatus string

const (
	StatusPending     SubscriptionStatus = "pending"
	StatusActive      SubscriptionStatus = "active"
	StatusSuspended   SubscriptionStatus = "suspended"
	StatusCancelled   SubscriptionStatus = "cancelled"
	StatusExpired     SubscriptionStatus = "expired"
	StatusTrial       SubscriptionStatus = "trial"
	StatusGracePeriod SubscriptionStatus = "grace_period"
	StatusPaused      SubscriptionStatus = "paused"
)

// ValidStatuses lists every status a persisted subscription may carry.
var ValidStatuses = map[SubscriptionStatus]bool{
	StatusPending:     true,
	StatusActive:      true,
	StatusSuspended:   true,
	StatusCancelled:   true,
	StatusExpired:     true,
	StatusTrial:       true,
	StatusGracePeriod: true,
	StatusPaused:      true,
}

// ParseSubscriptionStatus converts a persisted string into a status.
func ParseSubscriptionStatus(s string) (SubscriptionStatus, error) {
	status := SubscriptionStatus(s)
	if !ValidStatuses[status] {
		return "", fmt.Errorf("invalid subscription status: %s", s)
	}
	return status, nil
}

func (s SubscriptionStatus) String() string {
	return string(s)
}

// IsValid reports whether s is a known status.
func (s SubscriptionStatus) IsValid() bool {
	return ValidStatuses[s]
}

// IsTerminal reports whether no further status change is possible.
func (s SubscriptionStatus) IsTerminal() bool {
	return s == StatusCancelled
}

func (s SubscriptionStatus) IsPending() bool {
	return s == StatusPending
}

func (s SubscriptionStatus) IsActive() bool {
	return s == StatusActive
}

func (s SubscriptionStatus) IsSuspended() bool {
	return s == StatusSuspended
}

func (s SubscriptionStatus) IsCancelled() bool {
	return s == StatusCancelled
}

func (s SubscriptionStatus) IsExpired() bool {
	return s == StatusExpired
}

func (s SubscriptionStatus) IsTrial() bool {
	return s == StatusTrial
}

func (s SubscriptionStatus) IsPaused() bool {
	return s == StatusPaused
}

// ReactivatesOnRenewal reports whether a renewal puts the subscription back
// into the active state.
func (s SubscriptionStatus) ReactivatesOnRenewal() bool {
	return s == StatusExpired || s == StatusSuspended
}
