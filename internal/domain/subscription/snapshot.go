package subscription

import (
	"time"

	vo "github.com/orris-inc/proxypanel/internal/domain/subscription/valueobjects"
)

// Snapshot is the plain-data form of a subscription.
type Snapshot struct {
	ID                string                `json:"id"`
	UUID              string                `json:"uuid"`
	UserID            string                `json:"user_id"`
	PanelID           string                `json:"panel_id,omitempty"`
	Name              string                `json:"name"`
	Type              vo.SubscriptionType   `json:"type"`
	Status            vo.SubscriptionStatus `json:"status"`
	DataLimit         *int64                `json:"data_limit,omitempty"`
	DataUsed          int64                 `json:"data_used"`
	ExpiryDate        *time.Time            `json:"expiry_date,omitempty"`
	ActivatedAt       *time.Time            `json:"activated_at,omitempty"`
	SuspendedAt       *time.Time            `json:"suspended_at,omitempty"`
	CancelledAt       *time.Time            `json:"cancelled_at,omitempty"`
	AutoRenew         bool                  `json:"auto_renew"`
	RenewalPeriodDays *int                  `json:"renewal_period_days,omitempty"`
	Metadata          map[string]any        `json:"metadata,omitempty"`
	Features          []FeatureSnapshot     `json:"features"`
	Version           int                   `json:"version"`
	CreatedAt         time.Time             `json:"created_at"`
	UpdatedAt         time.Time             `json:"updated_at"`
}

// FeatureSnapshot is the plain-data form of a feature.
type FeatureSnapshot struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Kind        vo.FeatureKind `json:"kind"`
	Value       any            `json:"value"`
	Limit       *int64         `json:"limit,omitempty"`
	Enabled     bool           `json:"enabled"`
}

func (f *Feature) snapshot() FeatureSnapshot {
	return FeatureSnapshot{
		Name:        f.name,
		Description: f.description,
		Kind:        f.kind,
		Value:       f.Value(),
		Limit:       f.Limit(),
		Enabled:     f.enabled,
	}
}
