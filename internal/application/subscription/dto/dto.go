package dto

import "time"

// SubscriptionDTO is the read model returned by the subscription API.
type SubscriptionDTO struct {
	ID                 string         `json:"id"`
	UUID               string         `json:"uuid"`
	UserID             string         `json:"user_id"`
	PanelID            string         `json:"panel_id,omitempty"`
	Name               string         `json:"name"`
	Type               string         `json:"type"`
	Status             string         `json:"status"`
	DataLimit          *int64         `json:"data_limit"`
	DataUsed           int64          `json:"data_used"`
	RemainingData      int64          `json:"remaining_data"`
	ExpiryDate         *time.Time     `json:"expiry_date"`
	DaysUntilExpiry    int            `json:"days_until_expiry"`
	ActivatedAt        *time.Time     `json:"activated_at,omitempty"`
	SuspendedAt        *time.Time     `json:"suspended_at,omitempty"`
	CancelledAt        *time.Time     `json:"cancelled_at,omitempty"`
	SuspensionReason   string         `json:"suspension_reason,omitempty"`
	CancellationReason string         `json:"cancellation_reason,omitempty"`
	PauseReason        string         `json:"pause_reason,omitempty"`
	AutoRenew          bool           `json:"auto_renew"`
	RenewalPeriodDays  *int           `json:"renewal_period_days,omitempty"`
	IsActive           bool           `json:"is_active"`
	IsExpired          bool           `json:"is_expired"`
	DataLimitExceeded  bool           `json:"data_limit_exceeded"`
	CanBeRenewed       bool           `json:"can_be_renewed"`
	ShouldAutoRenew    bool           `json:"should_auto_renew"`
	Features           []*FeatureDTO  `json:"features"`
	Metadata           map[string]any `json:"metadata,omitempty"`
	Version            int            `json:"version"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

type FeatureDTO struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Kind        string `json:"kind"`
	Value       any    `json:"value"`
	Limit       *int64 `json:"limit,omitempty"`
	Remaining   *int64 `json:"remaining,omitempty"`
	Enabled     bool   `json:"enabled"`
}

type UsageRecordDTO struct {
	ID         string         `json:"id"`
	Kind       string         `json:"kind"`
	Metric     string         `json:"metric"`
	Amount     int64          `json:"amount"`
	Source     string         `json:"source"`
	SourceID   string         `json:"source_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	RecordedAt time.Time      `json:"recorded_at"`
}

// UsageSummaryDTO aggregates ledger amounts for the current business day and
// month.
type UsageSummaryDTO struct {
	SubscriptionID string     `json:"subscription_id"`
	DataUsed       int64      `json:"data_used"`
	DataLimit      *int64     `json:"data_limit"`
	RemainingData  int64      `json:"remaining_data"`
	Today          UsageTally `json:"today"`
	ThisMonth      UsageTally `json:"this_month"`
	GeneratedAt    time.Time  `json:"generated_at"`
}

type UsageTally struct {
	From        time.Time `json:"from"`
	To          time.Time `json:"to"`
	DataBytes   int64     `json:"data_bytes"`
	TimeMinutes int64     `json:"time_minutes"`
	FeatureUses int64     `json:"feature_uses"`
}

// BatchResult reports the outcome of a scheduled batch.
type BatchResult struct {
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}
