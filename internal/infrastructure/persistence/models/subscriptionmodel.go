package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	TableSubscriptions            = "subscriptions"
	TableSubscriptionFeatures     = "subscription_features"
	TableSubscriptionUsageRecords = "subscription_usage_records"
)

// SubscriptionModel represents the database persistence model for subscriptions
// This is the anti-corruption layer between domain and database
type SubscriptionModel struct {
	ID                string `gorm:"primarykey;size:32;comment:prefixed ID: sub_xxx"`
	UUID              string `gorm:"uniqueIndex;not null;size:36"`
	UserID            string `gorm:"not null;size:64;index"`
	PanelID           string `gorm:"not null;size:64;index"`
	Name              string `gorm:"not null;size:255"`
	Type              string `gorm:"not null;size:20"`
	Status            string `gorm:"not null;size:20;index:idx_subscriptions_status_expiry,priority:1"`
	DataLimit         *int64
	DataUsed          int64      `gorm:"not null;default:0"`
	ExpiryDate        *time.Time `gorm:"index:idx_subscriptions_status_expiry,priority:2"`
	ActivatedAt       *time.Time
	SuspendedAt       *time.Time
	CancelledAt       *time.Time
	AutoRenew         bool `gorm:"not null;default:false"`
	RenewalPeriodDays *int
	Metadata          datatypes.JSON
	Version           int `gorm:"not null;default:1"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
	DeletedAt         gorm.DeletedAt `gorm:"index"`

	Features []SubscriptionFeatureModel `gorm:"foreignKey:SubscriptionID;references:ID"`
}

// TableName specifies the table name for GORM
func (SubscriptionModel) TableName() string {
	return TableSubscriptions
}

// BeforeCreate hook for GORM
func (s *SubscriptionModel) BeforeCreate(tx *gorm.DB) error {
	if s.Version == 0 {
		s.Version = 1
	}
	return nil
}

// SubscriptionFeatureModel stores one named entitlement of a subscription.
type SubscriptionFeatureModel struct {
	ID             uint   `gorm:"primarykey"`
	SubscriptionID string `gorm:"not null;size:32;uniqueIndex:uk_subscription_features_name,priority:1"`
	Name           string `gorm:"not null;size:100;uniqueIndex:uk_subscription_features_name,priority:2"`
	Description    string `gorm:"not null;size:500;default:''"`
	Kind           string `gorm:"not null;size:20"`
	Value          datatypes.JSON
	LimitValue     *int64 `gorm:"column:limit_value"`
	Enabled        bool   `gorm:"not null;default:true"`
}

func (SubscriptionFeatureModel) TableName() string {
	return TableSubscriptionFeatures
}
