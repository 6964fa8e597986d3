package models

import (
	"time"

	"gorm.io/datatypes"
)

// UsageRecordModel is one append-only ledger row. Rows are never updated.
type UsageRecordModel struct {
	ID             string `gorm:"primarykey;size:36"`
	SubscriptionID string `gorm:"not null;size:32;index:idx_usage_records_subscription_time,priority:1"`
	Kind           string `gorm:"not null;size:20"`
	Metric         string `gorm:"not null;size:100"`
	Amount         int64  `gorm:"not null"`
	Source         string `gorm:"not null;size:50"`
	SourceID       string `gorm:"not null;size:100;default:''"`
	Metadata       datatypes.JSON
	RecordedAt     time.Time `gorm:"not null;index:idx_usage_records_subscription_time,priority:2"`
	CreatedAt      time.Time
}

func (UsageRecordModel) TableName() string {
	return TableSubscriptionUsageRecords
}
