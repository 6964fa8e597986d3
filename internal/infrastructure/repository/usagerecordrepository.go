package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/orris-inc/proxypanel/internal/domain/subscription"
	vo "github.com/orris-inc/proxypanel/internal/domain/subscription/valueobjects"
	"github.com/orris-inc/proxypanel/internal/infrastructure/persistence/mappers"
	"github.com/orris-inc/proxypanel/internal/infrastructure/persistence/models"
	"github.com/orris-inc/proxypanel/internal/shared/db"
	"github.com/orris-inc/proxypanel/internal/shared/logger"
)

// UsageRecordRepositoryImpl reads ledger history. Writes go through the
// subscription repository together with the aggregate.
type UsageRecordRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewUsageRecordRepository(db *gorm.DB, logger logger.Interface) subscription.UsageRecordRepository {
	return &UsageRecordRepositoryImpl{
		db:     db,
		logger: logger,
	}
}

// ListBySubscription returns records with from <= recorded_at < to in
// recording order. A nil kind matches every kind.
func (r *UsageRecordRepositoryImpl) ListBySubscription(
	ctx context.Context,
	subscriptionID string,
	kind *vo.UsageKind,
	from, to time.Time,
) ([]*subscription.UsageRecord, error) {
	q := r.rangeQuery(ctx, subscriptionID, from, to)
	if kind != nil {
		q = q.Where("kind = ?", kind.String())
	}

	var rows []*models.UsageRecordModel
	if err := q.Order("recorded_at ASC").Find(&rows).Error; err != nil {
		r.logger.Errorw("failed to list usage records", "subscription_id", subscriptionID, "error", err)
		return nil, fmt.Errorf("failed to list usage records: %w", err)
	}

	records, err := mappers.UsageRecordsToEntities(rows)
	if err != nil {
		r.logger.Errorw("failed to map usage records", "subscription_id", subscriptionID, "error", err)
		return nil, fmt.Errorf("failed to map usage records: %w", err)
	}
	return records, nil
}

// SumBySubscription totals the amounts of one kind in [from, to).
func (r *UsageRecordRepositoryImpl) SumBySubscription(
	ctx context.Context,
	subscriptionID string,
	kind vo.UsageKind,
	from, to time.Time,
) (int64, error) {
	var total int64
	if err := r.rangeQuery(ctx, subscriptionID, from, to).
		Where("kind = ?", kind.String()).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error; err != nil {
		r.logger.Errorw("failed to sum usage records", "subscription_id", subscriptionID, "kind", kind, "error", err)
		return 0, fmt.Errorf("failed to sum usage records: %w", err)
	}
	return total, nil
}

func (r *UsageRecordRepositoryImpl) rangeQuery(ctx context.Context, subscriptionID string, from, to time.Time) *gorm.DB {
	return db.GetTxFromContext(ctx, r.db).
		Model(&models.UsageRecordModel{}).
		Where("subscription_id = ? AND recorded_at >= ? AND recorded_at < ?", subscriptionID, from, to)
}
