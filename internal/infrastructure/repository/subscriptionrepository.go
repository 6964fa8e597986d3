package repository

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"gorm.io/gorm"

	"github.com/orris-inc/proxypanel/internal/domain/subscription"
	vo "github.com/orris-inc/proxypanel/internal/domain/subscription/valueobjects"
	"github.com/orris-inc/proxypanel/internal/infrastructure/persistence/mappers"
	"github.com/orris-inc/proxypanel/internal/infrastructure/persistence/models"
	"github.com/orris-inc/proxypanel/internal/shared/db"
	apperrors "github.com/orris-inc/proxypanel/internal/shared/errors"
	"github.com/orris-inc/proxypanel/internal/shared/logger"
)

// ledgerWindow is how many of the newest usage records are loaded with an
// aggregate. Older history is read through UsageRecordRepository.
const ledgerWindow = 1000

// allowedSubscriptionSortByFields defines the whitelist of allowed ORDER BY fields
// to prevent SQL injection attacks.
var allowedSubscriptionSortByFields = map[string]bool{
	"id":          true,
	"user_id":     true,
	"panel_id":    true,
	"status":      true,
	"type":        true,
	"data_used":   true,
	"expiry_date": true,
	"created_at":  true,
	"updated_at":  true,
}

type SubscriptionRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.SubscriptionMapper
	logger logger.Interface
}

func NewSubscriptionRepository(
	db *gorm.DB,
	clock subscription.Clock,
	logger logger.Interface,
) subscription.SubscriptionRepository {
	return &SubscriptionRepositoryImpl{
		db:     db,
		mapper: mappers.NewSubscriptionMapper(clock),
		logger: logger,
	}
}

func (r *SubscriptionRepositoryImpl) Create(ctx context.Context, entity *subscription.Subscription) error {
	model, err := r.mapper.ToModel(entity)
	if err != nil {
		r.logger.Errorw("failed to map subscription entity to model", "error", err)
		return fmt.Errorf("failed to map subscription entity: %w", err)
	}

	err = db.GetTxFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Features").Create(model).Error; err != nil {
			if apperrors.IsDuplicateError(err) {
				return apperrors.NewConflictError("subscription already exists").WithCause(err)
			}
			return fmt.Errorf("failed to create subscription: %w", err)
		}
		if err := r.replaceFeatures(tx, model); err != nil {
			return err
		}
		return r.insertPendingRecords(tx, entity)
	})
	if err != nil {
		r.logger.Errorw("failed to create subscription in database", "id", model.ID, "error", err)
		return err
	}

	entity.MarkStored()
	r.logger.Infow("subscription created successfully", "id", model.ID, "user_id", model.UserID, "type", model.Type)
	return nil
}

func (r *SubscriptionRepositoryImpl) GetByID(ctx context.Context, id string) (*subscription.Subscription, error) {
	var model models.SubscriptionModel

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Preload("Features").Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get subscription by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	records, err := r.loadLedgerWindow(tx, id)
	if err != nil {
		return nil, err
	}

	entity, err := r.mapper.ToEntity(&model, records)
	if err != nil {
		r.logger.Errorw("failed to map subscription model to entity", "id", id, "error", err)
		return nil, fmt.Errorf("failed to map subscription: %w", err)
	}

	return entity, nil
}

func (r *SubscriptionRepositoryImpl) GetByUserID(ctx context.Context, userID string) ([]*subscription.Subscription, error) {
	var rows []*models.SubscriptionModel

	if err := db.GetTxFromContext(ctx, r.db).
		Preload("Features").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		r.logger.Errorw("failed to get subscriptions by user ID", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get subscriptions: %w", err)
	}

	return r.toEntities(rows)
}

// Update writes the aggregate only if the stored row still carries the
// version the aggregate was loaded at.
func (r *SubscriptionRepositoryImpl) Update(ctx context.Context, entity *subscription.Subscription) error {
	model, err := r.mapper.ToModel(entity)
	if err != nil {
		r.logger.Errorw("failed to map subscription entity to model", "error", err)
		return fmt.Errorf("failed to map subscription entity: %w", err)
	}
	if entity.Version() == entity.StoredVersion() && len(entity.Ledger().PendingRecords()) == 0 {
		return nil
	}

	err = db.GetTxFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.SubscriptionModel{}).
			Where("id = ? AND version = ?", model.ID, entity.StoredVersion()).
			Updates(map[string]any{
				"name":                model.Name,
				"status":              model.Status,
				"data_limit":          model.DataLimit,
				"data_used":           model.DataUsed,
				"expiry_date":         model.ExpiryDate,
				"activated_at":        model.ActivatedAt,
				"suspended_at":        model.SuspendedAt,
				"cancelled_at":        model.CancelledAt,
				"auto_renew":          model.AutoRenew,
				"renewal_period_days": model.RenewalPeriodDays,
				"metadata":            model.Metadata,
				"version":             model.Version,
				"updated_at":          model.UpdatedAt,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to update subscription: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&models.SubscriptionModel{}).Where("id = ?", model.ID).Count(&count).Error; err != nil {
				return fmt.Errorf("failed to check subscription: %w", err)
			}
			if count == 0 {
				return subscription.ErrSubscriptionNotFound
			}
			return subscription.ErrConcurrentModification
		}

		if err := r.replaceFeatures(tx, model); err != nil {
			return err
		}
		return r.insertPendingRecords(tx, entity)
	})
	if err != nil {
		r.logger.Warnw("failed to update subscription", "id", model.ID, "version", model.Version, "error", err)
		return err
	}

	entity.MarkStored()
	return nil
}

func (r *SubscriptionRepositoryImpl) Delete(ctx context.Context, id string) error {
	result := db.GetTxFromContext(ctx, r.db).Where("id = ?", id).Delete(&models.SubscriptionModel{})
	if result.Error != nil {
		r.logger.Errorw("failed to delete subscription", "id", id, "error", result.Error)
		return fmt.Errorf("failed to delete subscription: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return subscription.ErrSubscriptionNotFound
	}

	r.logger.Infow("subscription deleted successfully", "id", id)
	return nil
}

// FindExpiredActive returns active subscriptions whose expiry date has passed.
func (r *SubscriptionRepositoryImpl) FindExpiredActive(ctx context.Context, now time.Time, limit int) ([]*subscription.Subscription, error) {
	var rows []*models.SubscriptionModel

	if err := db.GetTxFromContext(ctx, r.db).
		Preload("Features").
		Where("status = ? AND expiry_date IS NOT NULL AND expiry_date < ?", vo.StatusActive.String(), now).
		Order("expiry_date ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		r.logger.Errorw("failed to find expired subscriptions", "error", err)
		return nil, fmt.Errorf("failed to find expired subscriptions: %w", err)
	}

	return r.toEntities(rows)
}

// FindAutoRenewDue returns auto-renewing subscriptions past expiry that are
// not cancelled.
func (r *SubscriptionRepositoryImpl) FindAutoRenewDue(ctx context.Context, now time.Time, limit int) ([]*subscription.Subscription, error) {
	var rows []*models.SubscriptionModel

	if err := db.GetTxFromContext(ctx, r.db).
		Preload("Features").
		Where("auto_renew = ? AND status <> ? AND expiry_date IS NOT NULL AND expiry_date < ?", true, vo.StatusCancelled.String(), now).
		Order("expiry_date ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		r.logger.Errorw("failed to find auto-renew subscriptions", "error", err)
		return nil, fmt.Errorf("failed to find auto-renew subscriptions: %w", err)
	}

	return r.toEntities(rows)
}

func (r *SubscriptionRepositoryImpl) List(ctx context.Context, filter subscription.SubscriptionFilter) ([]*subscription.Subscription, int64, error) {
	base := db.GetTxFromContext(ctx, r.db)

	var total int64
	if err := base.Model(&models.SubscriptionModel{}).
		Scopes(subscriptionFilterScope(filter)).
		Count(&total).Error; err != nil {
		r.logger.Errorw("failed to count subscriptions", "error", err)
		return nil, 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	var rows []*models.SubscriptionModel
	if err := base.Preload("Features").
		Scopes(
			subscriptionFilterScope(filter),
			db.OrderBy(filter.SortFilter, allowedSubscriptionSortByFields, "created_at DESC"),
			db.Paginate(filter.PageFilter),
		).
		Find(&rows).Error; err != nil {
		r.logger.Errorw("failed to list subscriptions", "error", err)
		return nil, 0, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	entities, err := r.toEntities(rows)
	if err != nil {
		return nil, 0, err
	}
	return entities, total, nil
}

func subscriptionFilterScope(filter subscription.SubscriptionFilter) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		if filter.UserID != "" {
			q = q.Where("user_id = ?", filter.UserID)
		}
		if filter.PanelID != "" {
			q = q.Where("panel_id = ?", filter.PanelID)
		}
		if filter.Status != nil {
			q = q.Where("status = ?", filter.Status.String())
		}
		if filter.Type != nil {
			q = q.Where("type = ?", filter.Type.String())
		}
		return q
	}
}

func (r *SubscriptionRepositoryImpl) CountByStatus(ctx context.Context, status vo.SubscriptionStatus) (int64, error) {
	var count int64
	if err := db.GetTxFromContext(ctx, r.db).
		Model(&models.SubscriptionModel{}).
		Where("status = ?", status.String()).
		Count(&count).Error; err != nil {
		r.logger.Errorw("failed to count subscriptions by status", "status", status, "error", err)
		return 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}
	return count, nil
}

func (r *SubscriptionRepositoryImpl) toEntities(rows []*models.SubscriptionModel) ([]*subscription.Subscription, error) {
	entities, err := r.mapper.ToEntities(rows)
	if err != nil {
		r.logger.Errorw("failed to map subscription models to entities", "error", err)
		return nil, fmt.Errorf("failed to map subscriptions: %w", err)
	}
	return entities, nil
}

// replaceFeatures rewrites the feature rows of one subscription. Features
// are few per subscription, so a delete-and-insert is simpler than a diff.
func (r *SubscriptionRepositoryImpl) replaceFeatures(tx *gorm.DB, model *models.SubscriptionModel) error {
	if err := tx.Where("subscription_id = ?", model.ID).Delete(&models.SubscriptionFeatureModel{}).Error; err != nil {
		return fmt.Errorf("failed to clear subscription features: %w", err)
	}
	if len(model.Features) == 0 {
		return nil
	}
	if err := tx.Create(&model.Features).Error; err != nil {
		return fmt.Errorf("failed to save subscription features: %w", err)
	}
	return nil
}

func (r *SubscriptionRepositoryImpl) insertPendingRecords(tx *gorm.DB, entity *subscription.Subscription) error {
	pending := entity.Ledger().PendingRecords()
	if len(pending) == 0 {
		return nil
	}
	rows, err := mappers.UsageRecordsToModels(pending)
	if err != nil {
		return err
	}
	if err := tx.Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to save usage records: %w", err)
	}
	return nil
}

func (r *SubscriptionRepositoryImpl) loadLedgerWindow(tx *gorm.DB, subscriptionID string) ([]*subscription.UsageRecord, error) {
	var rows []*models.UsageRecordModel
	if err := tx.Where("subscription_id = ?", subscriptionID).
		Order("recorded_at DESC").
		Limit(ledgerWindow).
		Find(&rows).Error; err != nil {
		r.logger.Errorw("failed to load usage records", "subscription_id", subscriptionID, "error", err)
		return nil, fmt.Errorf("failed to load usage records: %w", err)
	}
	slices.Reverse(rows)
	return mappers.UsageRecordsToEntities(rows)
}
