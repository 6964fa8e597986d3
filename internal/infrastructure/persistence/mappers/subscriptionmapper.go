package mappers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/orris-inc/proxypanel/internal/domain/subscription"
	vo "github.com/orris-inc/proxypanel/internal/domain/subscription/valueobjects"
	"github.com/orris-inc/proxypanel/internal/infrastructure/persistence/models"
	"github.com/orris-inc/proxypanel/internal/shared/mapper"
)

type SubscriptionMapper interface {
	ToEntity(model *models.SubscriptionModel, records []*subscription.UsageRecord) (*subscription.Subscription, error)
	ToModel(entity *subscription.Subscription) (*models.SubscriptionModel, error)
	ToEntities(models []*models.SubscriptionModel) ([]*subscription.Subscription, error)
}

type SubscriptionMapperImpl struct {
	clock subscription.Clock
}

// NewSubscriptionMapper returns a mapper whose entities read time from clock.
func NewSubscriptionMapper(clock subscription.Clock) SubscriptionMapper {
	return &SubscriptionMapperImpl{clock: clock}
}

func (m *SubscriptionMapperImpl) ToEntity(model *models.SubscriptionModel, records []*subscription.UsageRecord) (*subscription.Subscription, error) {
	if model == nil {
		return nil, nil
	}

	status, err := vo.ParseSubscriptionStatus(model.Status)
	if err != nil {
		return nil, err
	}

	metadata, err := decodeObject(model.Metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
	}

	features := make([]subscription.FeatureSnapshot, 0, len(model.Features))
	for _, fm := range model.Features {
		value, err := decodeValue(fm.Value)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal feature %s: %w", fm.Name, err)
		}
		features = append(features, subscription.FeatureSnapshot{
			Name:        fm.Name,
			Description: fm.Description,
			Kind:        vo.FeatureKind(fm.Kind),
			Value:       value,
			Limit:       fm.LimitValue,
			Enabled:     fm.Enabled,
		})
	}

	entity, err := subscription.ReconstructSubscription(subscription.Snapshot{
		ID:                model.ID,
		UUID:              model.UUID,
		UserID:            model.UserID,
		PanelID:           model.PanelID,
		Name:              model.Name,
		Type:              vo.SubscriptionType(model.Type),
		Status:            status,
		DataLimit:         model.DataLimit,
		DataUsed:          model.DataUsed,
		ExpiryDate:        utcPtr(model.ExpiryDate),
		ActivatedAt:       utcPtr(model.ActivatedAt),
		SuspendedAt:       utcPtr(model.SuspendedAt),
		CancelledAt:       utcPtr(model.CancelledAt),
		AutoRenew:         model.AutoRenew,
		RenewalPeriodDays: model.RenewalPeriodDays,
		Metadata:          metadata,
		Features:          features,
		Version:           model.Version,
		CreatedAt:         model.CreatedAt.UTC(),
		UpdatedAt:         model.UpdatedAt.UTC(),
	}, records, m.clock)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct subscription entity: %w", err)
	}

	return entity, nil
}

func (m *SubscriptionMapperImpl) ToModel(entity *subscription.Subscription) (*models.SubscriptionModel, error) {
	if entity == nil {
		return nil, nil
	}

	snap := entity.Snapshot()

	var metadataJSON datatypes.JSON
	if len(snap.Metadata) > 0 {
		data, err := json.Marshal(snap.Metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal metadata: %w", err)
		}
		metadataJSON = data
	}

	features := make([]models.SubscriptionFeatureModel, 0, len(snap.Features))
	for _, f := range snap.Features {
		value, err := json.Marshal(f.Value)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal feature %s: %w", f.Name, err)
		}
		features = append(features, models.SubscriptionFeatureModel{
			SubscriptionID: snap.ID,
			Name:           f.Name,
			Description:    f.Description,
			Kind:           f.Kind.String(),
			Value:          value,
			LimitValue:     f.Limit,
			Enabled:        f.Enabled,
		})
	}

	return &models.SubscriptionModel{
		ID:                snap.ID,
		UUID:              snap.UUID,
		UserID:            snap.UserID,
		PanelID:           snap.PanelID,
		Name:              snap.Name,
		Type:              snap.Type.String(),
		Status:            snap.Status.String(),
		DataLimit:         snap.DataLimit,
		DataUsed:          snap.DataUsed,
		ExpiryDate:        snap.ExpiryDate,
		ActivatedAt:       snap.ActivatedAt,
		SuspendedAt:       snap.SuspendedAt,
		CancelledAt:       snap.CancelledAt,
		AutoRenew:         snap.AutoRenew,
		RenewalPeriodDays: snap.RenewalPeriodDays,
		Metadata:          metadataJSON,
		Version:           snap.Version,
		CreatedAt:         snap.CreatedAt,
		UpdatedAt:         snap.UpdatedAt,
		Features:          features,
	}, nil
}

// ToEntities maps list results, which never carry ledger records.
func (m *SubscriptionMapperImpl) ToEntities(modelList []*models.SubscriptionModel) ([]*subscription.Subscription, error) {
	return mapper.MapSlicePtrWithID(modelList,
		func(model *models.SubscriptionModel) (*subscription.Subscription, error) {
			return m.ToEntity(model, nil)
		},
		func(model *models.SubscriptionModel) string { return model.ID },
	)
}

// decodeValue keeps integers exact by decoding numbers as json.Number.
func decodeValue(raw datatypes.JSON) (any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func decodeObject(raw datatypes.JSON) (map[string]any, error) {
	v, err := decodeValue(raw)
	if err != nil || v == nil {
		return map[string]any{}, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected JSON object, got %T", v)
	}
	return obj, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
