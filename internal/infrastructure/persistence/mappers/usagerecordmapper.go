package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/orris-inc/proxypanel/internal/domain/subscription"
	vo "github.com/orris-inc/proxypanel/internal/domain/subscription/valueobjects"
	"github.com/orris-inc/proxypanel/internal/infrastructure/persistence/models"
	"github.com/orris-inc/proxypanel/internal/shared/mapper"
)

func UsageRecordToModel(r *subscription.UsageRecord) (*models.UsageRecordModel, error) {
	var metadataJSON datatypes.JSON
	if md := r.Metadata(); len(md) > 0 {
		data, err := json.Marshal(md)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal usage metadata: %w", err)
		}
		metadataJSON = data
	}
	return &models.UsageRecordModel{
		ID:             r.ID(),
		SubscriptionID: r.SubscriptionID(),
		Kind:           r.Kind().String(),
		Metric:         r.Metric(),
		Amount:         r.Amount(),
		Source:         r.Source(),
		SourceID:       r.SourceID(),
		Metadata:       metadataJSON,
		RecordedAt:     r.RecordedAt(),
		CreatedAt:      r.CreatedAt(),
	}, nil
}

func UsageRecordToEntity(m *models.UsageRecordModel) (*subscription.UsageRecord, error) {
	metadata, err := decodeObject(m.Metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal usage metadata: %w", err)
	}
	return subscription.ReconstructUsageRecord(
		m.ID,
		m.SubscriptionID,
		vo.UsageKind(m.Kind),
		m.Metric,
		m.Amount,
		m.Source,
		m.SourceID,
		metadata,
		m.RecordedAt.UTC(),
		m.CreatedAt.UTC(),
	)
}

func UsageRecordsToModels(records []*subscription.UsageRecord) ([]*models.UsageRecordModel, error) {
	return mapper.MapSlicePtrWithID(records, UsageRecordToModel,
		func(r *subscription.UsageRecord) string { return r.ID() })
}

func UsageRecordsToEntities(rows []*models.UsageRecordModel) ([]*subscription.UsageRecord, error) {
	return mapper.MapSlicePtrWithID(rows, UsageRecordToEntity,
		func(m *models.UsageRecordModel) string { return m.ID })
}
