package dto

import (
	"github.com/orris-inc/proxypanel/internal/domain/subscription"
	"github.com/orris-inc/proxypanel/internal/shared/mapper"
)

// ToSubscriptionDTO converts the aggregate, evaluating the derived queries
// against its clock.
func ToSubscriptionDTO(sub *subscription.Subscription) *SubscriptionDTO {
	if sub == nil {
		return nil
	}

	features := mapper.MapSlice(sub.Features(), ToFeatureDTO)
	if features == nil {
		features = []*FeatureDTO{}
	}

	return &SubscriptionDTO{
		ID:                 sub.ID(),
		UUID:               sub.UUID(),
		UserID:             sub.UserID(),
		PanelID:            sub.PanelID(),
		Name:               sub.Name(),
		Type:               sub.Type().String(),
		Status:             sub.Status().String(),
		DataLimit:          sub.DataLimit(),
		DataUsed:           sub.DataUsed(),
		RemainingData:      sub.RemainingData(),
		ExpiryDate:         sub.ExpiryDate(),
		DaysUntilExpiry:    sub.DaysUntilExpiry(),
		ActivatedAt:        sub.ActivatedAt(),
		SuspendedAt:        sub.SuspendedAt(),
		CancelledAt:        sub.CancelledAt(),
		SuspensionReason:   sub.SuspensionReason(),
		CancellationReason: sub.CancellationReason(),
		PauseReason:        sub.PauseReason(),
		AutoRenew:          sub.AutoRenew(),
		RenewalPeriodDays:  sub.RenewalPeriodDays(),
		IsActive:           sub.IsActive(),
		IsExpired:          sub.IsExpired(),
		DataLimitExceeded:  sub.IsDataLimitExceeded(),
		CanBeRenewed:       sub.CanBeRenewed(),
		ShouldAutoRenew:    sub.ShouldAutoRenew(),
		Features:           features,
		Metadata:           sub.Metadata(),
		Version:            sub.Version(),
		CreatedAt:          sub.CreatedAt(),
		UpdatedAt:          sub.UpdatedAt(),
	}
}

func ToSubscriptionDTOs(subs []*subscription.Subscription) []*SubscriptionDTO {
	out := mapper.MapSlice(subs, ToSubscriptionDTO)
	if out == nil {
		return []*SubscriptionDTO{}
	}
	return out
}

func ToFeatureDTO(f *subscription.Feature) *FeatureDTO {
	d := &FeatureDTO{
		Name:        f.Name(),
		Description: f.Description(),
		Kind:        f.Kind().String(),
		Value:       f.Value(),
		Limit:       f.Limit(),
		Enabled:     f.IsEnabled(),
	}
	if remaining, ok := f.Remaining(); ok {
		d.Remaining = &remaining
	}
	return d
}

func ToUsageRecordDTO(r *subscription.UsageRecord) *UsageRecordDTO {
	return &UsageRecordDTO{
		ID:         r.ID(),
		Kind:       r.Kind().String(),
		Metric:     r.Metric(),
		Amount:     r.Amount(),
		Source:     r.Source(),
		SourceID:   r.SourceID(),
		Metadata:   r.Metadata(),
		RecordedAt: r.RecordedAt(),
	}
}

func ToUsageRecordDTOs(records []*subscription.UsageRecord) []*UsageRecordDTO {
	out := mapper.MapSlice(records, ToUsageRecordDTO)
	if out == nil {
		return []*UsageRecordDTO{}
	}
	return out
}
