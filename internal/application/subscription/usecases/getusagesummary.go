package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/orris-inc/proxypanel/internal/application/subscription/dto"
	"github.com/orris-inc/proxypanel/internal/domain/subscription"
	vo "github.com/orris-inc/proxypanel/internal/domain/subscription/valueobjects"
	"github.com/orris-inc/proxypanel/internal/shared/biztime"
	apperrors "github.com/orris-inc/proxypanel/internal/shared/errors"
	"github.com/orris-inc/proxypanel/internal/shared/logger"
)

type GetUsageSummaryQuery struct {
	SubscriptionID string
}

// GetUsageSummaryUseCase sums the full ledger history for the current
// business day and month.
type GetUsageSummaryUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	usageRepo        subscription.UsageRecordRepository
	clock            subscription.Clock
	logger           logger.Interface
}

func NewGetUsageSummaryUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	usageRepo subscription.UsageRecordRepository,
	clock subscription.Clock,
	logger logger.Interface,
) *GetUsageSummaryUseCase {
	return &GetUsageSummaryUseCase{
		subscriptionRepo: subscriptionRepo,
		usageRepo:        usageRepo,
		clock:            clock,
		logger:           logger,
	}
}

func (uc *GetUsageSummaryUseCase) Execute(ctx context.Context, q GetUsageSummaryQuery) (*dto.UsageSummaryDTO, error) {
	sub, err := uc.subscriptionRepo.GetByID(ctx, q.SubscriptionID)
	if err != nil {
		uc.logger.Errorw("failed to get subscription", "error", err, "subscription_id", q.SubscriptionID)
		return nil, apperrors.NewInternalError("failed to get subscription").WithCause(err)
	}
	if sub == nil {
		return nil, apperrors.NewNotFoundError("subscription not found", q.SubscriptionID)
	}

	now := uc.clock.Now()
	dayStart, dayEnd := biztime.DayRangeUTC(now)
	monthStart, monthEnd := biztime.MonthRangeUTC(now)

	today, err := uc.tally(ctx, sub.ID(), dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	month, err := uc.tally(ctx, sub.ID(), monthStart, monthEnd)
	if err != nil {
		return nil, err
	}

	return &dto.UsageSummaryDTO{
		SubscriptionID: sub.ID(),
		DataUsed:       sub.DataUsed(),
		DataLimit:      sub.DataLimit(),
		RemainingData:  sub.RemainingData(),
		Today:          today,
		ThisMonth:      month,
		GeneratedAt:    now,
	}, nil
}

func (uc *GetUsageSummaryUseCase) tally(ctx context.Context, subscriptionID string, from, to time.Time) (dto.UsageTally, error) {
	tally := dto.UsageTally{From: from, To: to}
	targets := []struct {
		kind vo.UsageKind
		dst  *int64
	}{
		{vo.UsageKindData, &tally.DataBytes},
		{vo.UsageKindTime, &tally.TimeMinutes},
		{vo.UsageKindFeature, &tally.FeatureUses},
	}
	for _, t := range targets {
		sum, err := uc.usageRepo.SumBySubscription(ctx, subscriptionID, t.kind, from, to)
		if err != nil {
			uc.logger.Errorw("failed to sum usage", "error", err, "subscription_id", subscriptionID, "kind", t.kind)
			return tally, apperrors.NewInternalError("failed to summarise usage").WithCause(fmt.Errorf("sum %s usage: %w", t.kind, err))
		}
		*t.dst = sum
	}
	return tally, nil
}

// ListUsageRecordsQuery selects ledger records in [From, To). An empty Kind
// returns every kind.
type ListUsageRecordsQuery struct {
	SubscriptionID string
	Kind           string
	From           time.Time
	To             time.Time
}

type ListUsageRecordsUseCase struct {
	usageRepo subscription.UsageRecordRepository
	logger    logger.Interface
}

func NewListUsageRecordsUseCase(usageRepo subscription.UsageRecordRepository, logger logger.Interface) *ListUsageRecordsUseCase {
	return &ListUsageRecordsUseCase{
		usageRepo: usageRepo,
		logger:    logger,
	}
}

func (uc *ListUsageRecordsUseCase) Execute(ctx context.Context, q ListUsageRecordsQuery) ([]*dto.UsageRecordDTO, error) {
	if !q.To.After(q.From) {
		return nil, apperrors.NewValidationError("invalid time range", "to must be after from")
	}

	var kind *vo.UsageKind
	if q.Kind != "" {
		k, err := vo.NewUsageKind(q.Kind)
		if err != nil {
			return nil, apperrors.NewValidationError("invalid usage kind", err.Error())
		}
		kind = &k
	}

	records, err := uc.usageRepo.ListBySubscription(ctx, q.SubscriptionID, kind, q.From, q.To)
	if err != nil {
		uc.logger.Errorw("failed to list usage records", "error", err, "subscription_id", q.SubscriptionID)
		return nil, apperrors.NewInternalError("failed to list usage records").WithCause(err)
	}
	return dto.ToUsageRecordDTOs(records), nil
}
