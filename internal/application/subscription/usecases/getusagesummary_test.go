package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/proxypanel/internal/domain/subscription"
	vo "github.com/orris-inc/proxypanel/internal/domain/subscription/valueobjects"
	"github.com/orris-inc/proxypanel/internal/shared/biztime"
	apperrors "github.com/orris-inc/proxypanel/internal/shared/errors"
	"github.com/orris-inc/proxypanel/internal/shared/logger"
)

func TestGetUsageSummaryUseCase(t *testing.T) {
	clock := subscription.NewFixedClock(testNow)
	sub := newStoredSubscription(t, clock, vo.StatusActive)

	dayStart, dayEnd := biztime.DayRangeUTC(testNow)
	monthStart, monthEnd := biztime.MonthRangeUTC(testNow)

	repo := new(mockSubscriptionRepository)
	usage := new(mockUsageRecordRepository)
	repo.On("GetByID", mock.Anything, sub.ID()).Return(sub, nil).Once()
	usage.On("SumBySubscription", mock.Anything, sub.ID(), vo.UsageKindData, dayStart, dayEnd).Return(int64(120), nil).Once()
	usage.On("SumBySubscription", mock.Anything, sub.ID(), vo.UsageKindTime, dayStart, dayEnd).Return(int64(30), nil).Once()
	usage.On("SumBySubscription", mock.Anything, sub.ID(), vo.UsageKindFeature, dayStart, dayEnd).Return(int64(1), nil).Once()
	usage.On("SumBySubscription", mock.Anything, sub.ID(), vo.UsageKindData, monthStart, monthEnd).Return(int64(900), nil).Once()
	usage.On("SumBySubscription", mock.Anything, sub.ID(), vo.UsageKindTime, monthStart, monthEnd).Return(int64(240), nil).Once()
	usage.On("SumBySubscription", mock.Anything, sub.ID(), vo.UsageKindFeature, monthStart, monthEnd).Return(int64(4), nil).Once()

	uc := NewGetUsageSummaryUseCase(repo, usage, clock, logger.NewNopLogger())
	got, err := uc.Execute(context.Background(), GetUsageSummaryQuery{SubscriptionID: sub.ID()})

	require.NoError(t, err)
	assert.Equal(t, sub.ID(), got.SubscriptionID)
	assert.Equal(t, int64(1000), got.RemainingData)
	assert.Equal(t, int64(120), got.Today.DataBytes)
	assert.Equal(t, int64(30), got.Today.TimeMinutes)
	assert.Equal(t, int64(1), got.Today.FeatureUses)
	assert.Equal(t, int64(900), got.ThisMonth.DataBytes)
	assert.Equal(t, int64(240), got.ThisMonth.TimeMinutes)
	assert.Equal(t, int64(4), got.ThisMonth.FeatureUses)
	assert.Equal(t, monthStart, got.ThisMonth.From)
	assert.Equal(t, testNow, got.GeneratedAt)
	usage.AssertExpectations(t)
}

func TestGetUsageSummaryUseCase_Errors(t *testing.T) {
	clock := subscription.NewFixedClock(testNow)

	t.Run("not found", func(t *testing.T) {
		repo := new(mockSubscriptionRepository)
		repo.On("GetByID", mock.Anything, "sub_missing").Return(nil, nil).Once()

		uc := NewGetUsageSummaryUseCase(repo, new(mockUsageRecordRepository), clock, logger.NewNopLogger())
		_, err := uc.Execute(context.Background(), GetUsageSummaryQuery{SubscriptionID: "sub_missing"})

		assert.True(t, apperrors.IsNotFoundError(err))
	})

	t.Run("sum failure", func(t *testing.T) {
		sub := newStoredSubscription(t, clock, vo.StatusActive)
		repo := new(mockSubscriptionRepository)
		usage := new(mockUsageRecordRepository)
		repo.On("GetByID", mock.Anything, sub.ID()).Return(sub, nil).Once()
		usage.On("SumBySubscription", mock.Anything, sub.ID(), mock.Anything, mock.Anything, mock.Anything).Return(int64(0), errors.New("timeout")).Once()

		uc := NewGetUsageSummaryUseCase(repo, usage, clock, logger.NewNopLogger())
		_, err := uc.Execute(context.Background(), GetUsageSummaryQuery{SubscriptionID: sub.ID()})

		require.Error(t, err)
		appErr := apperrors.GetAppError(err)
		require.NotNil(t, appErr)
		assert.Equal(t, apperrors.ErrorTypeInternal, appErr.Type)
	})
}

func TestListUsageRecordsUseCase(t *testing.T) {
	from := testNow.Add(-24 * time.Hour)

	t.Run("filters by kind", func(t *testing.T) {
		clock := subscription.NewFixedClock(testNow)
		sub := newStoredSubscription(t, clock, vo.StatusActive)
		record, err := sub.RecordDataUsage(64, UsageSourcePanel, subscription.NewEventBuffer())
		require.NoError(t, err)

		usage := new(mockUsageRecordRepository)
		kind := vo.UsageKindData
		usage.On("ListBySubscription", mock.Anything, sub.ID(), &kind, from, testNow).Return([]*subscription.UsageRecord{record}, nil).Once()

		uc := NewListUsageRecordsUseCase(usage, logger.NewNopLogger())
		got, err := uc.Execute(context.Background(), ListUsageRecordsQuery{
			SubscriptionID: sub.ID(),
			Kind:           "data",
			From:           from,
			To:             testNow,
		})

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, int64(64), got[0].Amount)
		assert.Equal(t, "data", got[0].Kind)
	})

	t.Run("rejects inverted range", func(t *testing.T) {
		usage := new(mockUsageRecordRepository)
		uc := NewListUsageRecordsUseCase(usage, logger.NewNopLogger())

		_, err := uc.Execute(context.Background(), ListUsageRecordsQuery{SubscriptionID: "sub_1", From: testNow, To: from})

		assert.True(t, apperrors.IsValidationError(err))
		usage.AssertNotCalled(t, "ListBySubscription", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects unknown kind", func(t *testing.T) {
		uc := NewListUsageRecordsUseCase(new(mockUsageRecordRepository), logger.NewNopLogger())

		_, err := uc.Execute(context.Background(), ListUsageRecordsQuery{SubscriptionID: "sub_1", Kind: "bandwidth", From: from, To: testNow})

		assert.True(t, apperrors.IsValidationError(err))
	})
}
