package subscription

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/orris-inc/proxypanel/internal/domain/subscription/valueobjects"
)

func TestNewUsageRecord_Validation(t *testing.T) {
	_, err := NewDataUsageRecord("", 10, vo.UsageSourcePanel, baseTime)
	assert.True(t, IsValidation(err))

	_, err = NewDataUsageRecord("sub_1", -1, vo.UsageSourcePanel, baseTime)
	assert.True(t, IsValidation(err))

	_, err = NewTimeUsageRecord("sub_1", 10, " ", baseTime)
	assert.True(t, IsValidation(err))

	_, err = NewFeatureUsageRecord("sub_1", "", 1, vo.UsageSourceAPI, baseTime)
	assert.True(t, IsValidation(err))
}

func TestNewUsageRecord_Options(t *testing.T) {
	at := baseTime.Add(-time.Hour)
	r, err := NewDataUsageRecord("sub_1", 2048, vo.UsageSourcePanel, baseTime,
		WithSourceID("node-7"),
		WithRecordedAt(at),
		WithUsageMetadata(map[string]any{"upload": 1024}),
	)
	require.NoError(t, err)

	assert.NotEmpty(t, r.ID())
	assert.Equal(t, vo.UsageKindData, r.Kind())
	assert.Equal(t, vo.MetricBytes, r.Metric())
	assert.Equal(t, int64(2048), r.Amount())
	assert.Equal(t, "node-7", r.SourceID())
	assert.Equal(t, at, r.RecordedAt())
	assert.Equal(t, baseTime, r.CreatedAt())
	assert.Equal(t, 1024, r.Metadata()["upload"])
}

func TestSubscription_RecordUsage(t *testing.T) {
	s, clock, buf := activeSubscription(t)

	_, err := s.RecordDataUsage(100, vo.UsageSourcePanel, buf)
	require.NoError(t, err)
	clock.Advance(time.Hour)
	_, err = s.RecordTimeUsage(30, vo.UsageSourcePanel, buf)
	require.NoError(t, err)
	clock.Advance(time.Hour)
	r, err := s.RecordFeatureUsage(FeatureMaxDevices, 1, vo.UsageSourceAPI, buf)
	require.NoError(t, err)
	_, err = s.RecordDataUsage(50, vo.UsageSourceManual, buf)
	require.NoError(t, err)

	assert.Equal(t, FeatureMaxDevices, r.Metric())
	assert.Equal(t, vo.UsageKindFeature, r.Kind())
	// The ledger never moves the usage counter.
	assert.Equal(t, int64(0), s.DataUsed())
	assert.Equal(t, int64(150), s.TotalUsage(vo.UsageKindData))
	assert.Equal(t, int64(30), s.TotalUsage(vo.UsageKindTime))

	ledger := s.Ledger()
	assert.Equal(t, 4, ledger.Len())
	assert.Len(t, ledger.ByKind(vo.UsageKindData), 2)
	assert.Len(t, ledger.Between(baseTime, baseTime.Add(time.Hour)), 1)
	assert.Len(t, ledger.ByKindBetween(vo.UsageKindData, baseTime.Add(time.Hour), baseTime.Add(3*time.Hour)), 1)
	assert.Len(t, ledger.PendingRecords(), 4)

	ledger.MarkPersisted()
	assert.Empty(t, ledger.PendingRecords())
	assert.Equal(t, 4, buf.Len())
	assert.Equal(t, EventTypeUsageRecorded, buf.Events()[0].GetEventType())
}

func TestSubscription_RecordUsageInvalid(t *testing.T) {
	s, _, buf := activeSubscription(t)
	version := s.Version()

	_, err := s.RecordDataUsage(-5, vo.UsageSourcePanel, buf)

	assert.True(t, IsValidation(err))
	assert.Zero(t, s.Ledger().Len())
	assert.Equal(t, version, s.Version())
}

func TestReconstructUsageLedger(t *testing.T) {
	r, err := ReconstructUsageRecord("r1", "sub_1", vo.UsageKindTime, vo.MetricMinutes, 5,
		vo.UsageSourcePanel, "", nil, baseTime, baseTime)
	require.NoError(t, err)

	ledger := ReconstructUsageLedger("sub_1", []*UsageRecord{r, nil})

	assert.Equal(t, 1, ledger.Len())
	assert.Empty(t, ledger.PendingRecords())
	assert.NotNil(t, r.Metadata())

	_, err = ReconstructUsageRecord("r2", "sub_1", "energy", "kwh", 5, "", "", nil, baseTime, baseTime)
	assert.True(t, IsValidation(err))
}
