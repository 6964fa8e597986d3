package agent

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/proxypanel/internal/infrastructure/cache"
	"github.com/orris-inc/proxypanel/internal/interfaces/http/handlers/testutil"
	"github.com/orris-inc/proxypanel/internal/shared/logger"
)

type mockTrafficBuffer struct {
	mock.Mock
}

func (m *mockTrafficBuffer) AddBatch(ctx context.Context, deltas map[string]int64) error {
	args := m.Called(ctx, deltas)
	return args.Error(0)
}

type mockQuotaReader struct {
	mock.Mock
}

func (m *mockQuotaReader) GetQuota(ctx context.Context, subscriptionID string) (*cache.CachedQuota, error) {
	args := m.Called(ctx, subscriptionID)
	quota, _ := args.Get(0).(*cache.CachedQuota)
	return quota, args.Error(1)
}

func TestTrafficHandler_ReportTraffic_AggregatesPerSubscription(t *testing.T) {
	buffer := new(mockTrafficBuffer)
	buffer.On("AddBatch", mock.Anything, map[string]int64{"sub_a": 35, "sub_c": 7}).Return(nil)
	handler := NewTrafficHandler(buffer, nil, logger.NewNopLogger())

	c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/agent/traffic", ReportTrafficRequest{
		Items: []TrafficItem{
			{SubscriptionID: "sub_a", Upload: 10, Download: 20},
			{SubscriptionID: "sub_a", Upload: 5},
			{SubscriptionID: "node_1", Upload: 1, Download: 1},
			{SubscriptionID: "sub_b"},
			{SubscriptionID: "sub_c", Download: 7},
		},
	})

	handler.ReportTraffic(c)

	assert.Equal(t, http.StatusAccepted, w.Code)
	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	var got ReportTrafficResponse
	require.NoError(t, testutil.DecodeData(resp, &got))
	assert.Equal(t, ReportTrafficResponse{Accepted: 3, Ignored: 2}, got)
	buffer.AssertExpectations(t)
}

func TestTrafficHandler_ReportTraffic_NothingToBuffer(t *testing.T) {
	buffer := new(mockTrafficBuffer)
	handler := NewTrafficHandler(buffer, nil, logger.NewNopLogger())

	c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/agent/traffic", ReportTrafficRequest{
		Items: []TrafficItem{{SubscriptionID: "sub_a"}},
	})

	handler.ReportTraffic(c)

	assert.Equal(t, http.StatusAccepted, w.Code)
	buffer.AssertNotCalled(t, "AddBatch", mock.Anything, mock.Anything)
}

func TestTrafficHandler_ReportTraffic_RejectsEmptyAndNegative(t *testing.T) {
	handler := NewTrafficHandler(new(mockTrafficBuffer), nil, logger.NewNopLogger())

	for name, body := range map[string]any{
		"empty":    map[string]any{"items": []any{}},
		"negative": map[string]any{"items": []any{map[string]any{"subscription_id": "sub_a", "upload": -1}}},
	} {
		t.Run(name, func(t *testing.T) {
			c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/agent/traffic", body)

			handler.ReportTraffic(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestTrafficHandler_ReportTraffic_BufferFailure(t *testing.T) {
	buffer := new(mockTrafficBuffer)
	buffer.On("AddBatch", mock.Anything, mock.Anything).Return(errors.New("redis down"))
	handler := NewTrafficHandler(buffer, nil, logger.NewNopLogger())

	c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/agent/traffic", ReportTrafficRequest{
		Items: []TrafficItem{{SubscriptionID: "sub_a", Upload: 1}},
	})

	handler.ReportTraffic(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestTrafficHandler_GetQuota(t *testing.T) {
	expires := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		quota *cache.CachedQuota
		want  QuotaResponse
	}{
		{
			name:  "capped",
			quota: &cache.CachedQuota{Limit: 1000, Used: 400, Status: "active", ExpiresAt: expires},
			want: QuotaResponse{
				SubscriptionID: "sub_a",
				Status:         "active",
				Limit:          1000,
				Used:           400,
				Remaining:      600,
				ExpiresAt:      &expires,
			},
		},
		{
			name:  "over cap",
			quota: &cache.CachedQuota{Limit: 1000, Used: 1200, Status: "suspended", Suspended: true},
			want: QuotaResponse{
				SubscriptionID: "sub_a",
				Status:         "suspended",
				Suspended:      true,
				Limit:          1000,
				Used:           1200,
				Remaining:      0,
			},
		},
		{
			name:  "unlimited",
			quota: &cache.CachedQuota{Limit: -1, Used: 5, Status: "active"},
			want: QuotaResponse{
				SubscriptionID: "sub_a",
				Status:         "active",
				Unlimited:      true,
				Limit:          -1,
				Used:           5,
				Remaining:      -1,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quotas := new(mockQuotaReader)
			quotas.On("GetQuota", mock.Anything, "sub_a").Return(tt.quota, nil)
			handler := NewTrafficHandler(nil, quotas, logger.NewNopLogger())

			c, w := testutil.NewTestContext(http.MethodGet, "/api/v1/agent/subscriptions/sub_a/quota", nil)
			testutil.SetURLParam(c, "id", "sub_a")

			handler.GetQuota(c)

			assert.Equal(t, http.StatusOK, w.Code)
			var resp testutil.APIResponse
			require.NoError(t, testutil.ParseResponse(w, &resp))
			var got QuotaResponse
			require.NoError(t, testutil.DecodeData(resp, &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTrafficHandler_GetQuota_NotFound(t *testing.T) {
	quotas := new(mockQuotaReader)
	quotas.On("GetQuota", mock.Anything, "sub_gone").Return(nil, nil)
	handler := NewTrafficHandler(nil, quotas, logger.NewNopLogger())

	c, w := testutil.NewTestContext(http.MethodGet, "/quota", nil)
	testutil.SetURLParam(c, "id", "sub_gone")

	handler.GetQuota(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTrafficHandler_GetQuota_LoadError(t *testing.T) {
	quotas := new(mockQuotaReader)
	quotas.On("GetQuota", mock.Anything, "sub_a").Return(nil, errors.New("db down"))
	handler := NewTrafficHandler(nil, quotas, logger.NewNopLogger())

	c, w := testutil.NewTestContext(http.MethodGet, "/quota", nil)
	testutil.SetURLParam(c, "id", "sub_a")

	handler.GetQuota(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	assert.NotContains(t, resp.Error.Message, "db down")
}
