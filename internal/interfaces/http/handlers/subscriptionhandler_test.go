package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	subdto "github.com/orris-inc/proxypanel/internal/application/subscription/dto"
	"github.com/orris-inc/proxypanel/internal/application/subscription/usecases"
	"github.com/orris-inc/proxypanel/internal/interfaces/http/handlers/testutil"
	"github.com/orris-inc/proxypanel/internal/shared/errors"
	"github.com/orris-inc/proxypanel/internal/shared/logger"
)

const testSubscriptionID = "sub_abc123def456"

// =====================================================================
// Mock use cases
// =====================================================================

type mockCreateSubscriptionUC struct {
	result *subdto.SubscriptionDTO
	err    error
	got    usecases.CreateSubscriptionCommand
}

func (m *mockCreateSubscriptionUC) Execute(ctx context.Context, cmd usecases.CreateSubscriptionCommand) (*subdto.SubscriptionDTO, error) {
	m.got = cmd
	return m.result, m.err
}

type mockGetSubscriptionUC struct {
	result *subdto.SubscriptionDTO
	err    error
}

func (m *mockGetSubscriptionUC) Execute(ctx context.Context, query usecases.GetSubscriptionQuery) (*subdto.SubscriptionDTO, error) {
	return m.result, m.err
}

type mockListSubscriptionsUC struct {
	result *usecases.ListSubscriptionsResult
	err    error
	got    usecases.ListSubscriptionsQuery
}

func (m *mockListSubscriptionsUC) Execute(ctx context.Context, query usecases.ListSubscriptionsQuery) (*usecases.ListSubscriptionsResult, error) {
	m.got = query
	return m.result, m.err
}

type mockDeleteSubscriptionUC struct {
	err   error
	calls int
}

func (m *mockDeleteSubscriptionUC) Execute(ctx context.Context, cmd usecases.DeleteSubscriptionCommand) error {
	m.calls++
	return m.err
}

type mockUsageSummaryUC struct {
	result *subdto.UsageSummaryDTO
	err    error
}

func (m *mockUsageSummaryUC) Execute(ctx context.Context, query usecases.GetUsageSummaryQuery) (*subdto.UsageSummaryDTO, error) {
	return m.result, m.err
}

type mockUsageRecordsUC struct {
	result []*subdto.UsageRecordDTO
	err    error
	got    usecases.ListUsageRecordsQuery
	calls  int
}

func (m *mockUsageRecordsUC) Execute(ctx context.Context, query usecases.ListUsageRecordsQuery) ([]*subdto.UsageRecordDTO, error) {
	m.got = query
	m.calls++
	return m.result, m.err
}

// =====================================================================
// Test helpers
// =====================================================================

type subscriptionHandlerMocks struct {
	create  *mockCreateSubscriptionUC
	get     *mockGetSubscriptionUC
	list    *mockListSubscriptionsUC
	del     *mockDeleteSubscriptionUC
	summary *mockUsageSummaryUC
	records *mockUsageRecordsUC
}

func newTestSubscriptionHandler() (*SubscriptionHandler, *subscriptionHandlerMocks) {
	m := &subscriptionHandlerMocks{
		create:  &mockCreateSubscriptionUC{},
		get:     &mockGetSubscriptionUC{},
		list:    &mockListSubscriptionsUC{},
		del:     &mockDeleteSubscriptionUC{},
		summary: &mockUsageSummaryUC{},
		records: &mockUsageRecordsUC{},
	}
	h := NewSubscriptionHandler(m.create, m.get, m.list, m.del, m.summary, m.records, logger.NewNopLogger())
	return h, m
}

func createTestSubscriptionDTO() *subdto.SubscriptionDTO {
	limit := int64(100 << 30)
	return &subdto.SubscriptionDTO{
		ID:        testSubscriptionID,
		UserID:    "user_1",
		Type:      "basic",
		Status:    "active",
		DataLimit: &limit,
		IsActive:  true,
		Version:   2,
	}
}

// =====================================================================
// CreateSubscription
// =====================================================================

func TestSubscriptionHandler_CreateSubscription_Success(t *testing.T) {
	handler, mocks := newTestSubscriptionHandler()
	mocks.create.result = createTestSubscriptionDTO()

	limit := int64(1024)
	reqBody := CreateSubscriptionRequest{
		UserID:     "user_1",
		Type:       "basic",
		DataLimit:  &limit,
		ExpiryDays: 30,
		Activate:   true,
		Features: []FeatureRequest{
			{Name: "ipv6", Kind: "boolean", Value: true},
		},
	}
	c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/subscriptions", reqBody)

	handler.CreateSubscription(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	assert.True(t, resp.Success)

	var got subdto.SubscriptionDTO
	require.NoError(t, testutil.DecodeData(resp, &got))
	assert.Equal(t, testSubscriptionID, got.ID)

	assert.Equal(t, "user_1", mocks.create.got.UserID)
	assert.True(t, mocks.create.got.Activate)
	require.Len(t, mocks.create.got.Features, 1)
	assert.Equal(t, "boolean", mocks.create.got.Features[0].Kind)
}

func TestSubscriptionHandler_CreateSubscription_InvalidRequest(t *testing.T) {
	handler, _ := newTestSubscriptionHandler()

	c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/subscriptions", map[string]string{"name": "missing user"})

	handler.CreateSubscription(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "validation_error", resp.Error.Type)
}

func TestSubscriptionHandler_CreateSubscription_InvalidFeatureKind(t *testing.T) {
	handler, _ := newTestSubscriptionHandler()

	reqBody := CreateSubscriptionRequest{
		UserID:   "user_1",
		Type:     "basic",
		Features: []FeatureRequest{{Name: "x", Kind: "colour"}},
	}
	c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/subscriptions", reqBody)

	handler.CreateSubscription(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubscriptionHandler_CreateSubscription_UseCaseError(t *testing.T) {
	handler, mocks := newTestSubscriptionHandler()
	mocks.create.err = errors.NewValidationError("unknown subscription type", "gold")

	c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/subscriptions", CreateSubscriptionRequest{UserID: "user_1", Type: "gold"})

	handler.CreateSubscription(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	assert.Equal(t, "unknown subscription type", resp.Error.Message)
}

// =====================================================================
// GetSubscription / DeleteSubscription
// =====================================================================

func TestSubscriptionHandler_GetSubscription_Success(t *testing.T) {
	handler, mocks := newTestSubscriptionHandler()
	mocks.get.result = createTestSubscriptionDTO()

	c, w := testutil.NewTestContext(http.MethodGet, "/api/v1/subscriptions/"+testSubscriptionID, nil)
	testutil.SetURLParam(c, "id", testSubscriptionID)

	handler.GetSubscription(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSubscriptionHandler_GetSubscription_InvalidID(t *testing.T) {
	handler, _ := newTestSubscriptionHandler()

	c, w := testutil.NewTestContext(http.MethodGet, "/api/v1/subscriptions/42", nil)
	testutil.SetURLParam(c, "id", "42")

	handler.GetSubscription(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubscriptionHandler_GetSubscription_NotFound(t *testing.T) {
	handler, mocks := newTestSubscriptionHandler()
	mocks.get.err = errors.NewNotFoundError("subscription not found")

	c, w := testutil.NewTestContext(http.MethodGet, "/api/v1/subscriptions/"+testSubscriptionID, nil)
	testutil.SetURLParam(c, "id", testSubscriptionID)

	handler.GetSubscription(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubscriptionHandler_DeleteSubscription(t *testing.T) {
	handler, mocks := newTestSubscriptionHandler()

	c, w := testutil.NewTestContext(http.MethodDelete, "/api/v1/subscriptions/"+testSubscriptionID, nil)
	testutil.SetURLParam(c, "id", testSubscriptionID)

	handler.DeleteSubscription(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 1, mocks.del.calls)
}

// =====================================================================
// ListSubscriptions
// =====================================================================

func TestSubscriptionHandler_ListSubscriptions_PassesFilters(t *testing.T) {
	handler, mocks := newTestSubscriptionHandler()
	mocks.list.result = &usecases.ListSubscriptionsResult{
		Subscriptions: []*subdto.SubscriptionDTO{createTestSubscriptionDTO()},
		Total:         41,
	}

	c, w := testutil.NewTestContext(http.MethodGet, "/api/v1/subscriptions", nil)
	testutil.SetQueryParams(c, map[string]string{
		"user_id":   "user_1",
		"status":    "active",
		"page":      "2",
		"page_size": "20",
	})

	handler.ListSubscriptions(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user_1", mocks.list.got.UserID)
	assert.Equal(t, "active", mocks.list.got.Status)
	assert.Equal(t, 2, mocks.list.got.Page)
	assert.Equal(t, 20, mocks.list.got.PageSize)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	var list struct {
		Total      int64 `json:"total"`
		TotalPages int   `json:"total_pages"`
	}
	require.NoError(t, testutil.DecodeData(resp, &list))
	assert.Equal(t, int64(41), list.Total)
	assert.Equal(t, 3, list.TotalPages)
}

// =====================================================================
// Usage queries
// =====================================================================

func TestSubscriptionHandler_GetUsageSummary(t *testing.T) {
	handler, mocks := newTestSubscriptionHandler()
	mocks.summary.result = &subdto.UsageSummaryDTO{SubscriptionID: testSubscriptionID, DataUsed: 512}

	c, w := testutil.NewTestContext(http.MethodGet, "/usage-summary", nil)
	testutil.SetURLParam(c, "id", testSubscriptionID)

	handler.GetUsageSummary(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	var got subdto.UsageSummaryDTO
	require.NoError(t, testutil.DecodeData(resp, &got))
	assert.Equal(t, int64(512), got.DataUsed)
}

func TestSubscriptionHandler_ListUsageRecords_ParsesRange(t *testing.T) {
	handler, mocks := newTestSubscriptionHandler()

	c, w := testutil.NewTestContext(http.MethodGet, "/usage-records", nil)
	testutil.SetURLParam(c, "id", testSubscriptionID)
	testutil.SetQueryParams(c, map[string]string{
		"from": "2025-06-01T00:00:00Z",
		"to":   "2025-06-02T00:00:00+02:00",
		"kind": "data",
	})

	handler.ListUsageRecords(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), mocks.records.got.From)
	assert.Equal(t, time.Date(2025, 6, 1, 22, 0, 0, 0, time.UTC), mocks.records.got.To)
	assert.Equal(t, "data", mocks.records.got.Kind)
}

func TestSubscriptionHandler_ListUsageRecords_DefaultsToLastDay(t *testing.T) {
	handler, mocks := newTestSubscriptionHandler()

	c, _ := testutil.NewTestContext(http.MethodGet, "/usage-records", nil)
	testutil.SetURLParam(c, "id", testSubscriptionID)

	handler.ListUsageRecords(c)

	assert.Equal(t, 24*time.Hour, mocks.records.got.To.Sub(mocks.records.got.From))
	assert.WithinDuration(t, time.Now().UTC(), mocks.records.got.To, time.Minute)
}

func TestSubscriptionHandler_ListUsageRecords_InvalidFrom(t *testing.T) {
	handler, mocks := newTestSubscriptionHandler()

	c, w := testutil.NewTestContext(http.MethodGet, "/usage-records", nil)
	testutil.SetURLParam(c, "id", testSubscriptionID)
	testutil.SetQueryParams(c, map[string]string{"from": "yesterday"})

	handler.ListUsageRecords(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, mocks.records.calls)
}
