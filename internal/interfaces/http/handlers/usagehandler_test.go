package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/proxypanel/internal/application/subscription/usecases"
	"github.com/orris-inc/proxypanel/internal/interfaces/http/handlers/testutil"
	"github.com/orris-inc/proxypanel/internal/shared/logger"
)

func TestUsageHandler_RecordUsage(t *testing.T) {
	record := newCommand[usecases.RecordUsageCommand]()
	handler := NewUsageHandler(UsageUseCases{RecordUsage: record}, logger.NewNopLogger())

	at := time.Date(2025, 6, 15, 12, 0, 0, 0, time.FixedZone("UTC+8", 8*3600))
	c, w := testutil.NewTestContext(http.MethodPost, "/usage", RecordUsageRequest{
		Kind:       "data",
		Amount:     4096,
		SourceID:   "node-7",
		RecordedAt: &at,
	})
	testutil.SetURLParam(c, "id", testSubscriptionID)

	handler.RecordUsage(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "data", record.got.Kind)
	assert.Equal(t, int64(4096), record.got.Amount)
	assert.Equal(t, usecases.UsageSourceAPI, record.got.Source)
	assert.Equal(t, time.UTC, record.got.RecordedAt.Location())
	assert.True(t, at.Equal(record.got.RecordedAt))
}

func TestUsageHandler_RecordUsage_FeatureNeedsName(t *testing.T) {
	record := newCommand[usecases.RecordUsageCommand]()
	handler := NewUsageHandler(UsageUseCases{RecordUsage: record}, logger.NewNopLogger())

	c, w := testutil.NewTestContext(http.MethodPost, "/usage", RecordUsageRequest{Kind: "feature", Amount: 1})
	testutil.SetURLParam(c, "id", testSubscriptionID)

	handler.RecordUsage(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, record.calls)
}

func TestUsageHandler_RecordUsage_RejectsNegativeAmount(t *testing.T) {
	record := newCommand[usecases.RecordUsageCommand]()
	handler := NewUsageHandler(UsageUseCases{RecordUsage: record}, logger.NewNopLogger())

	c, w := testutil.NewTestContext(http.MethodPost, "/usage", map[string]any{"kind": "data", "amount": -5})
	testutil.SetURLParam(c, "id", testSubscriptionID)

	handler.RecordUsage(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, record.calls)
}

func TestUsageHandler_SetDataUsage_RequiresBytes(t *testing.T) {
	set := newCommand[usecases.SetDataUsageCommand]()
	handler := NewUsageHandler(UsageUseCases{SetDataUsage: set}, logger.NewNopLogger())

	c, w := testutil.NewTestContext(http.MethodPut, "/usage", map[string]any{})
	testutil.SetURLParam(c, "id", testSubscriptionID)
	handler.SetDataUsage(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, w = testutil.NewTestContext(http.MethodPut, "/usage", map[string]any{"bytes": 0})
	testutil.SetURLParam(c, "id", testSubscriptionID)
	handler.SetDataUsage(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(0), set.got.Bytes)
}

func TestUsageHandler_UpdateDataLimit_NullRemovesCap(t *testing.T) {
	update := newCommand[usecases.UpdateDataLimitCommand]()
	handler := NewUsageHandler(UsageUseCases{UpdateDataLimit: update}, logger.NewNopLogger())

	c, w := testutil.NewTestContext(http.MethodPut, "/data-limit", map[string]any{"limit": nil})
	testutil.SetURLParam(c, "id", testSubscriptionID)

	handler.UpdateDataLimit(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, update.calls)
	assert.Nil(t, update.got.Limit)
}

func TestUsageHandler_SetAutoRenew(t *testing.T) {
	set := newCommand[usecases.SetAutoRenewCommand]()
	handler := NewUsageHandler(UsageUseCases{SetAutoRenew: set}, logger.NewNopLogger())

	c, w := testutil.NewTestContext(http.MethodPut, "/auto-renew", map[string]any{"enabled": false})
	testutil.SetURLParam(c, "id", testSubscriptionID)

	handler.SetAutoRenew(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, set.calls)
	assert.False(t, set.got.Enabled)
}

func TestUsageHandler_AddFeature(t *testing.T) {
	manage := newCommand[usecases.ManageFeatureCommand]()
	handler := NewUsageHandler(UsageUseCases{ManageFeature: manage}, logger.NewNopLogger())

	limit := int64(5)
	c, w := testutil.NewTestContext(http.MethodPost, "/features", FeatureRequest{
		Name:  "max_devices",
		Kind:  "numeric",
		Value: 1,
		Limit: &limit,
	})
	testutil.SetURLParam(c, "id", testSubscriptionID)

	handler.AddFeature(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, usecases.FeatureActionAdd, manage.got.Action)
	assert.Equal(t, "max_devices", manage.got.Spec.Name)
	require.NotNil(t, manage.got.Spec.Limit)
	assert.Equal(t, int64(5), *manage.got.Spec.Limit)
}

func TestUsageHandler_FeatureAction_ReadsPath(t *testing.T) {
	manage := newCommand[usecases.ManageFeatureCommand]()
	handler := NewUsageHandler(UsageUseCases{ManageFeature: manage}, logger.NewNopLogger())

	c, w := testutil.NewTestContext(http.MethodPost, "/features/max_devices/increment", FeatureActionRequest{Amount: 2})
	testutil.SetURLParam(c, "id", testSubscriptionID)
	testutil.SetURLParam(c, "name", "max_devices")
	testutil.SetURLParam(c, "action", "increment")

	handler.FeatureAction(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "max_devices", manage.got.Name)
	assert.Equal(t, usecases.FeatureActionIncrement, manage.got.Action)
	assert.Equal(t, int64(2), manage.got.Amount)
}

func TestUsageHandler_RemoveFeature(t *testing.T) {
	manage := newCommand[usecases.ManageFeatureCommand]()
	handler := NewUsageHandler(UsageUseCases{ManageFeature: manage}, logger.NewNopLogger())

	c, w := testutil.NewTestContext(http.MethodDelete, "/features/region", nil)
	testutil.SetURLParam(c, "id", testSubscriptionID)
	testutil.SetURLParam(c, "name", "region")

	handler.RemoveFeature(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, usecases.FeatureActionRemove, manage.got.Action)
	assert.Equal(t, "region", manage.got.Name)
}
