package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageFilter(t *testing.T) {
	tests := []struct {
		name       string
		filter     PageFilter
		wantOffset int
		wantLimit  int
	}{
		{"defaults", PageFilter{}, 0, DefaultPageSize},
		{"second page", PageFilter{Page: 2, PageSize: 10}, 10, 10},
		{"capped", PageFilter{Page: 3, PageSize: 500}, 2 * MaxPageSize, MaxPageSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantOffset, tt.filter.Offset())
			assert.Equal(t, tt.wantLimit, tt.filter.Limit())
		})
	}
}

func TestSortFilter_OrderClause(t *testing.T) {
	assert.Equal(t, "", SortFilter{}.OrderClause())
	assert.Equal(t, "created_at DESC", SortFilter{SortBy: "created_at", SortOrder: "DESC"}.OrderClause())
	assert.Equal(t, "expiry_date ASC", SortFilter{SortBy: "expiry_date"}.OrderClause())
}

func TestNewBaseFilter(t *testing.T) {
	f := NewBaseFilter(WithPage(2, 50), WithSort("updated_at", "asc"))
	assert.Equal(t, 50, f.Offset())
	assert.Equal(t, "updated_at ASC", f.OrderClause())

	def := NewBaseFilter()
	assert.Equal(t, 1, def.Page)
	assert.True(t, def.IsDescending())
}
