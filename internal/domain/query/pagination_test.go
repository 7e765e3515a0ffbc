package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPagination_Normalize(t *testing.T) {
	tests := []struct {
		name      string
		in        Pagination
		wantPage  int
		wantLimit int
	}{
		{"zero values fall back to defaults", Pagination{}, 1, 20},
		{"negative page clamps to first", Pagination{Page: -3, Limit: 10}, 1, 10},
		{"negative limit falls back", Pagination{Page: 2, Limit: -1}, 2, 20},
		{"explicit values pass through", Pagination{Page: 4, Limit: 50}, 4, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalize(20)
			assert.Equal(t, tt.wantPage, got.Page)
			assert.Equal(t, tt.wantLimit, got.Limit)
		})
	}
}

func TestPagination_Offset(t *testing.T) {
	assert.Equal(t, 0, Pagination{Page: 1, Limit: 20}.Offset())
	assert.Equal(t, 20, Pagination{Page: 2, Limit: 20}.Offset())
	assert.Equal(t, 45, Pagination{Page: 4, Limit: 15}.Offset())
}

func TestNewPageMeta(t *testing.T) {
	tests := []struct {
		name     string
		total    int64
		p        Pagination
		wantSize int
	}{
		{"exact multiple", 40, Pagination{Page: 1, Limit: 20}, 2},
		{"partial last page", 41, Pagination{Page: 1, Limit: 20}, 3},
		{"empty result", 0, Pagination{Page: 1, Limit: 20}, 0},
		{"single page", 5, Pagination{Page: 1, Limit: 10}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := NewPageMeta(tt.total, tt.p)
			assert.Equal(t, tt.total, meta.Total)
			assert.Equal(t, tt.p.Page, meta.Page)
			assert.Equal(t, tt.p.Limit, meta.Limit)
			assert.Equal(t, tt.wantSize, meta.PageSize)
		})
	}
}
