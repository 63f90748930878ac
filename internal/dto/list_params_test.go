package dto_test

import (
	"testing"

	"github.com/budgetms/budget_management_app/internal/dto"
	"github.com/stretchr/testify/assert"
)

func TestNewPageMeta(t *testing.T) {
	testCases := []struct {
		name     string
		total    int64
		page     int
		pageSize int
		want     dto.PageMeta
	}{
		{
			name:  "partial last page rounds up",
			total: 25, page: 2, pageSize: 10,
			want: dto.PageMeta{Total: 25, Page: 2, PageSize: 10, TotalPages: 3},
		},
		{
			name:  "empty result still reports one page",
			total: 0, page: 1, pageSize: 10,
			want: dto.PageMeta{Total: 0, Page: 1, PageSize: 10, TotalPages: 1},
		},
		{
			name:  "zero page and pageSize fall back to defaults",
			total: 3, page: 0, pageSize: 0,
			want: dto.PageMeta{Total: 3, Page: 1, PageSize: 10, TotalPages: 1},
		},
		{
			name:  "oversized pageSize is clamped",
			total: 250, page: 1, pageSize: 5000,
			want: dto.PageMeta{Total: 250, Page: 1, PageSize: 100, TotalPages: 3},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, dto.NewPageMeta(tc.total, tc.page, tc.pageSize))
		})
	}
}
