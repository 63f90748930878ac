package dto

import (
	"github.com/budgetms/budget_management_app/internal/utils/pagination"
)

// ListParams defines the query parameters shared by every listing endpoint.
// SortBy is validated against a per-resource allow-list before it reaches the
// store; anything else falls back to created_at.
type ListParams struct {
	Page      int    `form:"page,default=1"`
	PageSize  int    `form:"pageSize,default=10"`
	Search    string `form:"search"`
	SortBy    string `form:"sortBy,default=created_at"`
	SortOrder string `form:"sortOrder,default=desc" binding:"omitempty,oneof=asc desc"`
}

// PageMeta carries pagination metadata alongside a page of results.
type PageMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalPages int   `json:"totalPages"`
}

// NewPageMeta computes the metadata for one page. Page and pageSize are
// clamped the same way the listing queries clamp them, so the reported
// values always describe the page that was actually fetched.
func NewPageMeta(total int64, page, pageSize int) PageMeta {
	p := pagination.Normalize(page, pageSize)
	totalPages := int((total + int64(p.PageSize) - 1) / int64(p.PageSize))
	if totalPages < 1 {
		totalPages = 1
	}
	return PageMeta{
		Total:      total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: totalPages,
	}
}
