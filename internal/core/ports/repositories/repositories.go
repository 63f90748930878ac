// Package repositories defines the persistence contracts the core services
// depend on. Implementations live under internal/adapters/database.
package repositories

import (
	"github.com/shopspring/decimal"
)

// ListFilter holds the common paging, sorting and search parameters shared by
// every filtered listing. SortBy must already be validated against the
// per-resource allow-list before it reaches a repository; Search is matched as
// a case-insensitive substring against the resource's single searchable text
// column.
type ListFilter struct {
	Search   string
	SortBy   string
	SortDesc bool
	Limit    int
	Offset   int
}

// Summary is an aggregate over one collection, used by the dashboard.
type Summary struct {
	Count       int64
	TotalAmount decimal.Decimal
}
