package dto

import (
	"github.com/shopspring/decimal"
)

// CollectionStats aggregates one collection for the dashboard: total row
// count, decimal amount total and the five most recent records.
type CollectionStats[T any] struct {
	Total  int64           `json:"total"`
	Amount decimal.Decimal `json:"amount"`
	Recent []T             `json:"recent"`
}

// DashboardResponse is the home dashboard payload.
type DashboardResponse struct {
	Budgets      CollectionStats[BudgetResponse]      `json:"budgets"`
	CashRequests CollectionStats[CashRequestResponse] `json:"cashRequests"`
	Expenses     CollectionStats[ExpenseResponse]     `json:"expenses"`
}
