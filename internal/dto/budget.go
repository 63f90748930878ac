package dto

import (
	"time"

	"github.com/budgetms/budget_management_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateBudgetRequest defines the data needed to create a new budget.
type CreateBudgetRequest struct {
	Department string          `json:"department" binding:"required"`
	Period     string          `json:"period" binding:"required"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
}

// BudgetResponse defines the data returned for a budget.
type BudgetResponse struct {
	BudgetID   string              `json:"budgetID"`
	Department string              `json:"department"`
	Period     string              `json:"period"`
	Amount     decimal.Decimal     `json:"amount"`
	Used       decimal.Decimal     `json:"used"`
	Remaining  decimal.Decimal     `json:"remaining"`
	Status     domain.BudgetStatus `json:"status"`
	CreatedAt  time.Time           `json:"createdAt"`
	CreatedBy  string              `json:"createdBy"`
}

// ToBudgetResponse converts a domain.Budget to BudgetResponse DTO.
func ToBudgetResponse(b *domain.Budget) BudgetResponse {
	return BudgetResponse{
		BudgetID:   b.BudgetID,
		Department: b.Department,
		Period:     b.Period,
		Amount:     b.Amount,
		Used:       b.Used,
		Remaining:  b.Remaining(),
		Status:     b.Status,
		CreatedAt:  b.CreatedAt,
		CreatedBy:  b.CreatedBy,
	}
}

// ListBudgetsParams defines query parameters for listing budgets.
type ListBudgetsParams struct {
	ListParams
	Status []string `form:"status"`
}

// ListBudgetsResponse wraps one page of budgets with pagination metadata.
type ListBudgetsResponse struct {
	Budgets []BudgetResponse `json:"budgets"`
	PageMeta
}

// ToListBudgetsResponse converts a page of domain budgets plus the total count.
func ToListBudgetsResponse(budgets []domain.Budget, meta PageMeta) ListBudgetsResponse {
	res := make([]BudgetResponse, len(budgets))
	for i := range budgets {
		res[i] = ToBudgetResponse(&budgets[i])
	}
	return ListBudgetsResponse{Budgets: res, PageMeta: meta}
}
