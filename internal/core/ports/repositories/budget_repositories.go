package repositories

import (
	"context"

	"github.com/budgetms/budget_management_app/internal/core/domain"
)

// BudgetListFilter narrows a budget listing. Search matches the department.
type BudgetListFilter struct {
	ListFilter
	Statuses []domain.BudgetStatus
}

// BudgetRepository persists budgets.
type BudgetRepository interface {
	// SaveBudget inserts a new budget.
	SaveBudget(ctx context.Context, budget domain.Budget) error

	// FindBudgetByID returns the budget or apperrors.ErrNotFound.
	FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error)

	// ListBudgets returns one page plus the exact total count under the same
	// filters.
	ListBudgets(ctx context.Context, filter BudgetListFilter) ([]domain.Budget, int64, error)

	// ListApprovedBudgets returns all APPROVED budgets ordered by department,
	// for the cash-request budget picker.
	ListApprovedBudgets(ctx context.Context) ([]domain.Budget, error)

	// TryTransitionBudgetStatus conditionally updates the status, matching the
	// row only if its current status equals expected. Returns false (and no
	// error) when zero rows matched.
	TryTransitionBudgetStatus(ctx context.Context, budgetID string, expected, next domain.BudgetStatus) (bool, error)

	// SummarizeBudgets returns the count and amount total over all budgets.
	SummarizeBudgets(ctx context.Context) (Summary, error)
}
