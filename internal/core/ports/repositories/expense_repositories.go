package repositories

import (
	"context"

	"github.com/budgetms/budget_management_app/internal/core/domain"
)

// ExpenseListFilter narrows an expense listing. Search matches the category.
type ExpenseListFilter struct {
	ListFilter
	Categories []string
	Verified   []bool
}

// ExpenseRepository persists expenses.
type ExpenseRepository interface {
	// SaveExpense inserts a new, unverified expense.
	SaveExpense(ctx context.Context, expense domain.Expense) error

	// FindExpenseByID returns the expense or apperrors.ErrNotFound.
	FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error)

	// ListExpenses returns one page plus the exact total count under the same
	// filters.
	ListExpenses(ctx context.Context, filter ExpenseListFilter) ([]domain.Expense, int64, error)

	// VerifyExpense flips verified false->true and, when the expense is linked
	// to a budget, increments that budget's used amount by the expense amount,
	// both inside one transaction. The flip is conditional on the current
	// verified value; zero rows matched yields apperrors.ErrInvalidState. The
	// increment is guarded so used never exceeds amount; a guard miss yields
	// apperrors.ErrValidation and rolls the flip back.
	VerifyExpense(ctx context.Context, expense domain.Expense) error

	// SummarizeExpenses returns the count and amount total over all expenses.
	SummarizeExpenses(ctx context.Context) (Summary, error)
}
