package dto

import (
	"time"

	"github.com/budgetms/budget_management_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateExpenseRequest defines the data needed to record a new expense.
// BudgetID and ReceiptURL are optional; the core only stores the URL string
// returned by the object-storage collaborator.
type CreateExpenseRequest struct {
	BudgetID   string          `json:"budgetID"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	Category   string          `json:"category" binding:"required"`
	ReceiptURL string          `json:"receiptURL" binding:"omitempty,url"`
}

// ExpenseResponse defines the data returned for an expense.
type ExpenseResponse struct {
	ExpenseID  string          `json:"expenseID"`
	BudgetID   string          `json:"budgetID,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	Category   string          `json:"category"`
	Verified   bool            `json:"verified"`
	ReceiptURL string          `json:"receiptURL,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
	CreatedBy  string          `json:"createdBy"`
}

// ToExpenseResponse converts a domain.Expense to ExpenseResponse DTO.
func ToExpenseResponse(e *domain.Expense) ExpenseResponse {
	return ExpenseResponse{
		ExpenseID:  e.ExpenseID,
		BudgetID:   e.BudgetID,
		Amount:     e.Amount,
		Category:   e.Category,
		Verified:   e.Verified,
		ReceiptURL: e.ReceiptURL,
		CreatedAt:  e.CreatedAt,
		CreatedBy:  e.CreatedBy,
	}
}

// ListExpensesParams defines query parameters for listing expenses.
type ListExpensesParams struct {
	ListParams
	Category []string `form:"category"`
	Verified []string `form:"verified" binding:"omitempty,dive,oneof=true false"`
}

// ListExpensesResponse wraps one page of expenses with pagination metadata.
type ListExpensesResponse struct {
	Expenses []ExpenseResponse `json:"expenses"`
	PageMeta
}

// ToListExpensesResponse converts a page of domain expenses plus metadata.
func ToListExpensesResponse(expenses []domain.Expense, meta PageMeta) ListExpensesResponse {
	res := make([]ExpenseResponse, len(expenses))
	for i := range expenses {
		res[i] = ToExpenseResponse(&expenses[i])
	}
	return ListExpensesResponse{Expenses: res, PageMeta: meta}
}
