package domain

import (
	"github.com/shopspring/decimal"
)

// Expense represents a finance-recorded cost, optionally linked to a budget.
// Verification is one-way; verifying a linked expense is the sole write path
// that increases the budget's used amount.
type Expense struct {
	ExpenseID  string          `json:"expenseID"`
	BudgetID   string          `json:"budgetID,omitempty"` // optional, non-owning
	Amount     decimal.Decimal `json:"amount"`
	Category   string          `json:"category"`
	Verified   bool            `json:"verified"`
	ReceiptURL string          `json:"receiptURL,omitempty"`
	AuditFields
}
