package domain

import (
	"github.com/shopspring/decimal"
)

// BudgetStatus defines the approval state of a budget.
type BudgetStatus string

const (
	BudgetPending  BudgetStatus = "PENDING"
	BudgetApproved BudgetStatus = "APPROVED"
	BudgetRejected BudgetStatus = "REJECTED"
)

// IsValid reports whether s is a known budget status.
func (s BudgetStatus) IsValid() bool {
	switch s {
	case BudgetPending, BudgetApproved, BudgetRejected:
		return true
	}
	return false
}

// Budget represents a departmental allocation for a period.
// Used only increases, and only through expense verification.
type Budget struct {
	BudgetID   string          `json:"budgetID"`
	Department string          `json:"department"`
	Period     string          `json:"period"`
	Amount     decimal.Decimal `json:"amount"`
	Used       decimal.Decimal `json:"used"`
	Status     BudgetStatus    `json:"status"`
	AuditFields
}

// Remaining returns the unconsumed part of the allocation.
func (b Budget) Remaining() decimal.Decimal {
	return b.Amount.Sub(b.Used)
}

// CanTransitionTo reports whether a budget in the current status may move to
// target. Approval and rejection are terminal: there is no re-opening.
func (s BudgetStatus) CanTransitionTo(target BudgetStatus) bool {
	if s != BudgetPending {
		return false
	}
	return target == BudgetApproved || target == BudgetRejected
}
