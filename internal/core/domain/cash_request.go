package domain

import (
	"github.com/shopspring/decimal"
)

// CashRequestStatus defines the lifecycle state of a cash request.
type CashRequestStatus string

const (
	CashRequestPending   CashRequestStatus = "PENDING"
	CashRequestApproved  CashRequestStatus = "APPROVED"
	CashRequestRejected  CashRequestStatus = "REJECTED"
	CashRequestDisbursed CashRequestStatus = "DISBURSED"
)

// IsValid reports whether s is a known cash request status.
func (s CashRequestStatus) IsValid() bool {
	switch s {
	case CashRequestPending, CashRequestApproved, CashRequestRejected, CashRequestDisbursed:
		return true
	}
	return false
}

// CanTransitionTo reports whether a cash request in the current status may
// move to target. REJECTED and DISBURSED are terminal.
func (s CashRequestStatus) CanTransitionTo(target CashRequestStatus) bool {
	switch s {
	case CashRequestPending:
		return target == CashRequestApproved || target == CashRequestRejected
	case CashRequestApproved:
		return target == CashRequestDisbursed
	}
	return false
}

// CashRequest represents a request to draw down against an approved budget.
// BudgetID is a non-owning reference used for balance checks only; disbursing
// a cash request does not consume the budget's used amount.
type CashRequest struct {
	CashRequestID string            `json:"cashRequestID"`
	BudgetID      string            `json:"budgetID"`
	Amount        decimal.Decimal   `json:"amount"`
	Purpose       string            `json:"purpose"`
	Status        CashRequestStatus `json:"status"`
	AuditFields
}
