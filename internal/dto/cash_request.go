package dto

import (
	"time"

	"github.com/budgetms/budget_management_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateCashRequestRequest defines the data needed to create a cash request.
type CreateCashRequestRequest struct {
	BudgetID string          `json:"budgetID" binding:"required"`
	Amount   decimal.Decimal `json:"amount" binding:"required"`
	Purpose  string          `json:"purpose" binding:"required"`
}

// UpdateCashRequestRequest is the tagged update body for PATCH. Pointers
// distinguish omitted fields from zero values. Status, when present, is a
// transition request and is policy-gated separately from the field updates.
type UpdateCashRequestRequest struct {
	Amount  *decimal.Decimal          `json:"amount"`
	Purpose *string                   `json:"purpose"`
	Status  *domain.CashRequestStatus `json:"status" binding:"omitempty,oneof=PENDING APPROVED REJECTED DISBURSED"`
}

// HasFieldChanges reports whether the body updates any non-status field.
func (r UpdateCashRequestRequest) HasFieldChanges() bool {
	return r.Amount != nil || r.Purpose != nil
}

// CashRequestResponse is the full cash request shape, returned to FINANCE and
// ADMIN principals.
type CashRequestResponse struct {
	CashRequestID string                   `json:"cashRequestID"`
	BudgetID      string                   `json:"budgetID"`
	Amount        decimal.Decimal          `json:"amount"`
	Purpose       string                   `json:"purpose"`
	Status        domain.CashRequestStatus `json:"status"`
	CreatedAt     time.Time                `json:"createdAt"`
	CreatedBy     string                   `json:"createdBy"`
}

// OwnCashRequestResponse is the STAFF projection: created_by is omitted since
// a STAFF listing only ever contains the caller's own records.
type OwnCashRequestResponse struct {
	CashRequestID string                   `json:"cashRequestID"`
	BudgetID      string                   `json:"budgetID"`
	Amount        decimal.Decimal          `json:"amount"`
	Purpose       string                   `json:"purpose"`
	Status        domain.CashRequestStatus `json:"status"`
	CreatedAt     time.Time                `json:"createdAt"`
}

// ToCashRequestResponse converts a domain.CashRequest to its full DTO.
func ToCashRequestResponse(cr *domain.CashRequest) CashRequestResponse {
	return CashRequestResponse{
		CashRequestID: cr.CashRequestID,
		BudgetID:      cr.BudgetID,
		Amount:        cr.Amount,
		Purpose:       cr.Purpose,
		Status:        cr.Status,
		CreatedAt:     cr.CreatedAt,
		CreatedBy:     cr.CreatedBy,
	}
}

// ToCashRequestProjection selects the response shape for the caller's role.
func ToCashRequestProjection(cr *domain.CashRequest, role domain.Role) any {
	if role.IsFinance() {
		return ToCashRequestResponse(cr)
	}
	return OwnCashRequestResponse{
		CashRequestID: cr.CashRequestID,
		BudgetID:      cr.BudgetID,
		Amount:        cr.Amount,
		Purpose:       cr.Purpose,
		Status:        cr.Status,
		CreatedAt:     cr.CreatedAt,
	}
}

// ListCashRequestsParams defines query parameters for listing cash requests.
type ListCashRequestsParams struct {
	ListParams
	Status []string `form:"status"`
}

// ListCashRequestsResponse wraps one page of role-projected cash requests.
type ListCashRequestsResponse struct {
	CashRequests []any `json:"cashRequests"`
	PageMeta
}

// ToListCashRequestsResponse projects a page of cash requests per role.
func ToListCashRequestsResponse(requests []domain.CashRequest, role domain.Role, meta PageMeta) ListCashRequestsResponse {
	res := make([]any, len(requests))
	for i := range requests {
		res[i] = ToCashRequestProjection(&requests[i], role)
	}
	return ListCashRequestsResponse{CashRequests: res, PageMeta: meta}
}
