package repositories

import (
	"context"

	"github.com/budgetms/budget_management_app/internal/core/domain"
)

// CashRequestListFilter narrows a cash request listing. Search matches the
// purpose; CreatedBy, when non-empty, restricts the listing to one owner (the
// STAFF visibility rule).
type CashRequestListFilter struct {
	ListFilter
	Statuses  []domain.CashRequestStatus
	CreatedBy string
}

// CashRequestRepository persists cash requests.
type CashRequestRepository interface {
	// SaveCashRequest inserts a new cash request.
	SaveCashRequest(ctx context.Context, request domain.CashRequest) error

	// FindCashRequestByID returns the cash request or apperrors.ErrNotFound.
	FindCashRequestByID(ctx context.Context, cashRequestID string) (*domain.CashRequest, error)

	// ListCashRequests returns one page plus the exact total count under the
	// same filters.
	ListCashRequests(ctx context.Context, filter CashRequestListFilter) ([]domain.CashRequest, int64, error)

	// UpdateCashRequestFields persists amount and purpose for an existing
	// request. Status is never written through this path; transitions go
	// through TryTransitionStatus.
	UpdateCashRequestFields(ctx context.Context, request domain.CashRequest) error

	// TryTransitionStatus conditionally updates the status, matching the row
	// only if its current status equals expected. Returns false (and no error)
	// when zero rows matched, i.e. the state already moved.
	TryTransitionStatus(ctx context.Context, cashRequestID string, expected, next domain.CashRequestStatus) (bool, error)

	// DeleteCashRequest removes the request, returning apperrors.ErrNotFound
	// if it does not exist.
	DeleteCashRequest(ctx context.Context, cashRequestID string) error

	// SummarizeCashRequests returns the count and amount total over the cash
	// requests. A non-empty createdBy restricts the summary to one owner,
	// mirroring the listing filter.
	SummarizeCashRequests(ctx context.Context, createdBy string) (Summary, error)
}
