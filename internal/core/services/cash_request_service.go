package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/budgetms/budget_management_app/internal/apperrors"
	"github.com/budgetms/budget_management_app/internal/core/domain"
	"github.com/budgetms/budget_management_app/internal/core/policy"
	portsrepo "github.com/budgetms/budget_management_app/internal/core/ports/repositories"
	"github.com/budgetms/budget_management_app/internal/dto"
	"github.com/budgetms/budget_management_app/internal/middleware"
	"github.com/budgetms/budget_management_app/internal/utils/pagination"
	"github.com/google/uuid"
)

// cashRequestSortColumns is the allow-list of sortable columns for cash
// request listings.
var cashRequestSortColumns = map[string]bool{
	"purpose":    true,
	"amount":     true,
	"status":     true,
	"created_at": true,
}

type CashRequestService struct {
	CashRequestRepository portsrepo.CashRequestRepository
	BudgetRepository      portsrepo.BudgetRepository
}

func NewCashRequestService(cashRepo portsrepo.CashRequestRepository, budgetRepo portsrepo.BudgetRepository) *CashRequestService {
	return &CashRequestService{
		CashRequestRepository: cashRepo,
		BudgetRepository:      budgetRepo,
	}
}

// CreateCashRequest records a new PENDING draw-down request against an
// approved budget. All preconditions are checked before the insert; a
// violating request is rejected outright, never created-then-failed.
func (s *CashRequestService) CreateCashRequest(ctx context.Context, req dto.CreateCashRequestRequest, principal domain.Principal) (*domain.CashRequest, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := policy.Decide(policy.CashRequestCreate, policy.Input{Role: principal.Role, PrincipalID: principal.ID}); err != nil {
		return nil, err
	}

	purpose := strings.TrimSpace(req.Purpose)
	if purpose == "" {
		return nil, fmt.Errorf("%w: purpose is required", apperrors.ErrValidation)
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	budget, err := s.BudgetRepository.FindBudgetByID(ctx, req.BudgetID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: budget not found", apperrors.ErrValidation)
		}
		logger.Error("Failed to load budget for cash request", slog.String("error", err.Error()), slog.String("budget_id", req.BudgetID))
		return nil, err
	}
	if budget.Status != domain.BudgetApproved {
		return nil, fmt.Errorf("%w: cash requests can only be created for approved budgets", apperrors.ErrValidation)
	}
	// Boundary: a request for exactly the remaining balance is allowed.
	if req.Amount.GreaterThan(budget.Remaining()) {
		return nil, fmt.Errorf("%w: amount exceeds remaining budget, available: %s", apperrors.ErrValidation, budget.Remaining().StringFixed(2))
	}

	request := domain.CashRequest{
		CashRequestID: uuid.NewString(),
		BudgetID:      req.BudgetID,
		Amount:        req.Amount,
		Purpose:       purpose,
		Status:        domain.CashRequestPending,
		AuditFields: domain.AuditFields{
			CreatedAt: time.Now().UTC(),
			CreatedBy: principal.ID,
		},
	}

	if err := s.CashRequestRepository.SaveCashRequest(ctx, request); err != nil {
		logger.Error("Failed to save cash request", slog.String("error", err.Error()), slog.String("cash_request_id", request.CashRequestID))
		return nil, err
	}

	logger.Info("Cash request created", slog.String("cash_request_id", request.CashRequestID), slog.String("budget_id", request.BudgetID))
	return &request, nil
}

// GetCashRequestByID returns one cash request, subject to the read policy:
// a STAFF principal asking for someone else's record gets not-found, never a
// confirmation that the record exists.
func (s *CashRequestService) GetCashRequestByID(ctx context.Context, cashRequestID string, principal domain.Principal) (*domain.CashRequest, error) {
	request, err := s.CashRequestRepository.FindCashRequestByID(ctx, cashRequestID)
	if err != nil {
		return nil, err
	}
	if err := policy.Decide(policy.CashRequestRead, policy.Input{
		Role:        principal.Role,
		PrincipalID: principal.ID,
		OwnerID:     request.CreatedBy,
		Status:      request.Status,
	}); err != nil {
		return nil, err
	}
	return request, nil
}

// ListCashRequests returns one filtered page, scoped to the caller's own
// records for STAFF principals.
func (s *CashRequestService) ListCashRequests(ctx context.Context, params dto.ListCashRequestsParams, principal domain.Principal) ([]domain.CashRequest, int64, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	statuses := make([]domain.CashRequestStatus, 0, len(params.Status))
	for _, raw := range params.Status {
		status := domain.CashRequestStatus(raw)
		if !status.IsValid() {
			return nil, 0, fmt.Errorf("%w: unknown cash request status %q", apperrors.ErrValidation, raw)
		}
		statuses = append(statuses, status)
	}

	page := pagination.Normalize(params.Page, params.PageSize)
	filter := portsrepo.CashRequestListFilter{
		ListFilter: portsrepo.ListFilter{
			Search:   params.Search,
			SortBy:   sortColumn(cashRequestSortColumns, params.SortBy),
			SortDesc: params.SortOrder != "asc",
			Limit:    page.PageSize,
			Offset:   page.Offset,
		},
		Statuses:  statuses,
		CreatedBy: policy.ListOwnerFilter(principal),
	}

	requests, total, err := s.CashRequestRepository.ListCashRequests(ctx, filter)
	if err != nil {
		logger.Error("Failed to list cash requests", slog.String("error", err.Error()))
		return nil, 0, fmt.Errorf("failed to list cash requests: %w", err)
	}
	if requests == nil {
		requests = []domain.CashRequest{}
	}
	return requests, total, nil
}

// UpdateCashRequest applies a tagged update body: amount/purpose edits by the
// owner while PENDING or by FINANCE, and an optional status transition by
// FINANCE only. The transition rides the same compare-and-swap path as the
// action endpoints.
func (s *CashRequestService) UpdateCashRequest(ctx context.Context, cashRequestID string, req dto.UpdateCashRequestRequest, principal domain.Principal) (*domain.CashRequest, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	request, err := s.CashRequestRepository.FindCashRequestByID(ctx, cashRequestID)
	if err != nil {
		return nil, err
	}

	if req.Status != nil {
		// Checked up front so a STAFF caller gets FORBIDDEN for any status
		// write, regardless of ownership.
		if err := policy.Decide(policy.CashRequestTransition, policy.Input{Role: principal.Role, PrincipalID: principal.ID}); err != nil {
			return nil, err
		}
	}

	var purpose string
	if req.HasFieldChanges() {
		if err := policy.Decide(policy.CashRequestUpdateFields, policy.Input{
			Role:        principal.Role,
			PrincipalID: principal.ID,
			OwnerID:     request.CreatedBy,
			Status:      request.Status,
		}); err != nil {
			return nil, err
		}

		if req.Amount != nil && !req.Amount.IsPositive() {
			return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
		}
		if req.Purpose != nil {
			purpose = strings.TrimSpace(*req.Purpose)
			if purpose == "" {
				return nil, fmt.Errorf("%w: purpose is required", apperrors.ErrValidation)
			}
		}
	}

	// The status moves first, through the same compare-and-swap as the action
	// endpoints. A lost swap returns before anything has been written, so the
	// request stays untouched.
	if req.Status != nil {
		request, err = s.transition(ctx, cashRequestID, principal, *req.Status)
		if err != nil {
			return nil, err
		}
	}

	if req.HasFieldChanges() {
		if req.Amount != nil {
			request.Amount = *req.Amount
		}
		if req.Purpose != nil {
			request.Purpose = purpose
		}
		if err := s.CashRequestRepository.UpdateCashRequestFields(ctx, *request); err != nil {
			logger.Error("Failed to update cash request fields", slog.String("error", err.Error()), slog.String("cash_request_id", cashRequestID))
			return nil, err
		}
	}

	return request, nil
}

// DeleteCashRequest removes a cash request: FINANCE unconditionally, the
// owner only while it is still PENDING.
func (s *CashRequestService) DeleteCashRequest(ctx context.Context, cashRequestID string, principal domain.Principal) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	request, err := s.CashRequestRepository.FindCashRequestByID(ctx, cashRequestID)
	if err != nil {
		return err
	}
	if err := policy.Decide(policy.CashRequestDelete, policy.Input{
		Role:        principal.Role,
		PrincipalID: principal.ID,
		OwnerID:     request.CreatedBy,
		Status:      request.Status,
	}); err != nil {
		return err
	}

	if err := s.CashRequestRepository.DeleteCashRequest(ctx, cashRequestID); err != nil {
		logger.Error("Failed to delete cash request", slog.String("error", err.Error()), slog.String("cash_request_id", cashRequestID))
		return err
	}
	logger.Info("Cash request deleted", slog.String("cash_request_id", cashRequestID))
	return nil
}

// ApproveCashRequest moves a PENDING cash request to APPROVED. FINANCE only.
func (s *CashRequestService) ApproveCashRequest(ctx context.Context, cashRequestID string, principal domain.Principal) (*domain.CashRequest, error) {
	if err := policy.Decide(policy.CashRequestTransition, policy.Input{Role: principal.Role, PrincipalID: principal.ID}); err != nil {
		return nil, err
	}
	return s.transition(ctx, cashRequestID, principal, domain.CashRequestApproved)
}

// RejectCashRequest moves a PENDING cash request to REJECTED. FINANCE only.
func (s *CashRequestService) RejectCashRequest(ctx context.Context, cashRequestID string, principal domain.Principal) (*domain.CashRequest, error) {
	if err := policy.Decide(policy.CashRequestTransition, policy.Input{Role: principal.Role, PrincipalID: principal.ID}); err != nil {
		return nil, err
	}
	return s.transition(ctx, cashRequestID, principal, domain.CashRequestRejected)
}

// DisburseCashRequest moves an APPROVED cash request to DISBURSED. FINANCE
// only. Disbursement does not consume the budget's used amount; only expense
// verification does.
func (s *CashRequestService) DisburseCashRequest(ctx context.Context, cashRequestID string, principal domain.Principal) (*domain.CashRequest, error) {
	if err := policy.Decide(policy.CashRequestTransition, policy.Input{Role: principal.Role, PrincipalID: principal.ID}); err != nil {
		return nil, err
	}
	return s.transition(ctx, cashRequestID, principal, domain.CashRequestDisbursed)
}

// transition performs the compare-and-swap status move. The expected source
// state is derived from the transition table, so concurrent attempts on the
// same request resolve to exactly one winner; losers observe INVALID_STATE.
func (s *CashRequestService) transition(ctx context.Context, cashRequestID string, principal domain.Principal, target domain.CashRequestStatus) (*domain.CashRequest, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var expected domain.CashRequestStatus
	switch target {
	case domain.CashRequestApproved, domain.CashRequestRejected:
		expected = domain.CashRequestPending
	case domain.CashRequestDisbursed:
		expected = domain.CashRequestApproved
	default:
		return nil, fmt.Errorf("%w: no transition leads to %s", apperrors.ErrInvalidState, target)
	}

	ok, err := s.CashRequestRepository.TryTransitionStatus(ctx, cashRequestID, expected, target)
	if err != nil {
		logger.Error("Failed to transition cash request", slog.String("error", err.Error()), slog.String("cash_request_id", cashRequestID))
		return nil, err
	}
	if !ok {
		if _, findErr := s.CashRequestRepository.FindCashRequestByID(ctx, cashRequestID); findErr != nil {
			return nil, findErr
		}
		return nil, fmt.Errorf("%w: cash request is not %s", apperrors.ErrInvalidState, expected)
	}

	request, err := s.CashRequestRepository.FindCashRequestByID(ctx, cashRequestID)
	if err != nil {
		return nil, err
	}
	logger.Info("Cash request transitioned", slog.String("cash_request_id", cashRequestID), slog.String("status", string(target)))
	return request, nil
}
