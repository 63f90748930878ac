package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/budgetms/budget_management_app/internal/apperrors"
	"github.com/budgetms/budget_management_app/internal/core/domain"
	"github.com/budgetms/budget_management_app/internal/core/policy"
	portsrepo "github.com/budgetms/budget_management_app/internal/core/ports/repositories"
	"github.com/budgetms/budget_management_app/internal/dto"
	"github.com/budgetms/budget_management_app/internal/middleware"
	"github.com/budgetms/budget_management_app/internal/utils/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// budgetSortColumns is the allow-list of sortable columns for budget listings.
var budgetSortColumns = map[string]bool{
	"department": true,
	"period":     true,
	"amount":     true,
	"used":       true,
	"status":     true,
	"created_at": true,
}

type BudgetService struct {
	BudgetRepository portsrepo.BudgetRepository
}

func NewBudgetService(repo portsrepo.BudgetRepository) *BudgetService {
	return &BudgetService{BudgetRepository: repo}
}

// CreateBudget records a new departmental budget in PENDING.
func (s *BudgetService) CreateBudget(ctx context.Context, req dto.CreateBudgetRequest, principal domain.Principal) (*domain.Budget, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := policy.Decide(policy.BudgetCreate, policy.Input{Role: principal.Role, PrincipalID: principal.ID}); err != nil {
		return nil, err
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	budget := domain.Budget{
		BudgetID:   uuid.NewString(),
		Department: req.Department,
		Period:     req.Period,
		Amount:     req.Amount,
		Used:       decimal.Zero,
		Status:     domain.BudgetPending,
		AuditFields: domain.AuditFields{
			CreatedAt: time.Now().UTC(),
			CreatedBy: principal.ID,
		},
	}

	if err := s.BudgetRepository.SaveBudget(ctx, budget); err != nil {
		logger.Error("Failed to save budget in repository", slog.String("error", err.Error()), slog.String("budget_id", budget.BudgetID))
		return nil, err
	}

	logger.Info("Budget created", slog.String("budget_id", budget.BudgetID), slog.String("department", budget.Department))
	return &budget, nil
}

// GetBudgetByID returns a single budget.
func (s *BudgetService) GetBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	budget, err := s.BudgetRepository.FindBudgetByID(ctx, budgetID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find budget by ID", slog.String("error", err.Error()), slog.String("budget_id", budgetID))
		}
		return nil, err
	}
	return budget, nil
}

// ListBudgets returns one filtered page of budgets plus the exact total count.
func (s *BudgetService) ListBudgets(ctx context.Context, params dto.ListBudgetsParams) ([]domain.Budget, int64, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	statuses := make([]domain.BudgetStatus, 0, len(params.Status))
	for _, raw := range params.Status {
		status := domain.BudgetStatus(raw)
		if !status.IsValid() {
			return nil, 0, fmt.Errorf("%w: unknown budget status %q", apperrors.ErrValidation, raw)
		}
		statuses = append(statuses, status)
	}

	page := pagination.Normalize(params.Page, params.PageSize)
	filter := portsrepo.BudgetListFilter{
		ListFilter: portsrepo.ListFilter{
			Search:   params.Search,
			SortBy:   sortColumn(budgetSortColumns, params.SortBy),
			SortDesc: params.SortOrder != "asc",
			Limit:    page.PageSize,
			Offset:   page.Offset,
		},
		Statuses: statuses,
	}

	budgets, total, err := s.BudgetRepository.ListBudgets(ctx, filter)
	if err != nil {
		logger.Error("Failed to list budgets", slog.String("error", err.Error()))
		return nil, 0, fmt.Errorf("failed to list budgets: %w", err)
	}
	if budgets == nil {
		budgets = []domain.Budget{}
	}
	return budgets, total, nil
}

// ListApprovedBudgets returns all APPROVED budgets for the cash-request picker.
func (s *BudgetService) ListApprovedBudgets(ctx context.Context) ([]domain.Budget, error) {
	budgets, err := s.BudgetRepository.ListApprovedBudgets(ctx)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list approved budgets", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list approved budgets: %w", err)
	}
	if budgets == nil {
		budgets = []domain.Budget{}
	}
	return budgets, nil
}

// ApproveBudget moves a PENDING budget to APPROVED. FINANCE only.
func (s *BudgetService) ApproveBudget(ctx context.Context, budgetID string, principal domain.Principal) (*domain.Budget, error) {
	return s.transitionBudget(ctx, budgetID, principal, domain.BudgetApproved)
}

// RejectBudget moves a PENDING budget to REJECTED. FINANCE only.
func (s *BudgetService) RejectBudget(ctx context.Context, budgetID string, principal domain.Principal) (*domain.Budget, error) {
	return s.transitionBudget(ctx, budgetID, principal, domain.BudgetRejected)
}

func (s *BudgetService) transitionBudget(ctx context.Context, budgetID string, principal domain.Principal, target domain.BudgetStatus) (*domain.Budget, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := policy.Decide(policy.BudgetTransition, policy.Input{Role: principal.Role, PrincipalID: principal.ID}); err != nil {
		return nil, err
	}

	// Conditional update: only a PENDING row may move. Zero rows matched means
	// either the budget is absent or its state already moved; the follow-up
	// lookup tells the two apart.
	ok, err := s.BudgetRepository.TryTransitionBudgetStatus(ctx, budgetID, domain.BudgetPending, target)
	if err != nil {
		logger.Error("Failed to transition budget", slog.String("error", err.Error()), slog.String("budget_id", budgetID))
		return nil, err
	}
	if !ok {
		if _, findErr := s.BudgetRepository.FindBudgetByID(ctx, budgetID); findErr != nil {
			return nil, findErr
		}
		return nil, fmt.Errorf("%w: budget is not PENDING", apperrors.ErrInvalidState)
	}

	budget, err := s.BudgetRepository.FindBudgetByID(ctx, budgetID)
	if err != nil {
		return nil, err
	}
	logger.Info("Budget transitioned", slog.String("budget_id", budgetID), slog.String("status", string(target)))
	return budget, nil
}

// sortColumn validates a requested sort column against an allow-list, falling
// back to created_at.
func sortColumn(allowed map[string]bool, requested string) string {
	if allowed[requested] {
		return requested
	}
	return "created_at"
}
