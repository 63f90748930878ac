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
)

// expenseSortColumns is the allow-list of sortable columns for expense
// listings.
var expenseSortColumns = map[string]bool{
	"category":   true,
	"amount":     true,
	"verified":   true,
	"created_at": true,
}

type ExpenseService struct {
	ExpenseRepository portsrepo.ExpenseRepository
	BudgetRepository  portsrepo.BudgetRepository
}

func NewExpenseService(expenseRepo portsrepo.ExpenseRepository, budgetRepo portsrepo.BudgetRepository) *ExpenseService {
	return &ExpenseService{
		ExpenseRepository: expenseRepo,
		BudgetRepository:  budgetRepo,
	}
}

// CreateExpense records a new, unverified expense. FINANCE only. A linked
// budget must exist; the receipt URL, if any, is stored as-is (object storage
// is an external collaborator).
func (s *ExpenseService) CreateExpense(ctx context.Context, req dto.CreateExpenseRequest, principal domain.Principal) (*domain.Expense, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := policy.Decide(policy.ExpenseCreate, policy.Input{Role: principal.Role, PrincipalID: principal.ID}); err != nil {
		return nil, err
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	if req.BudgetID != "" {
		if _, err := s.BudgetRepository.FindBudgetByID(ctx, req.BudgetID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: budget not found", apperrors.ErrValidation)
			}
			return nil, err
		}
	}

	expense := domain.Expense{
		ExpenseID:  uuid.NewString(),
		BudgetID:   req.BudgetID,
		Amount:     req.Amount,
		Category:   req.Category,
		Verified:   false,
		ReceiptURL: req.ReceiptURL,
		AuditFields: domain.AuditFields{
			CreatedAt: time.Now().UTC(),
			CreatedBy: principal.ID,
		},
	}

	if err := s.ExpenseRepository.SaveExpense(ctx, expense); err != nil {
		logger.Error("Failed to save expense", slog.String("error", err.Error()), slog.String("expense_id", expense.ExpenseID))
		return nil, err
	}

	logger.Info("Expense created", slog.String("expense_id", expense.ExpenseID), slog.String("category", expense.Category))
	return &expense, nil
}

// GetExpenseByID returns a single expense.
func (s *ExpenseService) GetExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	expense, err := s.ExpenseRepository.FindExpenseByID(ctx, expenseID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to find expense by ID", slog.String("error", err.Error()), slog.String("expense_id", expenseID))
		}
		return nil, err
	}
	return expense, nil
}

// ListExpenses returns one filtered page of expenses plus the exact total
// count.
func (s *ExpenseService) ListExpenses(ctx context.Context, params dto.ListExpensesParams) ([]domain.Expense, int64, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	verified := make([]bool, 0, len(params.Verified))
	for _, raw := range params.Verified {
		verified = append(verified, raw == "true")
	}

	page := pagination.Normalize(params.Page, params.PageSize)
	filter := portsrepo.ExpenseListFilter{
		ListFilter: portsrepo.ListFilter{
			Search:   params.Search,
			SortBy:   sortColumn(expenseSortColumns, params.SortBy),
			SortDesc: params.SortOrder != "asc",
			Limit:    page.PageSize,
			Offset:   page.Offset,
		},
		Categories: params.Category,
		Verified:   verified,
	}

	expenses, total, err := s.ExpenseRepository.ListExpenses(ctx, filter)
	if err != nil {
		logger.Error("Failed to list expenses", slog.String("error", err.Error()))
		return nil, 0, fmt.Errorf("failed to list expenses: %w", err)
	}
	if expenses == nil {
		expenses = []domain.Expense{}
	}
	return expenses, total, nil
}

// VerifyExpense flips an expense to verified exactly once. FINANCE only.
// When the expense is linked to a budget the repository increments that
// budget's used amount in the same transaction, so verification and the
// balance update land or fail together. Re-verifying fails with INVALID_STATE
// and never double-counts.
func (s *ExpenseService) VerifyExpense(ctx context.Context, expenseID string, principal domain.Principal) (*domain.Expense, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := policy.Decide(policy.ExpenseVerify, policy.Input{Role: principal.Role, PrincipalID: principal.ID}); err != nil {
		return nil, err
	}

	expense, err := s.ExpenseRepository.FindExpenseByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if expense.Verified {
		return nil, fmt.Errorf("%w: expense is already verified", apperrors.ErrInvalidState)
	}

	if err := s.ExpenseRepository.VerifyExpense(ctx, *expense); err != nil {
		if !errors.Is(err, apperrors.ErrInvalidState) && !errors.Is(err, apperrors.ErrValidation) {
			logger.Error("Failed to verify expense", slog.String("error", err.Error()), slog.String("expense_id", expenseID))
		}
		return nil, err
	}

	expense.Verified = true
	logger.Info("Expense verified", slog.String("expense_id", expenseID), slog.String("budget_id", expense.BudgetID))
	return expense, nil
}
