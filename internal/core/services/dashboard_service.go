package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/budgetms/budget_management_app/internal/core/domain"
	"github.com/budgetms/budget_management_app/internal/core/policy"
	portsrepo "github.com/budgetms/budget_management_app/internal/core/ports/repositories"
	"github.com/budgetms/budget_management_app/internal/dto"
	"github.com/budgetms/budget_management_app/internal/middleware"
)

const dashboardRecentLimit = 5

// DashboardService aggregates the three collections for the home dashboard:
// per collection a total count, a decimal amount total and the most recent
// records.
type DashboardService struct {
	BudgetRepository      portsrepo.BudgetRepository
	CashRequestRepository portsrepo.CashRequestRepository
	ExpenseRepository     portsrepo.ExpenseRepository
}

func NewDashboardService(
	budgetRepo portsrepo.BudgetRepository,
	cashRepo portsrepo.CashRequestRepository,
	expenseRepo portsrepo.ExpenseRepository,
) *DashboardService {
	return &DashboardService{
		BudgetRepository:      budgetRepo,
		CashRequestRepository: cashRepo,
		ExpenseRepository:     expenseRepo,
	}
}

// GetDashboardStats builds the dashboard payload. The cash request section is
// scoped with the same owner filter as the cash request listing, so a STAFF
// principal's dashboard only counts and shows their own requests.
func (s *DashboardService) GetDashboardStats(ctx context.Context, principal domain.Principal) (*dto.DashboardResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	recent := portsrepo.ListFilter{
		SortBy:   "created_at",
		SortDesc: true,
		Limit:    dashboardRecentLimit,
	}
	owner := policy.ListOwnerFilter(principal)

	budgetSummary, err := s.BudgetRepository.SummarizeBudgets(ctx)
	if err != nil {
		logger.Error("Failed to summarize budgets", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to summarize budgets: %w", err)
	}
	recentBudgets, _, err := s.BudgetRepository.ListBudgets(ctx, portsrepo.BudgetListFilter{ListFilter: recent})
	if err != nil {
		return nil, fmt.Errorf("failed to list recent budgets: %w", err)
	}

	cashSummary, err := s.CashRequestRepository.SummarizeCashRequests(ctx, owner)
	if err != nil {
		logger.Error("Failed to summarize cash requests", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to summarize cash requests: %w", err)
	}
	recentCashRequests, _, err := s.CashRequestRepository.ListCashRequests(ctx, portsrepo.CashRequestListFilter{ListFilter: recent, CreatedBy: owner})
	if err != nil {
		return nil, fmt.Errorf("failed to list recent cash requests: %w", err)
	}

	expenseSummary, err := s.ExpenseRepository.SummarizeExpenses(ctx)
	if err != nil {
		logger.Error("Failed to summarize expenses", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to summarize expenses: %w", err)
	}
	recentExpenses, _, err := s.ExpenseRepository.ListExpenses(ctx, portsrepo.ExpenseListFilter{ListFilter: recent})
	if err != nil {
		return nil, fmt.Errorf("failed to list recent expenses: %w", err)
	}

	return &dto.DashboardResponse{
		Budgets: dto.CollectionStats[dto.BudgetResponse]{
			Total:  budgetSummary.Count,
			Amount: budgetSummary.TotalAmount,
			Recent: toBudgetResponses(recentBudgets),
		},
		CashRequests: dto.CollectionStats[dto.CashRequestResponse]{
			Total:  cashSummary.Count,
			Amount: cashSummary.TotalAmount,
			Recent: toCashRequestResponses(recentCashRequests),
		},
		Expenses: dto.CollectionStats[dto.ExpenseResponse]{
			Total:  expenseSummary.Count,
			Amount: expenseSummary.TotalAmount,
			Recent: toExpenseResponses(recentExpenses),
		},
	}, nil
}

func toBudgetResponses(budgets []domain.Budget) []dto.BudgetResponse {
	res := make([]dto.BudgetResponse, len(budgets))
	for i := range budgets {
		res[i] = dto.ToBudgetResponse(&budgets[i])
	}
	return res
}

func toCashRequestResponses(requests []domain.CashRequest) []dto.CashRequestResponse {
	res := make([]dto.CashRequestResponse, len(requests))
	for i := range requests {
		res[i] = dto.ToCashRequestResponse(&requests[i])
	}
	return res
}

func toExpenseResponses(expenses []domain.Expense) []dto.ExpenseResponse {
	res := make([]dto.ExpenseResponse, len(expenses))
	for i := range expenses {
		res[i] = dto.ToExpenseResponse(&expenses[i])
	}
	return res
}
