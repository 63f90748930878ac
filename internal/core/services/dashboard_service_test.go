package services_test

import (
	"context"
	"testing"

	"github.com/budgetms/budget_management_app/internal/core/domain"
	portsrepo "github.com/budgetms/budget_management_app/internal/core/ports/repositories"
	"github.com/budgetms/budget_management_app/internal/core/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type DashboardServiceTestSuite struct {
	suite.Suite
	mockBudgetRepo      *MockBudgetRepository
	mockCashRequestRepo *MockCashRequestRepository
	mockExpenseRepo     *MockExpenseRepository
	service             *services.DashboardService
}

func (suite *DashboardServiceTestSuite) SetupTest() {
	suite.mockBudgetRepo = new(MockBudgetRepository)
	suite.mockCashRequestRepo = new(MockCashRequestRepository)
	suite.mockExpenseRepo = new(MockExpenseRepository)
	suite.service = services.NewDashboardService(suite.mockBudgetRepo, suite.mockCashRequestRepo, suite.mockExpenseRepo)
}

func (suite *DashboardServiceTestSuite) TestGetDashboardStats_Success() {
	ctx := context.Background()
	finance := domain.Principal{ID: uuid.NewString(), Role: domain.RoleFinance}

	recentFilter := func(sortBy string, desc bool, limit int) bool {
		return sortBy == "created_at" && desc && limit == 5
	}

	budgets := []domain.Budget{{BudgetID: uuid.NewString(), Department: "IT", Amount: decimal.NewFromInt(1000)}}
	requests := []domain.CashRequest{{CashRequestID: uuid.NewString(), Amount: decimal.NewFromInt(200)}}
	expenses := []domain.Expense{{ExpenseID: uuid.NewString(), Amount: decimal.NewFromInt(75)}}

	suite.mockBudgetRepo.On("SummarizeBudgets", ctx).Return(portsrepo.Summary{Count: 3, TotalAmount: decimal.NewFromInt(9000)}, nil).Once()
	suite.mockBudgetRepo.On("ListBudgets", ctx, mock.MatchedBy(func(f portsrepo.BudgetListFilter) bool {
		return recentFilter(f.SortBy, f.SortDesc, f.Limit)
	})).Return(budgets, int64(3), nil).Once()

	suite.mockCashRequestRepo.On("SummarizeCashRequests", ctx, "").Return(portsrepo.Summary{Count: 2, TotalAmount: decimal.NewFromInt(450)}, nil).Once()
	suite.mockCashRequestRepo.On("ListCashRequests", ctx, mock.MatchedBy(func(f portsrepo.CashRequestListFilter) bool {
		return recentFilter(f.SortBy, f.SortDesc, f.Limit) && f.CreatedBy == ""
	})).Return(requests, int64(2), nil).Once()

	suite.mockExpenseRepo.On("SummarizeExpenses", ctx).Return(portsrepo.Summary{Count: 1, TotalAmount: decimal.NewFromInt(75)}, nil).Once()
	suite.mockExpenseRepo.On("ListExpenses", ctx, mock.MatchedBy(func(f portsrepo.ExpenseListFilter) bool {
		return recentFilter(f.SortBy, f.SortDesc, f.Limit)
	})).Return(expenses, int64(1), nil).Once()

	stats, err := suite.service.GetDashboardStats(ctx, finance)

	suite.Require().NoError(err)
	suite.Require().NotNil(stats)
	suite.Equal(int64(3), stats.Budgets.Total)
	suite.True(stats.Budgets.Amount.Equal(decimal.NewFromInt(9000)))
	suite.Len(stats.Budgets.Recent, 1)
	suite.Equal(int64(2), stats.CashRequests.Total)
	suite.Len(stats.CashRequests.Recent, 1)
	suite.Equal(int64(1), stats.Expenses.Total)
	suite.Len(stats.Expenses.Recent, 1)

	suite.mockBudgetRepo.AssertExpectations(suite.T())
	suite.mockCashRequestRepo.AssertExpectations(suite.T())
	suite.mockExpenseRepo.AssertExpectations(suite.T())
}

func (suite *DashboardServiceTestSuite) TestGetDashboardStats_StaffScopedToOwnCashRequests() {
	ctx := context.Background()
	staff := domain.Principal{ID: uuid.NewString(), Role: domain.RoleStaff}

	suite.mockBudgetRepo.On("SummarizeBudgets", ctx).Return(portsrepo.Summary{Count: 1, TotalAmount: decimal.NewFromInt(500)}, nil).Once()
	suite.mockBudgetRepo.On("ListBudgets", ctx, mock.Anything).Return([]domain.Budget{}, int64(1), nil).Once()

	ownRequest := domain.CashRequest{
		CashRequestID: uuid.NewString(),
		Amount:        decimal.NewFromInt(120),
		AuditFields:   domain.AuditFields{CreatedBy: staff.ID},
	}
	suite.mockCashRequestRepo.On("SummarizeCashRequests", ctx, staff.ID).Return(portsrepo.Summary{Count: 1, TotalAmount: decimal.NewFromInt(120)}, nil).Once()
	suite.mockCashRequestRepo.On("ListCashRequests", ctx, mock.MatchedBy(func(f portsrepo.CashRequestListFilter) bool {
		return f.CreatedBy == staff.ID
	})).Return([]domain.CashRequest{ownRequest}, int64(1), nil).Once()

	suite.mockExpenseRepo.On("SummarizeExpenses", ctx).Return(portsrepo.Summary{}, nil).Once()
	suite.mockExpenseRepo.On("ListExpenses", ctx, mock.Anything).Return([]domain.Expense{}, int64(0), nil).Once()

	stats, err := suite.service.GetDashboardStats(ctx, staff)

	suite.Require().NoError(err)
	suite.Equal(int64(1), stats.CashRequests.Total)
	suite.Require().Len(stats.CashRequests.Recent, 1)
	suite.Equal(ownRequest.CashRequestID, stats.CashRequests.Recent[0].CashRequestID)

	suite.mockCashRequestRepo.AssertExpectations(suite.T())
}

func (suite *DashboardServiceTestSuite) TestGetDashboardStats_SummaryError() {
	ctx := context.Background()
	expectedErr := assert.AnError

	suite.mockBudgetRepo.On("SummarizeBudgets", ctx).Return(portsrepo.Summary{}, expectedErr).Once()

	stats, err := suite.service.GetDashboardStats(ctx, domain.Principal{ID: uuid.NewString(), Role: domain.RoleFinance})

	suite.Require().Error(err)
	suite.Nil(stats)
	suite.ErrorIs(err, expectedErr)

	suite.mockCashRequestRepo.AssertNotCalled(suite.T(), "SummarizeCashRequests", mock.Anything, mock.Anything)
}

func TestDashboardService(t *testing.T) {
	suite.Run(t, new(DashboardServiceTestSuite))
}
