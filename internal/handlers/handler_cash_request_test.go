package handlers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/budgetms/budget_management_app/internal/core/domain"
	portsrepo "github.com/budgetms/budget_management_app/internal/core/ports/repositories"
	"github.com/budgetms/budget_management_app/internal/core/services"
	"github.com/budgetms/budget_management_app/internal/handlers"
	"github.com/budgetms/budget_management_app/internal/middleware"
	"github.com/budgetms/budget_management_app/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock repositories ---

type MockCashRequestRepository struct {
	mock.Mock
}

func (m *MockCashRequestRepository) SaveCashRequest(ctx context.Context, request domain.CashRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockCashRequestRepository) FindCashRequestByID(ctx context.Context, cashRequestID string) (*domain.CashRequest, error) {
	args := m.Called(ctx, cashRequestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashRequest), args.Error(1)
}

func (m *MockCashRequestRepository) ListCashRequests(ctx context.Context, filter portsrepo.CashRequestListFilter) ([]domain.CashRequest, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.CashRequest), args.Get(1).(int64), args.Error(2)
}

func (m *MockCashRequestRepository) UpdateCashRequestFields(ctx context.Context, request domain.CashRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockCashRequestRepository) TryTransitionStatus(ctx context.Context, cashRequestID string, expected, next domain.CashRequestStatus) (bool, error) {
	args := m.Called(ctx, cashRequestID, expected, next)
	return args.Bool(0), args.Error(1)
}

func (m *MockCashRequestRepository) DeleteCashRequest(ctx context.Context, cashRequestID string) error {
	args := m.Called(ctx, cashRequestID)
	return args.Error(0)
}

func (m *MockCashRequestRepository) SummarizeCashRequests(ctx context.Context, createdBy string) (portsrepo.Summary, error) {
	args := m.Called(ctx, createdBy)
	return args.Get(0).(portsrepo.Summary), args.Error(1)
}

type MockBudgetRepository struct {
	mock.Mock
}

func (m *MockBudgetRepository) SaveBudget(ctx context.Context, budget domain.Budget) error {
	args := m.Called(ctx, budget)
	return args.Error(0)
}

func (m *MockBudgetRepository) FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error) {
	args := m.Called(ctx, budgetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Budget), args.Error(1)
}

func (m *MockBudgetRepository) ListBudgets(ctx context.Context, filter portsrepo.BudgetListFilter) ([]domain.Budget, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.Budget), args.Get(1).(int64), args.Error(2)
}

func (m *MockBudgetRepository) ListApprovedBudgets(ctx context.Context) ([]domain.Budget, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Budget), args.Error(1)
}

func (m *MockBudgetRepository) TryTransitionBudgetStatus(ctx context.Context, budgetID string, expected, next domain.BudgetStatus) (bool, error) {
	args := m.Called(ctx, budgetID, expected, next)
	return args.Bool(0), args.Error(1)
}

func (m *MockBudgetRepository) SummarizeBudgets(ctx context.Context) (portsrepo.Summary, error) {
	args := m.Called(ctx)
	return args.Get(0).(portsrepo.Summary), args.Error(1)
}

// --- Test Suite ---

// The suite wires the real auth middleware, handler, service and policy over
// mocked repositories, so a request exercises the whole enforcement chain.
type CashRequestHandlerTestSuite struct {
	suite.Suite
	router         *gin.Engine
	mockRepo       *MockCashRequestRepository
	mockBudgetRepo *MockBudgetRepository
	jwtSecret      string
}

func (suite *CashRequestHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.mockRepo = new(MockCashRequestRepository)
	suite.mockBudgetRepo = new(MockBudgetRepository)

	v1 := suite.router.Group("/api/v1", middleware.AuthMiddleware(suite.jwtSecret))
	handlers.RegisterCashRequestRoutes(v1, services.NewCashRequestService(suite.mockRepo, suite.mockBudgetRepo))
}

func (suite *CashRequestHandlerTestSuite) generateTestToken(userID string, role domain.Role) string {
	user := &domain.User{UserID: userID, Role: role}
	token, err := utils.GenerateSessionToken(user, suite.jwtSecret, "bma-test", time.Hour)
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return token
}

func (suite *CashRequestHandlerTestSuite) doRequest(method, url, token string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, url, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *CashRequestHandlerTestSuite) TestListCashRequests_MissingTokenUnauthenticated() {
	w := suite.doRequest(http.MethodGet, "/api/v1/cash-requests", "")

	suite.Equal(http.StatusUnauthorized, w.Code)

	var body map[string]string
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal("UNAUTHENTICATED", body["code"])

	suite.mockRepo.AssertNotCalled(suite.T(), "ListCashRequests", mock.Anything, mock.Anything)
}

func (suite *CashRequestHandlerTestSuite) TestListCashRequests_UnknownRoleClaimRejected() {
	token := suite.generateTestToken(uuid.NewString(), domain.Role("CONTRACTOR"))

	w := suite.doRequest(http.MethodGet, "/api/v1/cash-requests", token)

	suite.Equal(http.StatusUnauthorized, w.Code)

	var body map[string]string
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal("UNAUTHENTICATED", body["code"])
}

func (suite *CashRequestHandlerTestSuite) TestListCashRequests_StaffProjectionOmitsCreatedBy() {
	staffID := uuid.NewString()
	token := suite.generateTestToken(staffID, domain.RoleStaff)

	records := []domain.CashRequest{{
		CashRequestID: uuid.NewString(),
		BudgetID:      uuid.NewString(),
		Amount:        decimal.NewFromInt(400),
		Purpose:       "Conference travel",
		Status:        domain.CashRequestPending,
		AuditFields:   domain.AuditFields{CreatedAt: time.Now(), CreatedBy: staffID},
	}}

	suite.mockRepo.On("ListCashRequests", mock.Anything, mock.MatchedBy(func(f portsrepo.CashRequestListFilter) bool {
		return f.CreatedBy == staffID // listing is scoped to the caller
	})).Return(records, int64(1), nil).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/cash-requests", token)

	suite.Equal(http.StatusOK, w.Code)

	var body struct {
		CashRequests []map[string]any `json:"cashRequests"`
		Total        int64            `json:"total"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Require().Len(body.CashRequests, 1)
	suite.Equal(int64(1), body.Total)
	suite.Equal(records[0].CashRequestID, body.CashRequests[0]["cashRequestID"])
	suite.NotContains(body.CashRequests[0], "createdBy")

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CashRequestHandlerTestSuite) TestListCashRequests_ZeroPageSizeClampedToDefaults() {
	token := suite.generateTestToken(uuid.NewString(), domain.RoleFinance)

	suite.mockRepo.On("ListCashRequests", mock.Anything, mock.MatchedBy(func(f portsrepo.CashRequestListFilter) bool {
		return f.Limit == 10 && f.Offset == 0
	})).Return([]domain.CashRequest{}, int64(0), nil).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/cash-requests?page=0&pageSize=0", token)

	suite.Equal(http.StatusOK, w.Code)

	var body struct {
		CashRequests []map[string]any `json:"cashRequests"`
		Total        int64            `json:"total"`
		Page         int              `json:"page"`
		PageSize     int              `json:"pageSize"`
		TotalPages   int              `json:"totalPages"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal(int64(0), body.Total)
	suite.Equal(1, body.Page)
	suite.Equal(10, body.PageSize)
	suite.Equal(1, body.TotalPages)

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CashRequestHandlerTestSuite) TestGetCashRequest_FinanceSeesCreatedBy() {
	token := suite.generateTestToken(uuid.NewString(), domain.RoleFinance)

	record := &domain.CashRequest{
		CashRequestID: uuid.NewString(),
		BudgetID:      uuid.NewString(),
		Amount:        decimal.NewFromInt(400),
		Purpose:       "Conference travel",
		Status:        domain.CashRequestPending,
		AuditFields:   domain.AuditFields{CreatedAt: time.Now(), CreatedBy: uuid.NewString()},
	}

	suite.mockRepo.On("FindCashRequestByID", mock.Anything, record.CashRequestID).Return(record, nil).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/cash-requests/"+record.CashRequestID, token)

	suite.Equal(http.StatusOK, w.Code)

	var body map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal(record.CreatedBy, body["createdBy"])
}

func (suite *CashRequestHandlerTestSuite) TestGetCashRequest_ForeignRecordIsNotFoundForStaff() {
	token := suite.generateTestToken(uuid.NewString(), domain.RoleStaff)

	record := &domain.CashRequest{
		CashRequestID: uuid.NewString(),
		Status:        domain.CashRequestPending,
		AuditFields:   domain.AuditFields{CreatedBy: uuid.NewString()},
	}

	suite.mockRepo.On("FindCashRequestByID", mock.Anything, record.CashRequestID).Return(record, nil).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/cash-requests/"+record.CashRequestID, token)

	suite.Equal(http.StatusNotFound, w.Code)

	var body map[string]string
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal("NOT_FOUND", body["code"])
}

func (suite *CashRequestHandlerTestSuite) TestApproveCashRequest_StaffForbidden() {
	token := suite.generateTestToken(uuid.NewString(), domain.RoleStaff)
	url := fmt.Sprintf("/api/v1/cash-requests/%s/approve", uuid.NewString())

	w := suite.doRequest(http.MethodPost, url, token)

	suite.Equal(http.StatusForbidden, w.Code)

	var body map[string]string
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal("FORBIDDEN", body["code"])

	suite.mockRepo.AssertNotCalled(suite.T(), "TryTransitionStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CashRequestHandlerTestSuite) TestApproveCashRequest_AlreadyDecidedConflict() {
	token := suite.generateTestToken(uuid.NewString(), domain.RoleFinance)
	testID := uuid.NewString()
	rejected := &domain.CashRequest{CashRequestID: testID, Status: domain.CashRequestRejected}

	suite.mockRepo.On("TryTransitionStatus", mock.Anything, testID, domain.CashRequestPending, domain.CashRequestApproved).Return(false, nil).Once()
	suite.mockRepo.On("FindCashRequestByID", mock.Anything, testID).Return(rejected, nil).Once()

	w := suite.doRequest(http.MethodPost, fmt.Sprintf("/api/v1/cash-requests/%s/approve", testID), token)

	suite.Equal(http.StatusConflict, w.Code)

	var body map[string]string
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal("INVALID_STATE", body["code"])

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CashRequestHandlerTestSuite) TestDisburseCashRequest_Success() {
	token := suite.generateTestToken(uuid.NewString(), domain.RoleAdmin)
	testID := uuid.NewString()
	disbursed := &domain.CashRequest{
		CashRequestID: testID,
		Amount:        decimal.NewFromInt(900),
		Status:        domain.CashRequestDisbursed,
	}

	suite.mockRepo.On("TryTransitionStatus", mock.Anything, testID, domain.CashRequestApproved, domain.CashRequestDisbursed).Return(true, nil).Once()
	suite.mockRepo.On("FindCashRequestByID", mock.Anything, testID).Return(disbursed, nil).Once()

	w := suite.doRequest(http.MethodPost, fmt.Sprintf("/api/v1/cash-requests/%s/disburse", testID), token)

	suite.Equal(http.StatusOK, w.Code)

	var body map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal(string(domain.CashRequestDisbursed), body["status"])

	// Disbursement never touches the budget balance.
	suite.mockBudgetRepo.AssertNotCalled(suite.T(), "FindBudgetByID", mock.Anything, mock.Anything)

	suite.mockRepo.AssertExpectations(suite.T())
}

// --- Run Test Suite ---

func TestCashRequestHandler(t *testing.T) {
	suite.Run(t, new(CashRequestHandlerTestSuite))
}
