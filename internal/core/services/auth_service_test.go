package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/budgetms/budget_management_app/internal/apperrors"
	"github.com/budgetms/budget_management_app/internal/core/domain"
	"github.com/budgetms/budget_management_app/internal/core/services"
	"github.com/budgetms/budget_management_app/internal/dto"
	"github.com/budgetms/budget_management_app/internal/utils"
	"github.com/budgetms/budget_management_app/pkg/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockUserRepository is a mock type for the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// --- Test Suite Setup ---

type AuthServiceTestSuite struct {
	suite.Suite
	mockRepo *MockUserRepository
	service  *services.AuthService
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockUserRepository)
	cfg := &config.Config{
		JWTSecret:         "test-secret",
		JWTIssuer:         "budget-management-app",
		JWTExpiryDuration: time.Hour,
	}
	suite.service = services.NewAuthService(suite.mockRepo, cfg)
}

// --- Test Cases ---

func (suite *AuthServiceTestSuite) TestRegister_Success() {
	ctx := context.Background()
	req := dto.RegisterRequest{
		Name:     "New Hire",
		Email:    "  New.Hire@Example.COM ",
		Password: "hunter2hunter2",
	}

	suite.mockRepo.On("FindUserByEmail", ctx, "new.hire@example.com").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Email == "new.hire@example.com" &&
			u.Role == domain.RoleStaff && // signups never pick their own role
			u.PasswordHash != "" &&
			u.PasswordHash != req.Password
	})).Return(nil).Once()

	user, err := suite.service.Register(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(user)
	suite.NotEmpty(user.UserID)
	suite.Equal(domain.RoleStaff, user.Role)
	suite.Equal(user.UserID, user.CreatedBy)

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AuthServiceTestSuite) TestRegister_DuplicateEmail() {
	ctx := context.Background()
	existing := &domain.User{UserID: uuid.NewString(), Email: "taken@example.com"}
	req := dto.RegisterRequest{
		Name:     "Second",
		Email:    "taken@example.com",
		Password: "hunter2hunter2",
	}

	suite.mockRepo.On("FindUserByEmail", ctx, "taken@example.com").Return(existing, nil).Once()

	user, err := suite.service.Register(ctx, req)

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrDuplicate)

	suite.mockRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (suite *AuthServiceTestSuite) TestLogin_Success() {
	ctx := context.Background()
	password := "hunter2hunter2"
	hash, err := utils.HashPassword(password)
	suite.Require().NoError(err)

	user := &domain.User{
		UserID:       uuid.NewString(),
		Name:         "Known User",
		Email:        "known@example.com",
		Role:         domain.RoleFinance,
		PasswordHash: hash,
	}

	suite.mockRepo.On("FindUserByEmail", ctx, "known@example.com").Return(user, nil).Once()

	res, err := suite.service.Login(ctx, dto.LoginRequest{Email: "known@example.com", Password: password})

	suite.Require().NoError(err)
	suite.Require().NotNil(res)
	suite.NotEmpty(res.Token)
	suite.Equal(user.UserID, res.User.UserID)

	// The issued token resolves back to the user's id and role.
	claims, err := utils.ParseSessionToken(res.Token, "test-secret")
	suite.Require().NoError(err)
	suite.Equal(user.UserID, claims.Subject)
	suite.Equal(domain.RoleFinance, claims.Role)

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AuthServiceTestSuite) TestLogin_WrongPassword() {
	ctx := context.Background()
	hash, err := utils.HashPassword("the-real-password")
	suite.Require().NoError(err)

	user := &domain.User{
		UserID:       uuid.NewString(),
		Email:        "known@example.com",
		Role:         domain.RoleStaff,
		PasswordHash: hash,
	}

	suite.mockRepo.On("FindUserByEmail", ctx, "known@example.com").Return(user, nil).Once()

	res, err := suite.service.Login(ctx, dto.LoginRequest{Email: "known@example.com", Password: "a-guess"})

	suite.Require().Error(err)
	suite.Nil(res)
	suite.ErrorIs(err, apperrors.ErrUnauthenticated)
}

func (suite *AuthServiceTestSuite) TestLogin_UnknownEmail() {
	ctx := context.Background()

	suite.mockRepo.On("FindUserByEmail", ctx, "nobody@example.com").Return(nil, apperrors.ErrNotFound).Once()

	res, err := suite.service.Login(ctx, dto.LoginRequest{Email: "nobody@example.com", Password: "whatever"})

	suite.Require().Error(err)
	suite.Nil(res)
	// Indistinguishable from a wrong password.
	suite.ErrorIs(err, apperrors.ErrUnauthenticated)
}

// --- Run Test Suite ---

func TestAuthService(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
