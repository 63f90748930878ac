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
	portsrepo "github.com/budgetms/budget_management_app/internal/core/ports/repositories"
	"github.com/budgetms/budget_management_app/internal/dto"
	"github.com/budgetms/budget_management_app/internal/middleware"
	"github.com/budgetms/budget_management_app/internal/utils"
	"github.com/budgetms/budget_management_app/pkg/config"
	"github.com/google/uuid"
)

// AuthService is the minimal session-issuing collaborator: it registers
// profiles and exchanges credentials for role-bearing session tokens. The
// issued token is the single trust source the auth middleware resolves
// principals from.
type AuthService struct {
	UserRepository portsrepo.UserRepository
	cfg            *config.Config
}

func NewAuthService(repo portsrepo.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{UserRepository: repo, cfg: cfg}
}

// Register creates a new profile. New signups always start as STAFF; role
// elevation is an operator action on the profiles table, never self-service.
func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.UserRepository.FindUserByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: email is already registered", apperrors.ErrDuplicate)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		logger.Error("Failed to hash password", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := domain.User{
		UserID:       uuid.NewString(),
		Name:         req.Name,
		Email:        email,
		Role:         domain.RoleStaff,
		PasswordHash: hash,
		AuditFields: domain.AuditFields{
			CreatedAt: time.Now().UTC(),
		},
	}
	user.CreatedBy = user.UserID

	if err := s.UserRepository.SaveUser(ctx, user); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			logger.Error("Failed to save user", slog.String("error", err.Error()))
		}
		return nil, err
	}

	logger.Info("User registered", slog.String("user_id", user.UserID))
	return &user, nil
}

// Login verifies credentials and issues a session token. Bad email and bad
// password are deliberately indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.UserRepository.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthenticated)
		}
		logger.Error("Failed to load user for login", slog.String("error", err.Error()))
		return nil, err
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthenticated)
	}

	token, err := utils.GenerateSessionToken(user, s.cfg.JWTSecret, s.cfg.JWTIssuer, s.cfg.JWTExpiryDuration)
	if err != nil {
		logger.Error("Failed to generate session token", slog.String("error", err.Error()), slog.String("user_id", user.UserID))
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	logger.Info("User logged in", slog.String("user_id", user.UserID))
	return &dto.LoginResponse{Token: token, User: dto.ToUserResponse(user)}, nil
}
