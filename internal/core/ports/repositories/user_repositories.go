package repositories

import (
	"context"

	"github.com/budgetms/budget_management_app/internal/core/domain"
)

// UserRepository persists user profiles for the auth collaborator.
type UserRepository interface {
	// SaveUser inserts a new profile, returning apperrors.ErrDuplicate if the
	// email is taken.
	SaveUser(ctx context.Context, user domain.User) error

	// FindUserByID returns the profile or apperrors.ErrNotFound.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByEmail returns the profile or apperrors.ErrNotFound.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
}
