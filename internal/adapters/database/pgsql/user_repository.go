package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/budgetms/budget_management_app/internal/apperrors"
	"github.com/budgetms/budget_management_app/internal/core/domain"
	portsrepo "github.com/budgetms/budget_management_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = "user_id, name, email, avatar_url, role, password_hash, created_at, created_by"

type PgxUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new repository for profile data.
func NewUserRepository(pool *pgxpool.Pool) *PgxUserRepository {
	return &PgxUserRepository{pool: pool}
}

// Ensure PgxUserRepository implements the port.
var _ portsrepo.UserRepository = (*PgxUserRepository)(nil)

func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	query := `
		INSERT INTO profiles (user_id, name, email, avatar_url, role, password_hash, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	var avatarURL sql.NullString
	if user.AvatarURL != "" {
		avatarURL = sql.NullString{String: user.AvatarURL, Valid: true}
	}

	_, err := r.pool.Exec(ctx, query,
		user.UserID,
		user.Name,
		user.Email,
		avatarURL,
		user.Role,
		user.PasswordHash,
		user.CreatedAt,
		user.CreatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: email %s is already registered", apperrors.ErrDuplicate, user.Email)
		}
		return fmt.Errorf("failed to save user %s: %w", user.UserID, err)
	}
	return nil
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM profiles WHERE user_id = $1;`
	return r.findUser(ctx, query, userID)
}

func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM profiles WHERE email = $1;`
	return r.findUser(ctx, query, email)
}

func (r *PgxUserRepository) findUser(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User
	var avatarURL sql.NullString
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.UserID,
		&user.Name,
		&user.Email,
		&avatarURL,
		&user.Role,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: user", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	user.AvatarURL = avatarURL.String
	return &user, nil
}
