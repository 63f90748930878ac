package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/budgetms/budget_management_app/internal/apperrors"
	"github.com/budgetms/budget_management_app/internal/core/domain"
	portsrepo "github.com/budgetms/budget_management_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const budgetColumns = "budget_id, department, period, amount, used, status, created_at, created_by"

type PgxBudgetRepository struct {
	pool *pgxpool.Pool
}

// NewBudgetRepository creates a new repository for budget data.
func NewBudgetRepository(pool *pgxpool.Pool) *PgxBudgetRepository {
	return &PgxBudgetRepository{pool: pool}
}

// Ensure PgxBudgetRepository implements the port.
var _ portsrepo.BudgetRepository = (*PgxBudgetRepository)(nil)

func (r *PgxBudgetRepository) SaveBudget(ctx context.Context, budget domain.Budget) error {
	query := `
		INSERT INTO budgets (budget_id, department, period, amount, used, status, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.pool.Exec(ctx, query,
		budget.BudgetID,
		budget.Department,
		budget.Period,
		budget.Amount,
		budget.Used,
		budget.Status,
		budget.CreatedAt,
		budget.CreatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: budget with ID %s already exists", apperrors.ErrDuplicate, budget.BudgetID)
		}
		return fmt.Errorf("failed to save budget %s: %w", budget.BudgetID, err)
	}
	return nil
}

func (r *PgxBudgetRepository) FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE budget_id = $1;`

	var budget domain.Budget
	err := r.pool.QueryRow(ctx, query, budgetID).Scan(
		&budget.BudgetID,
		&budget.Department,
		&budget.Period,
		&budget.Amount,
		&budget.Used,
		&budget.Status,
		&budget.CreatedAt,
		&budget.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: budget %s", apperrors.ErrNotFound, budgetID)
		}
		return nil, fmt.Errorf("failed to find budget by ID: %w", err)
	}
	return &budget, nil
}

func (r *PgxBudgetRepository) ListBudgets(ctx context.Context, filter portsrepo.BudgetListFilter) ([]domain.Budget, int64, error) {
	where, args := buildBudgetWhere(filter)

	var total int64
	countQuery := `SELECT COUNT(*) FROM budgets` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count budgets: %w", err)
	}

	query := `SELECT ` + budgetColumns + ` FROM budgets` + where +
		orderClause(filter.SortBy, filter.SortDesc) +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d;", len(args)+1, len(args)+2)
	args = append(args, normalizeLimit(filter.Limit), filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query budgets: %w", err)
	}
	defer rows.Close()

	budgets := []domain.Budget{}
	for rows.Next() {
		var budget domain.Budget
		if err := rows.Scan(
			&budget.BudgetID,
			&budget.Department,
			&budget.Period,
			&budget.Amount,
			&budget.Used,
			&budget.Status,
			&budget.CreatedAt,
			&budget.CreatedBy,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan budget row: %w", err)
		}
		budgets = append(budgets, budget)
	}
	if rows.Err() != nil {
		return nil, 0, fmt.Errorf("error iterating budget rows: %w", rows.Err())
	}
	return budgets, total, nil
}

func (r *PgxBudgetRepository) ListApprovedBudgets(ctx context.Context) ([]domain.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE status = $1 ORDER BY department ASC;`

	rows, err := r.pool.Query(ctx, query, domain.BudgetApproved)
	if err != nil {
		return nil, fmt.Errorf("failed to query approved budgets: %w", err)
	}
	defer rows.Close()

	budgets := []domain.Budget{}
	for rows.Next() {
		var budget domain.Budget
		if err := rows.Scan(
			&budget.BudgetID,
			&budget.Department,
			&budget.Period,
			&budget.Amount,
			&budget.Used,
			&budget.Status,
			&budget.CreatedAt,
			&budget.CreatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan budget row: %w", err)
		}
		budgets = append(budgets, budget)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating budget rows: %w", rows.Err())
	}
	return budgets, nil
}

// TryTransitionBudgetStatus is the compare-and-swap primitive: the row is
// updated only if its current status equals expected.
func (r *PgxBudgetRepository) TryTransitionBudgetStatus(ctx context.Context, budgetID string, expected, next domain.BudgetStatus) (bool, error) {
	query := `UPDATE budgets SET status = $1 WHERE budget_id = $2 AND status = $3;`

	tag, err := r.pool.Exec(ctx, query, next, budgetID, expected)
	if err != nil {
		return false, fmt.Errorf("failed to transition budget %s: %w", budgetID, err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *PgxBudgetRepository) SummarizeBudgets(ctx context.Context) (portsrepo.Summary, error) {
	query := `SELECT COUNT(*), COALESCE(SUM(amount), 0) FROM budgets;`

	var summary portsrepo.Summary
	if err := r.pool.QueryRow(ctx, query).Scan(&summary.Count, &summary.TotalAmount); err != nil {
		return portsrepo.Summary{}, fmt.Errorf("failed to summarize budgets: %w", err)
	}
	return summary, nil
}

func buildBudgetWhere(filter portsrepo.BudgetListFilter) (string, []any) {
	clauses := []string{}
	args := []any{}

	if len(filter.Statuses) > 0 {
		args = append(args, stringValues(filter.Statuses))
		clauses = append(clauses, fmt.Sprintf("status = ANY($%d)", len(args)))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+search+"%")
		clauses = append(clauses, fmt.Sprintf("department ILIKE $%d", len(args)))
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}
