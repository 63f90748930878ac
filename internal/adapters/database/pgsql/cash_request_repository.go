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

const cashRequestColumns = "cash_request_id, budget_id, amount, purpose, status, created_at, created_by"

type PgxCashRequestRepository struct {
	pool *pgxpool.Pool
}

// NewCashRequestRepository creates a new repository for cash request data.
func NewCashRequestRepository(pool *pgxpool.Pool) *PgxCashRequestRepository {
	return &PgxCashRequestRepository{pool: pool}
}

// Ensure PgxCashRequestRepository implements the port.
var _ portsrepo.CashRequestRepository = (*PgxCashRequestRepository)(nil)

func (r *PgxCashRequestRepository) SaveCashRequest(ctx context.Context, request domain.CashRequest) error {
	query := `
		INSERT INTO cash_requests (cash_request_id, budget_id, amount, purpose, status, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.pool.Exec(ctx, query,
		request.CashRequestID,
		request.BudgetID,
		request.Amount,
		request.Purpose,
		request.Status,
		request.CreatedAt,
		request.CreatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: cash request with ID %s already exists", apperrors.ErrDuplicate, request.CashRequestID)
		}
		return fmt.Errorf("failed to save cash request %s: %w", request.CashRequestID, err)
	}
	return nil
}

func (r *PgxCashRequestRepository) FindCashRequestByID(ctx context.Context, cashRequestID string) (*domain.CashRequest, error) {
	query := `SELECT ` + cashRequestColumns + ` FROM cash_requests WHERE cash_request_id = $1;`

	var request domain.CashRequest
	err := r.pool.QueryRow(ctx, query, cashRequestID).Scan(
		&request.CashRequestID,
		&request.BudgetID,
		&request.Amount,
		&request.Purpose,
		&request.Status,
		&request.CreatedAt,
		&request.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: cash request %s", apperrors.ErrNotFound, cashRequestID)
		}
		return nil, fmt.Errorf("failed to find cash request by ID: %w", err)
	}
	return &request, nil
}

func (r *PgxCashRequestRepository) ListCashRequests(ctx context.Context, filter portsrepo.CashRequestListFilter) ([]domain.CashRequest, int64, error) {
	where, args := buildCashRequestWhere(filter)

	var total int64
	countQuery := `SELECT COUNT(*) FROM cash_requests` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count cash requests: %w", err)
	}

	query := `SELECT ` + cashRequestColumns + ` FROM cash_requests` + where +
		orderClause(filter.SortBy, filter.SortDesc) +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d;", len(args)+1, len(args)+2)
	args = append(args, normalizeLimit(filter.Limit), filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query cash requests: %w", err)
	}
	defer rows.Close()

	requests := []domain.CashRequest{}
	for rows.Next() {
		var request domain.CashRequest
		if err := rows.Scan(
			&request.CashRequestID,
			&request.BudgetID,
			&request.Amount,
			&request.Purpose,
			&request.Status,
			&request.CreatedAt,
			&request.CreatedBy,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan cash request row: %w", err)
		}
		requests = append(requests, request)
	}
	if rows.Err() != nil {
		return nil, 0, fmt.Errorf("error iterating cash request rows: %w", rows.Err())
	}
	return requests, total, nil
}

func (r *PgxCashRequestRepository) UpdateCashRequestFields(ctx context.Context, request domain.CashRequest) error {
	query := `UPDATE cash_requests SET amount = $1, purpose = $2 WHERE cash_request_id = $3;`

	tag, err := r.pool.Exec(ctx, query, request.Amount, request.Purpose, request.CashRequestID)
	if err != nil {
		return fmt.Errorf("failed to update cash request %s: %w", request.CashRequestID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: cash request %s", apperrors.ErrNotFound, request.CashRequestID)
	}
	return nil
}

// TryTransitionStatus is the compare-and-swap primitive for cash request
// lifecycle moves: the row is updated only if its current status equals
// expected, so concurrent transitions resolve to exactly one winner.
func (r *PgxCashRequestRepository) TryTransitionStatus(ctx context.Context, cashRequestID string, expected, next domain.CashRequestStatus) (bool, error) {
	query := `UPDATE cash_requests SET status = $1 WHERE cash_request_id = $2 AND status = $3;`

	tag, err := r.pool.Exec(ctx, query, next, cashRequestID, expected)
	if err != nil {
		return false, fmt.Errorf("failed to transition cash request %s: %w", cashRequestID, err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *PgxCashRequestRepository) DeleteCashRequest(ctx context.Context, cashRequestID string) error {
	query := `DELETE FROM cash_requests WHERE cash_request_id = $1;`

	tag, err := r.pool.Exec(ctx, query, cashRequestID)
	if err != nil {
		return fmt.Errorf("failed to delete cash request %s: %w", cashRequestID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: cash request %s", apperrors.ErrNotFound, cashRequestID)
	}
	return nil
}

func (r *PgxCashRequestRepository) SummarizeCashRequests(ctx context.Context, createdBy string) (portsrepo.Summary, error) {
	query := `SELECT COUNT(*), COALESCE(SUM(amount), 0) FROM cash_requests`
	args := []any{}
	if createdBy != "" {
		query += ` WHERE created_by = $1`
		args = append(args, createdBy)
	}
	query += `;`

	var summary portsrepo.Summary
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&summary.Count, &summary.TotalAmount); err != nil {
		return portsrepo.Summary{}, fmt.Errorf("failed to summarize cash requests: %w", err)
	}
	return summary, nil
}

func buildCashRequestWhere(filter portsrepo.CashRequestListFilter) (string, []any) {
	clauses := []string{}
	args := []any{}

	if filter.CreatedBy != "" {
		args = append(args, filter.CreatedBy)
		clauses = append(clauses, fmt.Sprintf("created_by = $%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		args = append(args, stringValues(filter.Statuses))
		clauses = append(clauses, fmt.Sprintf("status = ANY($%d)", len(args)))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+search+"%")
		clauses = append(clauses, fmt.Sprintf("purpose ILIKE $%d", len(args)))
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}
