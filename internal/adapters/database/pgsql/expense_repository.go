package pgsql

import (
	"context"
	"database/sql"
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

const expenseColumns = "expense_id, budget_id, amount, category, verified, receipt_url, created_at, created_by"

type PgxExpenseRepository struct {
	pool *pgxpool.Pool
}

// NewExpenseRepository creates a new repository for expense data.
func NewExpenseRepository(pool *pgxpool.Pool) *PgxExpenseRepository {
	return &PgxExpenseRepository{pool: pool}
}

// Ensure PgxExpenseRepository implements the port.
var _ portsrepo.ExpenseRepository = (*PgxExpenseRepository)(nil)

func (r *PgxExpenseRepository) SaveExpense(ctx context.Context, expense domain.Expense) error {
	query := `
		INSERT INTO expenses (expense_id, budget_id, amount, category, verified, receipt_url, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	// budget_id and receipt_url are nullable.
	var budgetID, receiptURL sql.NullString
	if expense.BudgetID != "" {
		budgetID = sql.NullString{String: expense.BudgetID, Valid: true}
	}
	if expense.ReceiptURL != "" {
		receiptURL = sql.NullString{String: expense.ReceiptURL, Valid: true}
	}

	_, err := r.pool.Exec(ctx, query,
		expense.ExpenseID,
		budgetID,
		expense.Amount,
		expense.Category,
		expense.Verified,
		receiptURL,
		expense.CreatedAt,
		expense.CreatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: expense with ID %s already exists", apperrors.ErrDuplicate, expense.ExpenseID)
		}
		return fmt.Errorf("failed to save expense %s: %w", expense.ExpenseID, err)
	}
	return nil
}

func (r *PgxExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE expense_id = $1;`

	expense, err := scanExpense(r.pool.QueryRow(ctx, query, expenseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: expense %s", apperrors.ErrNotFound, expenseID)
		}
		return nil, fmt.Errorf("failed to find expense by ID: %w", err)
	}
	return expense, nil
}

func (r *PgxExpenseRepository) ListExpenses(ctx context.Context, filter portsrepo.ExpenseListFilter) ([]domain.Expense, int64, error) {
	where, args := buildExpenseWhere(filter)

	var total int64
	countQuery := `SELECT COUNT(*) FROM expenses` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count expenses: %w", err)
	}

	query := `SELECT ` + expenseColumns + ` FROM expenses` + where +
		orderClause(filter.SortBy, filter.SortDesc) +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d;", len(args)+1, len(args)+2)
	args = append(args, normalizeLimit(filter.Limit), filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	expenses := []domain.Expense{}
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan expense row: %w", err)
		}
		expenses = append(expenses, *expense)
	}
	if rows.Err() != nil {
		return nil, 0, fmt.Errorf("error iterating expense rows: %w", rows.Err())
	}
	return expenses, total, nil
}

// VerifyExpense flips the verified flag and applies the linked budget's used
// increment in one transaction. The flip is itself conditional (verified must
// still be false) so a concurrent verification loses cleanly, and the
// increment is guarded so used can never exceed amount. Either both writes
// commit or neither does.
func (r *PgxExpenseRepository) VerifyExpense(ctx context.Context, expense domain.Expense) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin verify transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	tag, err := tx.Exec(ctx,
		`UPDATE expenses SET verified = TRUE WHERE expense_id = $1 AND verified = FALSE;`,
		expense.ExpenseID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark expense %s verified: %w", expense.ExpenseID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: expense is already verified", apperrors.ErrInvalidState)
	}

	if expense.BudgetID != "" {
		tag, err = tx.Exec(ctx,
			`UPDATE budgets SET used = used + $1 WHERE budget_id = $2 AND used + $1 <= amount;`,
			expense.Amount, expense.BudgetID,
		)
		if err != nil {
			return fmt.Errorf("failed to increment budget %s used: %w", expense.BudgetID, err)
		}
		if tag.RowsAffected() == 0 {
			var exists bool
			if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM budgets WHERE budget_id = $1);`, expense.BudgetID).Scan(&exists); err != nil {
				return fmt.Errorf("failed to check budget %s: %w", expense.BudgetID, err)
			}
			if !exists {
				return fmt.Errorf("%w: budget %s", apperrors.ErrNotFound, expense.BudgetID)
			}
			return fmt.Errorf("%w: verification would push budget used over its amount", apperrors.ErrValidation)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit verify transaction: %w", err)
	}
	return nil
}

func (r *PgxExpenseRepository) SummarizeExpenses(ctx context.Context) (portsrepo.Summary, error) {
	query := `SELECT COUNT(*), COALESCE(SUM(amount), 0) FROM expenses;`

	var summary portsrepo.Summary
	if err := r.pool.QueryRow(ctx, query).Scan(&summary.Count, &summary.TotalAmount); err != nil {
		return portsrepo.Summary{}, fmt.Errorf("failed to summarize expenses: %w", err)
	}
	return summary, nil
}

func scanExpense(row pgx.Row) (*domain.Expense, error) {
	var expense domain.Expense
	var budgetID, receiptURL sql.NullString
	err := row.Scan(
		&expense.ExpenseID,
		&budgetID,
		&expense.Amount,
		&expense.Category,
		&expense.Verified,
		&receiptURL,
		&expense.CreatedAt,
		&expense.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	expense.BudgetID = budgetID.String
	expense.ReceiptURL = receiptURL.String
	return &expense, nil
}

func buildExpenseWhere(filter portsrepo.ExpenseListFilter) (string, []any) {
	clauses := []string{}
	args := []any{}

	if len(filter.Categories) > 0 {
		args = append(args, filter.Categories)
		clauses = append(clauses, fmt.Sprintf("category = ANY($%d)", len(args)))
	}
	if len(filter.Verified) > 0 {
		args = append(args, filter.Verified)
		clauses = append(clauses, fmt.Sprintf("verified = ANY($%d)", len(args)))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+search+"%")
		clauses = append(clauses, fmt.Sprintf("category ILIKE $%d", len(args)))
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}
