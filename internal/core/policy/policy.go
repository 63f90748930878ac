// Package policy is the pure authorization decision table. It performs no I/O:
// callers load the target entity and pass the facts in, the policy answers with
// nil (allow) or a typed denial. Enforcement always happens server-side;
// nothing here trusts client-supplied role or ownership fields.
package policy

import (
	"fmt"

	"github.com/budgetms/budget_management_app/internal/apperrors"
	"github.com/budgetms/budget_management_app/internal/core/domain"
)

// Action enumerates the policy-gated operations.
type Action string

const (
	BudgetCreate     Action = "budget.create"
	BudgetTransition Action = "budget.transition"

	CashRequestCreate       Action = "cash_request.create"
	CashRequestRead         Action = "cash_request.read"
	CashRequestUpdateFields Action = "cash_request.update_fields"
	CashRequestTransition   Action = "cash_request.transition"
	CashRequestDelete       Action = "cash_request.delete"

	ExpenseCreate Action = "expense.create"
	ExpenseVerify Action = "expense.verify"
)

// Input carries the facts a decision depends on. OwnerID and Status are only
// consulted for actions that target an existing cash request.
type Input struct {
	Role        domain.Role
	PrincipalID string
	OwnerID     string
	Status      domain.CashRequestStatus
}

// Decide returns nil when role may perform action, or an error wrapping
// apperrors.ErrForbidden (or apperrors.ErrNotFound for reads that must not
// reveal existence) with the specific denial reason.
func Decide(action Action, in Input) error {
	if !in.Role.IsValid() {
		return fmt.Errorf("%w: unknown role %q", apperrors.ErrForbidden, in.Role)
	}

	switch action {
	case BudgetCreate, CashRequestCreate:
		// Any authenticated role; creation preconditions (budget approved,
		// balance sufficiency) are lifecycle checks, not policy.
		return nil

	case BudgetTransition:
		if !in.Role.IsFinance() {
			return fmt.Errorf("%w: only FINANCE can approve or reject budgets", apperrors.ErrForbidden)
		}
		return nil

	case CashRequestRead:
		if in.Role.IsFinance() || in.OwnerID == in.PrincipalID {
			return nil
		}
		// A non-owned record must stay indistinguishable from an absent one.
		return apperrors.ErrNotFound

	case CashRequestUpdateFields:
		if in.Role.IsFinance() {
			return nil
		}
		if in.OwnerID != in.PrincipalID {
			return apperrors.ErrNotFound
		}
		if in.Status != domain.CashRequestPending {
			return fmt.Errorf("%w: own cash requests are editable only while PENDING", apperrors.ErrForbidden)
		}
		return nil

	case CashRequestTransition:
		if !in.Role.IsFinance() {
			return fmt.Errorf("%w: only FINANCE can change cash request status", apperrors.ErrForbidden)
		}
		return nil

	case CashRequestDelete:
		if in.Role.IsFinance() {
			return nil
		}
		if in.OwnerID != in.PrincipalID {
			return apperrors.ErrNotFound
		}
		if in.Status != domain.CashRequestPending {
			return fmt.Errorf("%w: own cash requests are deletable only while PENDING", apperrors.ErrForbidden)
		}
		return nil

	case ExpenseCreate, ExpenseVerify:
		if !in.Role.IsFinance() {
			return fmt.Errorf("%w: only FINANCE can record or verify expenses", apperrors.ErrForbidden)
		}
		return nil
	}

	return fmt.Errorf("%w: unknown action %q", apperrors.ErrForbidden, action)
}

// ListOwnerFilter returns the created_by equality filter a listing must apply
// for the given principal: the principal's own id for STAFF, empty (no filter)
// for FINANCE and ADMIN.
func ListOwnerFilter(p domain.Principal) string {
	if p.Role.IsFinance() {
		return ""
	}
	return p.ID
}
