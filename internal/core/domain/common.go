package domain

import "time"

// Role identifies the authorization role carried by a principal.
type Role string

const (
	RoleStaff   Role = "STAFF"
	RoleFinance Role = "FINANCE"
	RoleAdmin   Role = "ADMIN"
)

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleStaff, RoleFinance, RoleAdmin:
		return true
	}
	return false
}

// IsFinance reports whether r carries finance privileges.
// ADMIN is a superset of FINANCE for every finance-gated operation.
func (r Role) IsFinance() bool {
	return r == RoleFinance || r == RoleAdmin
}

// Principal is the authenticated actor making a request, as resolved by the
// auth middleware. Role always comes from the verified session, never from
// request payloads.
type Principal struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt time.Time `json:"createdAt"`
	CreatedBy string    `json:"createdBy"` // Principal ID reference
}
