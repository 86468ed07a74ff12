// Package identity describes the authenticated caller as seen by the
// bookkeeping core. Users and companies are managed elsewhere; this package
// only carries what a request needs to be scoped.
package identity

import (
	"strings"

	"github.com/debtbook/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Role is the caller's role inside its company
type Role string

const (
	RoleSeller  Role = "seller"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

// ParseRole maps a raw claim to a Role. Unknown or empty values fall back to
// seller, the least privileged role.
func ParseRole(raw string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleManager:
		return RoleManager
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleSeller
	}
}

// Principal is the caller identity attached to every request.
type Principal struct {
	UserID    uuid.UUID
	Username  string
	CompanyID *uuid.UUID
	Role      Role
}

// NewPrincipal creates a principal. A nil or zero companyID means the user
// has no associated company.
func NewPrincipal(userID uuid.UUID, username string, companyID *uuid.UUID, role Role) Principal {
	p := Principal{
		UserID:   userID,
		Username: username,
		Role:     role,
	}
	if companyID != nil && *companyID != uuid.Nil {
		id := *companyID
		p.CompanyID = &id
	}
	return p
}

// HasCompany reports whether the principal is bound to a company
func (p Principal) HasCompany() bool {
	return p.CompanyID != nil
}

// Company returns the principal's company or ErrNoCompany
func (p Principal) Company() (uuid.UUID, error) {
	if p.CompanyID == nil {
		return uuid.Nil, shared.ErrNoCompany
	}
	return *p.CompanyID, nil
}

// IsAuthenticated reports whether the principal identifies a user
func (p Principal) IsAuthenticated() bool {
	return p.UserID != uuid.Nil
}
