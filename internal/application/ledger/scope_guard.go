package ledger

import (
	"github.com/debtbook/backend/internal/domain/identity"
	"github.com/debtbook/backend/internal/domain/ledger"
	"github.com/debtbook/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AccessScopeGuard is the single place that turns a caller principal into a
// company scope. Every service goes through it; repositories then filter by
// the company it returns.
type AccessScopeGuard struct{}

// NewAccessScopeGuard creates an AccessScopeGuard
func NewAccessScopeGuard() *AccessScopeGuard {
	return &AccessScopeGuard{}
}

// RequireCompany returns the company a mutating call acts on.
// A principal without a company gets ErrNoCompany.
func (g *AccessScopeGuard) RequireCompany(p identity.Principal) (uuid.UUID, error) {
	if !p.IsAuthenticated() {
		return uuid.Nil, shared.ErrUnauthorized
	}
	return p.Company()
}

// ReadScope returns the company a read call is limited to. ok is false when
// the principal has no company, in which case nothing is visible.
func (g *AccessScopeGuard) ReadScope(p identity.Principal) (companyID uuid.UUID, ok bool, err error) {
	if !p.IsAuthenticated() {
		return uuid.Nil, false, shared.ErrUnauthorized
	}
	if !p.HasCompany() {
		return uuid.Nil, false, nil
	}
	return *p.CompanyID, true, nil
}

// RequireReadScope is ReadScope for single-record reads, where an empty
// scope means the record cannot be found.
func (g *AccessScopeGuard) RequireReadScope(p identity.Principal) (uuid.UUID, error) {
	companyID, ok, err := g.ReadScope(p)
	if err != nil {
		return uuid.Nil, err
	}
	if !ok {
		return uuid.Nil, shared.ErrNotFound
	}
	return companyID, nil
}

// EnsureClient checks a loaded client against the scope. Clients of other
// companies are reported as not found so their existence does not leak.
func (g *AccessScopeGuard) EnsureClient(companyID uuid.UUID, client *ledger.Client) error {
	if client == nil || !client.BelongsTo(companyID) {
		return shared.ErrNotFound
	}
	return nil
}
