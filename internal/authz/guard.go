package authz

import (
	"context"
	"fmt"

	"familybudget/internal/models"
)

// ledgerWriteRoles may create and mutate ledger entries (transactions,
// budget assignments, attachments). Guests are read-only.
var ledgerWriteRoles = []models.Role{
	models.RoleOwner,
	models.RoleParent,
	models.RoleBigSibling,
	models.RoleChild,
}

// Guard applies the authorization policy for resource access. Services
// resolve the target resource first, then call the guard with the
// resource's OWN stored family id, never a client-supplied one, so a
// member of family A can not touch family B's resources by guessing ids.
type Guard struct {
	authority *Authority
}

// NewGuard creates a guard backed by the given authority
func NewGuard(authority *Authority) *Guard {
	return &Guard{authority: authority}
}

// Authority exposes the underlying membership authority
func (g *Guard) Authority() *Authority {
	return g.authority
}

// AuthorizeRead requires any membership in the family
func (g *Guard) AuthorizeRead(ctx context.Context, familyID, callerID int64) error {
	_, err := g.authority.IsMember(ctx, familyID, callerID)
	return err
}

// AuthorizeConfigure requires the owner role. Used for mutations of
// family-level configuration: accounts, categories, budgets, goals and
// the family itself.
func (g *Guard) AuthorizeConfigure(ctx context.Context, familyID, callerID int64) error {
	_, err := g.authority.IsOwner(ctx, familyID, callerID)
	return err
}

// AuthorizeLedgerWrite requires any non-guest role. Used for mutations
// of transactions, budget-transactions and attachments.
func (g *Guard) AuthorizeLedgerWrite(ctx context.Context, familyID, callerID int64) error {
	_, err := g.authority.HasAnyRole(ctx, familyID, callerID, ledgerWriteRoles...)
	return err
}

// AuthorizeSelf requires that the caller is the resource's owning user.
// Used for the User entity, which is not family-scoped.
func AuthorizeSelf(resourceUserID, callerID int64) error {
	if resourceUserID != callerID {
		return fmt.Errorf("user %d may not act on user %d: %w", callerID, resourceUserID, ErrForbidden)
	}
	return nil
}
