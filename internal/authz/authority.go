// Package authz implements the family membership authority and the
// resource authorization guard. Authorization failures use a hard error
// channel (ErrFamilyNotFound, ErrForbidden) that the HTTP layer maps to
// 404/403, distinct from the soft envelope failures used for business
// errors.
package authz

import (
	"context"
	"errors"
	"fmt"

	"familybudget/internal/models"
	"familybudget/internal/repository"
)

var (
	// ErrFamilyNotFound is returned when the family being checked does
	// not exist. Mapped to HTTP 404.
	ErrFamilyNotFound = errors.New("family not found")

	// ErrForbidden is returned when the user lacks the required
	// membership or role. Mapped to HTTP 403.
	ErrForbidden = errors.New("user is not permitted to perform this action")
)

// Authority answers membership and role questions for a family. It is a
// pure reader: every check is a fresh lookup keyed by (family_id,
// user_id), with the family's memberships loaded eagerly in one query.
type Authority struct {
	families *repository.FamilyRepository
}

// NewAuthority creates a new membership authority
func NewAuthority(families *repository.FamilyRepository) *Authority {
	return &Authority{families: families}
}

func (a *Authority) resolve(ctx context.Context, familyID int64) (*models.FamilyWithMembers, error) {
	family, err := a.families.GetFamilyWithMembers(ctx, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve family: %w", err)
	}
	if family == nil {
		return nil, ErrFamilyNotFound
	}
	return family, nil
}

// IsMember succeeds if userID has any membership in the family,
// returning the membership row. Fails with ErrFamilyNotFound if the
// family is absent, ErrForbidden if the user is not a member.
func (a *Authority) IsMember(ctx context.Context, familyID, userID int64) (*models.FamilyMember, error) {
	family, err := a.resolve(ctx, familyID)
	if err != nil {
		return nil, err
	}
	member := family.MemberByUserID(userID)
	if member == nil {
		return nil, fmt.Errorf("user %d is not a member of family %d: %w", userID, familyID, ErrForbidden)
	}
	return member, nil
}

// IsOwner succeeds only if userID holds the owner role in the family
func (a *Authority) IsOwner(ctx context.Context, familyID, userID int64) (*models.FamilyMember, error) {
	return a.HasAnyRole(ctx, familyID, userID, models.RoleOwner)
}

// HasAnyRole succeeds if userID's membership role is one of roles
func (a *Authority) HasAnyRole(ctx context.Context, familyID, userID int64, roles ...models.Role) (*models.FamilyMember, error) {
	family, err := a.resolve(ctx, familyID)
	if err != nil {
		return nil, err
	}
	member := family.MemberByUserID(userID)
	if member == nil {
		return nil, fmt.Errorf("user %d is not a member of family %d: %w", userID, familyID, ErrForbidden)
	}
	for _, role := range roles {
		if member.Role == role {
			return member, nil
		}
	}
	return nil, fmt.Errorf("user %d lacks required role in family %d: %w", userID, familyID, ErrForbidden)
}
