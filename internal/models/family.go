package models

import "time"

// Role is a user's role within a family. The owner manages membership
// and family-level configuration; guests have read-only access.
type Role string

const (
	RoleOwner      Role = "owner"
	RoleParent     Role = "parent"
	RoleBigSibling Role = "big_sibling"
	RoleChild      Role = "child"
	RoleGuest      Role = "guest"
)

// AssignableRoles are the roles an owner may grant when adding a member.
// Ownership is fixed at family creation and never reassigned.
var AssignableRoles = []Role{RoleParent, RoleBigSibling, RoleChild, RoleGuest}

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleParent, RoleBigSibling, RoleChild, RoleGuest:
		return true
	}
	return false
}

// Assignable reports whether r may be granted to a new member
func (r Role) Assignable() bool {
	return r.Valid() && r != RoleOwner
}

// Family is the tenant boundary grouping users and their shared
// financial resources.
type Family struct {
	ID        int64
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FamilyMember represents the membership of a user in a family
type FamilyMember struct {
	ID       int64
	FamilyID int64
	UserID   int64
	Role     Role
	JoinedAt time.Time
}

// FamilyWithMembers combines a family with its eagerly-loaded memberships
type FamilyWithMembers struct {
	Family  Family
	Members []FamilyMember
}

// MemberByUserID returns the membership row for userID, or nil
func (f *FamilyWithMembers) MemberByUserID(userID int64) *FamilyMember {
	for i := range f.Members {
		if f.Members[i].UserID == userID {
			return &f.Members[i]
		}
	}
	return nil
}
