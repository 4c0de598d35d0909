package service

import (
	"context"
	"errors"
	"testing"

	"familybudget/internal/authz"
	"familybudget/internal/models"
)

func newFamilyService(f *serviceFixture) *FamilyService {
	return NewFamilyService(f.famRepo, f.userRepo, f.authority, nil)
}

func TestCreateFamilyMakesCallerOwner(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	f := setupServiceFixture(t, "test_family_create.db")
	svc := newFamilyService(f)
	ctx := context.Background()

	family, err := svc.CreateFamily(ctx, "Second Family", f.parent)
	if err != nil {
		t.Fatalf("CreateFamily() error = %v", err)
	}

	member, err := f.authority.IsMember(ctx, family.ID, f.parent.ID)
	if err != nil {
		t.Fatalf("creator should be a member: %v", err)
	}
	if member.Role != models.RoleOwner {
		t.Errorf("creator role = %v, want owner", member.Role)
	}
}

func TestCreateFamilyRejectsBadName(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	f := setupServiceFixture(t, "test_family_badname.db")
	svc := newFamilyService(f)

	_, err := svc.CreateFamily(context.Background(), "", f.owner)
	if _, ok := AsBusiness(err); !ok {
		t.Errorf("expected business failure for empty name, got %v", err)
	}
}

func TestUpdateFamilyOwnerOnly(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	f := setupServiceFixture(t, "test_family_update.db")
	svc := newFamilyService(f)
	ctx := context.Background()

	updated, err := svc.UpdateFamily(ctx, f.family.ID, f.owner, "Renamed Family")
	if err != nil {
		t.Fatalf("UpdateFamily() as owner error = %v", err)
	}
	if updated.Name != "Renamed Family" {
		t.Errorf("family name = %q, want %q", updated.Name, "Renamed Family")
	}

	_, err = svc.UpdateFamily(ctx, f.family.ID, f.parent, "Parent Rename")
	wantForbidden(t, err)

	_, err = svc.UpdateFamily(ctx, 99999, f.owner, "Ghost")
	wantBusiness(t, err, "Family not found")
}

func TestGetFamilyMembershipRequired(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	f := setupServiceFixture(t, "test_family_get.db")
	svc := newFamilyService(f)
	ctx := context.Background()

	if _, err := svc.GetFamily(ctx, f.family.ID, f.guest); err != nil {
		t.Errorf("guest should be able to read the family: %v", err)
	}

	_, err := svc.GetFamily(ctx, f.family.ID, f.outsider)
	wantForbidden(t, err)
}

func TestAddMember(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	f := setupServiceFixture(t, "test_family_addmember.db")
	svc := newFamilyService(f)
	ctx := context.Background()

	t.Run("owner adds a new member", func(t *testing.T) {
		member, err := svc.AddMember(ctx, f.family.ID, f.outsider.ID, models.RoleChild, f.owner)
		if err != nil {
			t.Fatalf("AddMember() error = %v", err)
		}
		if member.Role != models.RoleChild {
			t.Errorf("member role = %v, want child", member.Role)
		}
	})

	t.Run("duplicate member is a soft failure", func(t *testing.T) {
		_, err := svc.AddMember(ctx, f.family.ID, f.outsider.ID, models.RoleChild, f.owner)
		wantBusiness(t, err, "User is already a member of this family")
	})

	t.Run("owner role can not be granted", func(t *testing.T) {
		newcomer := f.createUser(t, "newcomer@example.com", "Newcomer")
		_, err := svc.AddMember(ctx, f.family.ID, newcomer.ID, models.RoleOwner, f.owner)
		wantBusiness(t, err, "Invalid role for a new member")
	})

	t.Run("unknown role can not be granted", func(t *testing.T) {
		newcomer := f.createUser(t, "newcomer2@example.com", "Newcomer Two")
		_, err := svc.AddMember(ctx, f.family.ID, newcomer.ID, models.Role("admin"), f.owner)
		wantBusiness(t, err, "Invalid role for a new member")
	})

	t.Run("missing target user is a soft failure", func(t *testing.T) {
		_, err := svc.AddMember(ctx, f.family.ID, 99999, models.RoleChild, f.owner)
		wantBusiness(t, err, "User not found")
	})

	t.Run("non-owner may not add members", func(t *testing.T) {
		newcomer := f.createUser(t, "newcomer3@example.com", "Newcomer Three")
		_, err := svc.AddMember(ctx, f.family.ID, newcomer.ID, models.RoleChild, f.parent)
		wantForbidden(t, err)
	})

	t.Run("absent family is a hard failure", func(t *testing.T) {
		_, err := svc.AddMember(ctx, 99999, f.outsider.ID, models.RoleChild, f.owner)
		if !errors.Is(err, authz.ErrFamilyNotFound) {
			t.Errorf("expected ErrFamilyNotFound, got %v", err)
		}
	})
}

func TestRemoveMember(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	f := setupServiceFixture(t, "test_family_removemember.db")
	svc := newFamilyService(f)
	ctx := context.Background()

	t.Run("owner removes a member", func(t *testing.T) {
		if err := svc.RemoveMember(ctx, f.family.ID, f.guest.ID, f.owner); err != nil {
			t.Fatalf("RemoveMember() error = %v", err)
		}
		if _, err := f.authority.IsMember(ctx, f.family.ID, f.guest.ID); !errors.Is(err, authz.ErrForbidden) {
			t.Errorf("removed member should no longer be a member, got %v", err)
		}
	})

	t.Run("owner can never be removed", func(t *testing.T) {
		err := svc.RemoveMember(ctx, f.family.ID, f.owner.ID, f.owner)
		wantBusiness(t, err, "Cannot remove the owner of a family")
	})

	t.Run("removing a non-member is a soft failure", func(t *testing.T) {
		err := svc.RemoveMember(ctx, f.family.ID, f.outsider.ID, f.owner)
		wantBusiness(t, err, "User is not a member of this family")
	})

	t.Run("non-owner may not remove members", func(t *testing.T) {
		err := svc.RemoveMember(ctx, f.family.ID, f.parent.ID, f.parent)
		wantForbidden(t, err)
	})
}

func TestListMembers(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	f := setupServiceFixture(t, "test_family_listmembers.db")
	svc := newFamilyService(f)
	ctx := context.Background()

	details, err := svc.ListMembers(ctx, f.family.ID, f.guest)
	if err != nil {
		t.Fatalf("ListMembers() error = %v", err)
	}
	if len(details) != 3 {
		t.Fatalf("expected 3 members, got %d", len(details))
	}
	for _, d := range details {
		if d.Membership.UserID != d.User.ID {
			t.Errorf("membership user %d does not match user %d", d.Membership.UserID, d.User.ID)
		}
	}

	if _, err := svc.ListMembers(ctx, f.family.ID, f.outsider); err == nil {
		t.Error("outsider should not list members")
	}
}

func TestListUserFamiliesSelfOnly(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	f := setupServiceFixture(t, "test_family_userfamilies.db")
	svc := newFamilyService(f)
	ctx := context.Background()

	families, err := svc.ListUserFamilies(ctx, f.owner.ID, f.owner)
	if err != nil {
		t.Fatalf("ListUserFamilies() error = %v", err)
	}
	if len(families) != 1 {
		t.Errorf("expected 1 family, got %d", len(families))
	}

	_, err = svc.ListUserFamilies(ctx, f.owner.ID, f.parent)
	wantForbidden(t, err)
}

func TestDeleteFamily(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	f := setupServiceFixture(t, "test_family_delete.db")
	svc := newFamilyService(f)
	ctx := context.Background()

	if err := svc.DeleteFamily(ctx, f.family.ID, f.parent); err == nil {
		t.Error("non-owner should not delete the family")
	}

	if err := svc.DeleteFamily(ctx, f.family.ID, f.owner); err != nil {
		t.Fatalf("DeleteFamily() error = %v", err)
	}

	_, err := svc.GetFamily(ctx, f.family.ID, f.owner)
	wantBusiness(t, err, "Family not found")
}
