package authz

import (
	"context"
	"errors"
	"os"
	"testing"

	"familybudget/internal/database"
	"familybudget/internal/models"
	"familybudget/internal/repository"
)

type authzFixture struct {
	db        *database.DB
	users     *repository.UserRepository
	families  *repository.FamilyRepository
	authority *Authority
	owner     *models.User
	child     *models.User
	guest     *models.User
	outsider  *models.User
	family    *models.Family
}

func setupAuthzFixture(t *testing.T, dbPath string) *authzFixture {
	t.Helper()

	db, err := database.Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
		os.Remove(dbPath)
	})

	ctx := context.Background()
	if err := db.RunMigrations(ctx, "../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	users := repository.NewUserRepository(db)
	families := repository.NewFamilyRepository(db)

	owner, err := users.CreateUser(ctx, "owner@example.com", "hash", "Owner")
	if err != nil {
		t.Fatalf("Failed to create owner: %v", err)
	}
	child, err := users.CreateUser(ctx, "child@example.com", "hash", "Child")
	if err != nil {
		t.Fatalf("Failed to create child: %v", err)
	}
	guest, err := users.CreateUser(ctx, "guest@example.com", "hash", "Guest")
	if err != nil {
		t.Fatalf("Failed to create guest: %v", err)
	}
	outsider, err := users.CreateUser(ctx, "outsider@example.com", "hash", "Outsider")
	if err != nil {
		t.Fatalf("Failed to create outsider: %v", err)
	}

	family, err := families.CreateFamily(ctx, "Test Family", owner.ID)
	if err != nil {
		t.Fatalf("Failed to create family: %v", err)
	}
	if _, err := families.AddFamilyMember(ctx, family.ID, child.ID, models.RoleChild); err != nil {
		t.Fatalf("Failed to add child member: %v", err)
	}
	if _, err := families.AddFamilyMember(ctx, family.ID, guest.ID, models.RoleGuest); err != nil {
		t.Fatalf("Failed to add guest member: %v", err)
	}

	return &authzFixture{
		db:        db,
		users:     users,
		families:  families,
		authority: NewAuthority(families),
		owner:     owner,
		child:     child,
		guest:     guest,
		outsider:  outsider,
		family:    family,
	}
}

func TestAuthorityIsMember(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	f := setupAuthzFixture(t, "test_authority_member.db")
	ctx := context.Background()

	t.Run("creator is the owner member", func(t *testing.T) {
		member, err := f.authority.IsMember(ctx, f.family.ID, f.owner.ID)
		if err != nil {
			t.Fatalf("IsMember() error = %v", err)
		}
		if member.Role != models.RoleOwner {
			t.Errorf("creator role = %v, want owner", member.Role)
		}
	})

	t.Run("added member is found", func(t *testing.T) {
		member, err := f.authority.IsMember(ctx, f.family.ID, f.child.ID)
		if err != nil {
			t.Fatalf("IsMember() error = %v", err)
		}
		if member.Role != models.RoleChild {
			t.Errorf("member role = %v, want child", member.Role)
		}
	})

	t.Run("non-member is forbidden", func(t *testing.T) {
		_, err := f.authority.IsMember(ctx, f.family.ID, f.outsider.ID)
		if !errors.Is(err, ErrForbidden) {
			t.Errorf("IsMember() error = %v, want ErrForbidden", err)
		}
	})

	t.Run("absent family", func(t *testing.T) {
		_, err := f.authority.IsMember(ctx, 99999, f.owner.ID)
		if !errors.Is(err, ErrFamilyNotFound) {
			t.Errorf("IsMember() error = %v, want ErrFamilyNotFound", err)
		}
	})
}

func TestAuthorityIsOwner(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	f := setupAuthzFixture(t, "test_authority_owner.db")
	ctx := context.Background()

	tests := []struct {
		name    string
		userID  int64
		wantErr error
	}{
		{name: "owner passes", userID: f.owner.ID, wantErr: nil},
		{name: "child is forbidden", userID: f.child.ID, wantErr: ErrForbidden},
		{name: "outsider is forbidden", userID: f.outsider.ID, wantErr: ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.authority.IsOwner(ctx, f.family.ID, tt.userID)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("IsOwner() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("IsOwner() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAuthorityHasAnyRole(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	f := setupAuthzFixture(t, "test_authority_roles.db")
	ctx := context.Background()

	t.Run("role in set passes", func(t *testing.T) {
		_, err := f.authority.HasAnyRole(ctx, f.family.ID, f.child.ID, models.RoleParent, models.RoleChild)
		if err != nil {
			t.Errorf("HasAnyRole() error = %v, want nil", err)
		}
	})

	t.Run("role outside set is forbidden", func(t *testing.T) {
		_, err := f.authority.HasAnyRole(ctx, f.family.ID, f.guest.ID, models.RoleOwner, models.RoleParent)
		if !errors.Is(err, ErrForbidden) {
			t.Errorf("HasAnyRole() error = %v, want ErrForbidden", err)
		}
	})

	t.Run("non-member is forbidden regardless of set", func(t *testing.T) {
		_, err := f.authority.HasAnyRole(ctx, f.family.ID, f.outsider.ID,
			models.RoleOwner, models.RoleParent, models.RoleBigSibling, models.RoleChild, models.RoleGuest)
		if !errors.Is(err, ErrForbidden) {
			t.Errorf("HasAnyRole() error = %v, want ErrForbidden", err)
		}
	})
}

func TestAuthorityCrossTenantIsolation(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	f := setupAuthzFixture(t, "test_authority_tenancy.db")
	ctx := context.Background()

	// The outsider owns a second family; that grants nothing in the first.
	other, err := f.families.CreateFamily(ctx, "Other Family", f.outsider.ID)
	if err != nil {
		t.Fatalf("Failed to create second family: %v", err)
	}

	if _, err := f.authority.IsOwner(ctx, other.ID, f.outsider.ID); err != nil {
		t.Fatalf("outsider should own their own family: %v", err)
	}
	if _, err := f.authority.IsMember(ctx, f.family.ID, f.outsider.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("membership must not leak across families, got %v", err)
	}
	if _, err := f.authority.IsMember(ctx, other.ID, f.owner.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("membership must not leak across families, got %v", err)
	}
}
