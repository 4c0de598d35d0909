package service

import (
	"context"
	"errors"
	"os"
	"testing"

	"familybudget/internal/authz"
	"familybudget/internal/database"
	"familybudget/internal/models"
	"familybudget/internal/repository"
)

// serviceFixture wires a real sqlite database through the repositories,
// authority and guard so service tests exercise the full policy path.
type serviceFixture struct {
	db        *database.DB
	userRepo  *repository.UserRepository
	famRepo   *repository.FamilyRepository
	authority *authz.Authority
	guard     *authz.Guard

	owner    *models.User
	parent   *models.User
	guest    *models.User
	outsider *models.User
	family   *models.Family
}

func setupServiceFixture(t *testing.T, dbPath string) *serviceFixture {
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

	userRepo := repository.NewUserRepository(db)
	famRepo := repository.NewFamilyRepository(db)
	authority := authz.NewAuthority(famRepo)

	f := &serviceFixture{
		db:        db,
		userRepo:  userRepo,
		famRepo:   famRepo,
		authority: authority,
		guard:     authz.NewGuard(authority),
	}

	f.owner = f.createUser(t, "owner@example.com", "Owner")
	f.parent = f.createUser(t, "parent@example.com", "Parent")
	f.guest = f.createUser(t, "guest@example.com", "Guest")
	f.outsider = f.createUser(t, "outsider@example.com", "Outsider")

	f.family, err = famRepo.CreateFamily(ctx, "Test Family", f.owner.ID)
	if err != nil {
		t.Fatalf("Failed to create family: %v", err)
	}
	if _, err := famRepo.AddFamilyMember(ctx, f.family.ID, f.parent.ID, models.RoleParent); err != nil {
		t.Fatalf("Failed to add parent member: %v", err)
	}
	if _, err := famRepo.AddFamilyMember(ctx, f.family.ID, f.guest.ID, models.RoleGuest); err != nil {
		t.Fatalf("Failed to add guest member: %v", err)
	}

	return f
}

// setupServiceFixtureEmpty opens a migrated but unseeded database.
func setupServiceFixtureEmpty(t *testing.T, dbPath string) *database.DB {
	t.Helper()

	db, err := database.Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
		os.Remove(dbPath)
	})

	if err := db.RunMigrations(context.Background(), "../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}

func (f *serviceFixture) createUser(t *testing.T, email, name string) *models.User {
	t.Helper()
	user, err := f.userRepo.CreateUser(context.Background(), email, "hash", name)
	if err != nil {
		t.Fatalf("Failed to create user %s: %v", email, err)
	}
	return user
}

// wantBusiness asserts that err is a soft business failure with the
// given message.
func wantBusiness(t *testing.T, err error, message string) {
	t.Helper()
	be, ok := AsBusiness(err)
	if !ok {
		t.Fatalf("expected business failure, got %v", err)
	}
	if be.Message != message {
		t.Errorf("business message = %q, want %q", be.Message, message)
	}
}

// wantForbidden asserts that err is the hard authorization failure.
func wantForbidden(t *testing.T, err error) {
	t.Helper()
	if _, ok := AsBusiness(err); ok {
		t.Fatalf("expected hard forbidden error, got business failure %v", err)
	}
	if !errors.Is(err, authz.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
