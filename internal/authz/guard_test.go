package authz

import (
	"context"
	"errors"
	"testing"
)

func TestGuardPolicy(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	f := setupAuthzFixture(t, "test_guard_policy.db")
	guard := NewGuard(f.authority)
	ctx := context.Background()

	tests := []struct {
		name    string
		check   func() error
		wantErr error
	}{
		{
			name:    "owner may read",
			check:   func() error { return guard.AuthorizeRead(ctx, f.family.ID, f.owner.ID) },
			wantErr: nil,
		},
		{
			name:    "guest may read",
			check:   func() error { return guard.AuthorizeRead(ctx, f.family.ID, f.guest.ID) },
			wantErr: nil,
		},
		{
			name:    "outsider may not read",
			check:   func() error { return guard.AuthorizeRead(ctx, f.family.ID, f.outsider.ID) },
			wantErr: ErrForbidden,
		},
		{
			name:    "owner may configure",
			check:   func() error { return guard.AuthorizeConfigure(ctx, f.family.ID, f.owner.ID) },
			wantErr: nil,
		},
		{
			name:    "child may not configure",
			check:   func() error { return guard.AuthorizeConfigure(ctx, f.family.ID, f.child.ID) },
			wantErr: ErrForbidden,
		},
		{
			name:    "child may write the ledger",
			check:   func() error { return guard.AuthorizeLedgerWrite(ctx, f.family.ID, f.child.ID) },
			wantErr: nil,
		},
		{
			name:    "guest may not write the ledger",
			check:   func() error { return guard.AuthorizeLedgerWrite(ctx, f.family.ID, f.guest.ID) },
			wantErr: ErrForbidden,
		},
		{
			name:    "absent family is not found",
			check:   func() error { return guard.AuthorizeRead(ctx, 99999, f.owner.ID) },
			wantErr: ErrFamilyNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.check()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("got error %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got error %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAuthorizeSelf(t *testing.T) {
	tests := []struct {
		name           string
		resourceUserID int64
		callerID       int64
		wantErr        bool
	}{
		{name: "same user", resourceUserID: 7, callerID: 7, wantErr: false},
		{name: "different user", resourceUserID: 7, callerID: 8, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := AuthorizeSelf(tt.resourceUserID, tt.callerID)
			if tt.wantErr {
				if !errors.Is(err, ErrForbidden) {
					t.Errorf("AuthorizeSelf() error = %v, want ErrForbidden", err)
				}
				return
			}
			if err != nil {
				t.Errorf("AuthorizeSelf() error = %v, want nil", err)
			}
		})
	}
}

func TestGuardExposesAuthority(t *testing.T) {
	authority := NewAuthority(nil)
	guard := NewGuard(authority)
	if guard.Authority() != authority {
		t.Error("Authority() should return the wrapped authority")
	}
}
