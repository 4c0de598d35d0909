package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"familybudget/internal/security"
)

func newAuthFixture(t *testing.T, dbPath string) (*serviceFixture, *AuthService) {
	t.Helper()
	f := setupServiceFixture(t, dbPath)
	tokens := security.NewTokenManager("test-secret", time.Hour)
	return f, NewAuthService(f.userRepo, tokens)
}

func TestRegister(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	f, svc := newAuthFixture(t, "test_auth_register.db")
	ctx := context.Background()

	t.Run("valid registration", func(t *testing.T) {
		user, err := svc.Register(ctx, "new@example.com", "password123", "New User")
		if err != nil {
			t.Fatalf("Register() error = %v", err)
		}
		if user.ID == 0 {
			t.Error("user should have an id")
		}
		if user.PasswordHash == "password123" {
			t.Error("password must not be stored in plaintext")
		}
	})

	t.Run("duplicate email is a soft failure", func(t *testing.T) {
		_, err := svc.Register(ctx, f.owner.Email, "password123", "Impostor")
		wantBusiness(t, err, "Email is already taken")
	})

	tests := []struct {
		name     string
		email    string
		password string
		userName string
	}{
		{name: "bad email", email: "not-an-email", password: "password123", userName: "User"},
		{name: "short password", email: "ok@example.com", password: "short", userName: "User"},
		{name: "empty name", email: "ok@example.com", password: "password123", userName: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.email, tt.password, tt.userName)
			if _, ok := AsBusiness(err); !ok {
				t.Errorf("expected business failure, got %v", err)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	_, svc := newAuthFixture(t, "test_auth_login.db")
	ctx := context.Background()

	if _, err := svc.Register(ctx, "login@example.com", "password123", "Login User"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	t.Run("valid credentials issue a token", func(t *testing.T) {
		token, user, err := svc.Login(ctx, "login@example.com", "password123")
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		if token.APIKey == "" {
			t.Error("expected a token")
		}
		if user.Email != "login@example.com" {
			t.Errorf("user email = %q", user.Email)
		}

		resolved, err := svc.ResolveToken(ctx, token.APIKey)
		if err != nil {
			t.Fatalf("ResolveToken() error = %v", err)
		}
		if resolved.ID != user.ID {
			t.Errorf("resolved user %d, want %d", resolved.ID, user.ID)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "login@example.com", "wrong-password")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Login() error = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "nobody@example.com", "password123")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Login() error = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("garbage token does not resolve", func(t *testing.T) {
		_, err := svc.ResolveToken(ctx, "not-a-token")
		if !errors.Is(err, security.ErrInvalidToken) {
			t.Errorf("ResolveToken() error = %v, want ErrInvalidToken", err)
		}
	})
}

func TestPasswordReset(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	f, svc := newAuthFixture(t, "test_auth_reset.db")
	ctx := context.Background()

	t.Run("unknown email is not revealed", func(t *testing.T) {
		if err := svc.RequestPasswordReset(ctx, nil, "nobody@example.com"); err != nil {
			t.Errorf("RequestPasswordReset() for unknown email should be silent, got %v", err)
		}
	})

	t.Run("full reset round trip", func(t *testing.T) {
		if err := svc.RequestPasswordReset(ctx, nil, f.owner.Email); err != nil {
			t.Fatalf("RequestPasswordReset() error = %v", err)
		}

		// Fetch the stored token directly; email delivery is disabled in
		// tests.
		var token string
		err := f.db.QueryRow(ctx,
			"SELECT token FROM password_reset_tokens WHERE user_id = ?", f.owner.ID).Scan(&token)
		if err != nil {
			t.Fatalf("Failed to read reset token: %v", err)
		}

		if err := svc.ResetPassword(ctx, token, "new-password-99"); err != nil {
			t.Fatalf("ResetPassword() error = %v", err)
		}

		if _, _, err := svc.Login(ctx, f.owner.Email, "new-password-99"); err != nil {
			t.Errorf("login with new password failed: %v", err)
		}

		err = svc.ResetPassword(ctx, token, "another-password")
		wantBusiness(t, err, "This reset link has already been used")
	})

	t.Run("invalid token is a soft failure", func(t *testing.T) {
		err := svc.ResetPassword(ctx, "bogus-token", "new-password-99")
		wantBusiness(t, err, "Invalid or expired reset token")
	})
}

func TestUpdateProfile(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	f, svc := newAuthFixture(t, "test_auth_profile.db")
	ctx := context.Background()

	t.Run("self update", func(t *testing.T) {
		user, err := svc.UpdateProfile(ctx, f.owner.ID, f.owner, "Renamed Owner", f.owner.Email)
		if err != nil {
			t.Fatalf("UpdateProfile() error = %v", err)
		}
		if user.Name != "Renamed Owner" {
			t.Errorf("name = %q, want %q", user.Name, "Renamed Owner")
		}
	})

	t.Run("other users are forbidden", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, f.owner.ID, f.parent, "Hijacked", f.owner.Email)
		wantForbidden(t, err)
	})

	t.Run("taken email is a soft failure", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, f.owner.ID, f.owner, "Owner", f.parent.Email)
		wantBusiness(t, err, "Email is already taken")
	})
}

func TestOAuthLogin(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	f, svc := newAuthFixture(t, "test_auth_oauth.db")
	ctx := context.Background()

	t.Run("provisions a new user", func(t *testing.T) {
		token, user, err := svc.OAuthLogin(ctx, "google", "sub-123", "oauth@example.com", "OAuth User")
		if err != nil {
			t.Fatalf("OAuthLogin() error = %v", err)
		}
		if token.APIKey == "" {
			t.Error("expected a token")
		}
		if user.Email != "oauth@example.com" {
			t.Errorf("user email = %q", user.Email)
		}

		// A second login with the same subject reuses the account.
		_, again, err := svc.OAuthLogin(ctx, "google", "sub-123", "oauth@example.com", "OAuth User")
		if err != nil {
			t.Fatalf("second OAuthLogin() error = %v", err)
		}
		if again.ID != user.ID {
			t.Errorf("second login user %d, want %d", again.ID, user.ID)
		}
	})

	t.Run("links to an existing password account", func(t *testing.T) {
		_, user, err := svc.OAuthLogin(ctx, "google", "sub-456", f.owner.Email, f.owner.Name)
		if err != nil {
			t.Fatalf("OAuthLogin() error = %v", err)
		}
		if user.ID != f.owner.ID {
			t.Errorf("linked user %d, want %d", user.ID, f.owner.ID)
		}
	})

	t.Run("missing provider information", func(t *testing.T) {
		_, _, err := svc.OAuthLogin(ctx, "", "", "oauth@example.com", "OAuth User")
		wantBusiness(t, err, "Missing oauth provider information")
	})
}
