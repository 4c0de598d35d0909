package security

import (
	"errors"
	"testing"
	"time"
)

func TestTokenIssueAndVerify(t *testing.T) {
	manager := NewTokenManager("test-secret-key", time.Hour)

	issued, err := manager.Issue(42)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if issued.APIKey == "" {
		t.Fatal("Issue() returned empty token")
	}
	if !issued.ExpiresAt.After(issued.IssuedAt) {
		t.Error("ExpiresAt should be after IssuedAt")
	}

	userID, err := manager.Verify(issued.APIKey)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if userID != 42 {
		t.Errorf("Verify() = %d, want 42", userID)
	}
}

func TestTokenVerifyRejectsExpired(t *testing.T) {
	manager := NewTokenManager("test-secret-key", -time.Minute)

	issued, err := manager.Issue(42)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if _, err := manager.Verify(issued.APIKey); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
	}
}

func TestTokenVerifyRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-one", time.Hour)
	verifier := NewTokenManager("secret-two", time.Hour)

	issued, err := issuer.Issue(42)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if _, err := verifier.Verify(issued.APIKey); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
	}
}

func TestTokenVerifyRejectsGarbage(t *testing.T) {
	manager := NewTokenManager("test-secret-key", time.Hour)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty string", token: ""},
		{name: "not a jwt", token: "definitely-not-a-token"},
		{name: "truncated jwt", token: "eyJhbGciOiJIUzI1NiJ9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := manager.Verify(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Verify(%q) error = %v, want ErrInvalidToken", tt.token, err)
			}
		})
	}
}

func TestTokensAreUnique(t *testing.T) {
	manager := NewTokenManager("test-secret-key", time.Hour)

	first, err := manager.Issue(42)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	second, err := manager.Issue(42)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if first.APIKey == second.APIKey {
		t.Error("two issued tokens for the same user should differ")
	}
}
