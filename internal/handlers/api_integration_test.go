package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"familybudget/internal/authz"
	"familybudget/internal/database"
	"familybudget/internal/models"
	"familybudget/internal/repository"
	"familybudget/internal/security"
	"familybudget/internal/service"
)

// apiFixture runs a trimmed route table over a real sqlite database so
// handler tests exercise the full request path including auth
// middleware and the response envelope.
type apiFixture struct {
	server *httptest.Server

	ownerToken    string
	parentToken   string
	outsiderToken string
	familyID      int64
}

func setupAPIFixture(t *testing.T, dbPath string) *apiFixture {
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
	familyRepo := repository.NewFamilyRepository(db)
	accountRepo := repository.NewAccountRepository(db)

	authority := authz.NewAuthority(familyRepo)
	guard := authz.NewGuard(authority)
	tokens := security.NewTokenManager("test-secret", time.Hour)

	authService := service.NewAuthService(userRepo, tokens)
	familyService := service.NewFamilyService(familyRepo, userRepo, authority, nil)
	accountService := service.NewAccountService(accountRepo, guard)

	m := NewMiddleware(authService, security.NewRateLimiter(100, time.Minute))
	familyHandler := NewFamilyHandler(familyService)
	accountHandler := NewAccountHandler(accountService)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/families/{id}", m.RequireAuth(familyHandler.GetFamily))
	mux.HandleFunc("PUT /api/families/{id}", m.RequireAuth(familyHandler.UpdateFamily))
	mux.HandleFunc("POST /api/families/{id}/accounts", m.RequireAuth(accountHandler.CreateAccount))
	mux.HandleFunc("GET /api/accounts/{id}", m.RequireAuth(accountHandler.GetAccount))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	f := &apiFixture{server: server}

	issueToken := func(email, name string) string {
		user, err := authService.Register(ctx, email, "password123", name)
		if err != nil {
			t.Fatalf("Failed to register %s: %v", email, err)
		}
		issued, err := tokens.Issue(user.ID)
		if err != nil {
			t.Fatalf("Failed to issue token: %v", err)
		}
		return issued.APIKey
	}

	f.ownerToken = issueToken("owner@example.com", "Owner")
	f.parentToken = issueToken("parent@example.com", "Parent")
	f.outsiderToken = issueToken("outsider@example.com", "Outsider")

	owner, err := userRepo.GetUserByEmail(ctx, "owner@example.com")
	if err != nil || owner == nil {
		t.Fatalf("Failed to load owner: %v", err)
	}
	parent, err := userRepo.GetUserByEmail(ctx, "parent@example.com")
	if err != nil || parent == nil {
		t.Fatalf("Failed to load parent: %v", err)
	}

	family, err := familyRepo.CreateFamily(ctx, "Test Family", owner.ID)
	if err != nil {
		t.Fatalf("Failed to create family: %v", err)
	}
	if _, err := familyRepo.AddFamilyMember(ctx, family.ID, parent.ID, models.RoleParent); err != nil {
		t.Fatalf("Failed to add parent member: %v", err)
	}
	f.familyID = family.ID

	return f
}

func (f *apiFixture) do(t *testing.T, method, path, token, body string) (*http.Response, Envelope) {
	t.Helper()

	req, err := http.NewRequest(method, f.server.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	var envelope Envelope
	if resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
			t.Fatalf("Failed to decode envelope: %v", err)
		}
	}
	return resp, envelope
}

func TestAPIResponseChannels(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	f := setupAPIFixture(t, "test_api_channels.db")
	familyPath := fmt.Sprintf("/api/families/%d", f.familyID)

	t.Run("member read succeeds with envelope", func(t *testing.T) {
		resp, envelope := f.do(t, "GET", familyPath, f.parentToken, "")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}
		if envelope.Status != statusSuccessful {
			t.Errorf("envelope status = %q, want SUCCESSFUL", envelope.Status)
		}
	})

	t.Run("missing token is 401", func(t *testing.T) {
		resp, _ := f.do(t, "GET", familyPath, "", "")
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", resp.StatusCode)
		}
	})

	t.Run("outsider read is 403", func(t *testing.T) {
		resp, _ := f.do(t, "GET", familyPath, f.outsiderToken, "")
		if resp.StatusCode != http.StatusForbidden {
			t.Errorf("status = %d, want 403", resp.StatusCode)
		}
	})

	t.Run("absent family is FAILED envelope", func(t *testing.T) {
		resp, envelope := f.do(t, "GET", "/api/families/99999", f.ownerToken, "")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}
		if envelope.Status != statusFailed || envelope.Message != "Family not found" {
			t.Errorf("envelope = %+v, want FAILED Family not found", envelope)
		}
	})

	t.Run("non-owner rename is 403", func(t *testing.T) {
		resp, _ := f.do(t, "PUT", familyPath, f.parentToken, `{"name":"Hijacked"}`)
		if resp.StatusCode != http.StatusForbidden {
			t.Errorf("status = %d, want 403", resp.StatusCode)
		}
	})

	t.Run("owner creates an account", func(t *testing.T) {
		resp, envelope := f.do(t, "POST", familyPath+"/accounts", f.ownerToken,
			`{"name":"Checking","type":"asset"}`)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}
		if envelope.Status != statusSuccessful {
			t.Fatalf("envelope = %+v, want SUCCESSFUL", envelope)
		}
	})

	t.Run("invalid account type is FAILED envelope", func(t *testing.T) {
		resp, envelope := f.do(t, "POST", familyPath+"/accounts", f.ownerToken,
			`{"name":"Weird","type":"savings"}`)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}
		if envelope.Status != statusFailed {
			t.Errorf("envelope = %+v, want FAILED", envelope)
		}
		if envelope.Message != "Invalid account type: savings" {
			t.Errorf("message = %q", envelope.Message)
		}
	})

	t.Run("malformed body is 400", func(t *testing.T) {
		resp, _ := f.do(t, "PUT", familyPath, f.ownerToken, `{"name":`)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})
}
