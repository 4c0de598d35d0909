package handlers

import (
	"net/http"

	"familybudget/internal/service"

	"golang.org/x/oauth2"
)

// AuthHandler handles authentication and user account endpoints
type AuthHandler struct {
	authService  *service.AuthService
	emailService *service.EmailService
	oauthConfig  *oauth2.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, emailService *service.EmailService, oauthConfig *oauth2.Config) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		emailService: emailService,
		oauthConfig:  oauthConfig,
	}
}

// Register creates a new user account
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.authService.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		respondWithError(w, err)
		return
	}
	writeSuccess(w, "User registered", toUserPayload(user))
}

// Login verifies credentials and returns an API token
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	token, _, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondWithError(w, err)
		return
	}
	writeSuccess(w, "Login successful", token)
}

// Me returns the authenticated user's profile
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	writeSuccess(w, "User retrieved", toUserPayload(user))
}

// UpdateUser updates a user's own profile
func (h *AuthHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := parsePathID(r, "id")
	if !ok {
		writeHTTPError(w, http.StatusNotFound, "User not found")
		return
	}
	var req struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	caller := GetUserFromContext(r.Context())
	user, err := h.authService.UpdateProfile(r.Context(), userID, caller, req.Name, req.Email)
	if err != nil {
		respondWithError(w, err)
		return
	}
	writeSuccess(w, "User updated", toUserPayload(user))
}

// DeleteUser removes a user's own account
func (h *AuthHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := parsePathID(r, "id")
	if !ok {
		writeHTTPError(w, http.StatusNotFound, "User not found")
		return
	}

	caller := GetUserFromContext(r.Context())
	if err := h.authService.DeleteAccount(r.Context(), userID, caller); err != nil {
		respondWithError(w, err)
		return
	}
	writeSuccess(w, "User deleted", nil)
}

// RequestPasswordReset sends a password reset email. The response is
// the same whether or not the account exists.
func (h *AuthHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.authService.RequestPasswordReset(r.Context(), h.emailService, req.Email); err != nil {
		respondWithError(w, err)
		return
	}
	writeSuccess(w, "If an account exists for that address, a reset email has been sent", nil)
}

// ResetPassword sets a new password using a reset token
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.authService.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		respondWithError(w, err)
		return
	}
	writeSuccess(w, "Password has been reset", nil)
}
