package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"familybudget/internal/authz"
	"familybudget/internal/models"
	"familybudget/internal/repository"
	"familybudget/internal/security"
	"familybudget/internal/validation"
)

// AuthService handles registration, login, token issuance and the
// user's own profile operations.
type AuthService struct {
	userRepo *repository.UserRepository
	tokens   *security.TokenManager
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo *repository.UserRepository, tokens *security.TokenManager) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// Register creates a new user account
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*models.User, error) {
	if err := validation.ValidateEmail(email); err != nil {
		return nil, &BusinessError{Message: err.Error()}
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, &BusinessError{Message: err.Error()}
	}
	if err := validation.ValidateName(name); err != nil {
		return nil, &BusinessError{Message: err.Error()}
	}

	existing, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, persistFail("check existing user", err)
	}
	if existing != nil {
		return nil, &BusinessError{Message: "Email is already taken"}
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.CreateUser(ctx, email, passwordHash, name)
	if err != nil {
		return nil, persistFail("create user", err)
	}
	return user, nil
}

// Login verifies credentials and issues a bearer token
func (s *AuthService) Login(ctx context.Context, email, password string) (*security.IssuedToken, *models.User, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, nil, persistFail("look up user", err)
	}
	if user == nil {
		return nil, nil, ErrInvalidCredentials
	}

	if !security.CheckPassword(password, user.PasswordHash) {
		return nil, nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return token, user, nil
}

// ResolveToken verifies a bearer token and loads its user. This is the
// caller-identity lookup used by the auth middleware.
func (s *AuthService) ResolveToken(ctx context.Context, tokenString string) (*models.User, error) {
	userID, err := s.tokens.Verify(tokenString)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load token user: %w", err)
	}
	if user == nil {
		return nil, security.ErrInvalidToken
	}
	return user, nil
}

// OAuthLogin signs a user in with a verified external identity,
// linking or provisioning the account as needed, and issues the same
// bearer token a password login would.
func (s *AuthService) OAuthLogin(ctx context.Context, provider, subject, email, name string) (*security.IssuedToken, *models.User, error) {
	if provider == "" || subject == "" {
		return nil, nil, &BusinessError{Message: "Missing oauth provider information"}
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, nil, &BusinessError{Message: err.Error()}
	}

	user, err := s.userRepo.GetUserByOAuth(ctx, provider, subject)
	if err != nil {
		return nil, nil, persistFail("look up oauth user", err)
	}

	if user == nil {
		existing, err := s.userRepo.GetUserByEmail(ctx, email)
		if err != nil {
			return nil, nil, persistFail("check existing user", err)
		}
		if existing != nil {
			if existing.OAuthProvider != "" && existing.OAuthProvider != provider {
				return nil, nil, &BusinessError{Message: "Email is already linked to another sign-in method"}
			}
			if err := s.userRepo.LinkOAuthProvider(ctx, existing.ID, provider, subject); err != nil {
				return nil, nil, persistFail("link oauth provider", err)
			}
			user = existing
		} else {
			if name == "" {
				name = strings.Split(email, "@")[0]
			}
			// Provision with an unguessable password; the account is
			// oauth-only until the user sets one via reset.
			randomHash, err := security.HashPassword(generateOpaqueSecret())
			if err != nil {
				return nil, nil, fmt.Errorf("failed to generate oauth password hash: %w", err)
			}
			created, err := s.userRepo.CreateUser(ctx, email, randomHash, name)
			if err != nil {
				return nil, nil, persistFail("create oauth user", err)
			}
			if err := s.userRepo.LinkOAuthProvider(ctx, created.ID, provider, subject); err != nil {
				return nil, nil, persistFail("link oauth provider", err)
			}
			user = created
		}
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return token, user, nil
}

// UpdateProfile updates a user's own name and email. Only the user
// themselves may mutate their account.
func (s *AuthService) UpdateProfile(ctx context.Context, targetUserID int64, caller *models.User, name, email string) (*models.User, error) {
	if err := authz.AuthorizeSelf(targetUserID, caller.ID); err != nil {
		return nil, err
	}
	if err := validation.ValidateName(name); err != nil {
		return nil, &BusinessError{Message: err.Error()}
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, &BusinessError{Message: err.Error()}
	}

	if email != caller.Email {
		existing, err := s.userRepo.GetUserByEmail(ctx, email)
		if err != nil {
			return nil, persistFail("check existing user", err)
		}
		if existing != nil && existing.ID != targetUserID {
			return nil, &BusinessError{Message: "Email is already taken"}
		}
	}

	if err := s.userRepo.UpdateUser(ctx, targetUserID, name, email); err != nil {
		return nil, persistFail("update user", err)
	}
	user, err := s.userRepo.GetUserByID(ctx, targetUserID)
	if err != nil {
		return nil, persistFail("reload user", err)
	}
	return user, nil
}

// DeleteAccount removes a user's own account
func (s *AuthService) DeleteAccount(ctx context.Context, targetUserID int64, caller *models.User) error {
	if err := authz.AuthorizeSelf(targetUserID, caller.ID); err != nil {
		return err
	}
	if err := s.userRepo.DeleteUser(ctx, targetUserID); err != nil {
		return persistFail("delete user", err)
	}
	return nil
}

// RequestPasswordReset creates a reset token and mails it. A missing
// account is not revealed to the caller.
func (s *AuthService) RequestPasswordReset(ctx context.Context, emailService *EmailService, email string) error {
	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return persistFail("look up user", err)
	}
	if user == nil {
		return nil
	}

	token, err := generateSecureToken(32)
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}

	_ = s.userRepo.DeleteUserPasswordResetTokens(ctx, user.ID)

	expiresAt := time.Now().Add(1 * time.Hour)
	if err := s.userRepo.CreatePasswordResetToken(ctx, token, user.ID, expiresAt); err != nil {
		return persistFail("create reset token", err)
	}

	if emailService != nil && emailService.IsEnabled() {
		if err := emailService.SendPasswordResetEmail(ctx, user.Email, user.Name, token); err != nil {
			return fmt.Errorf("failed to send reset email: %w", err)
		}
	}
	return nil
}

// ResetPassword sets a new password using a valid reset token
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	resetToken, err := s.userRepo.GetPasswordResetToken(ctx, token)
	if err != nil {
		return persistFail("look up reset token", err)
	}
	if resetToken == nil {
		return &BusinessError{Message: "Invalid or expired reset token"}
	}
	if resetToken.Used {
		return &BusinessError{Message: "This reset link has already been used"}
	}
	if resetToken.IsExpired() {
		return &BusinessError{Message: "This reset link has expired"}
	}

	if err := validation.ValidatePassword(newPassword); err != nil {
		return &BusinessError{Message: err.Error()}
	}

	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, resetToken.UserID, passwordHash); err != nil {
		return persistFail("update password", err)
	}
	if err := s.userRepo.MarkPasswordResetTokenAsUsed(ctx, token); err != nil {
		return persistFail("mark reset token used", err)
	}
	return nil
}

// CleanupExpiredPasswordResetTokens removes expired reset tokens
func (s *AuthService) CleanupExpiredPasswordResetTokens(ctx context.Context) error {
	return s.userRepo.DeleteExpiredPasswordResetTokens(ctx)
}

// generateSecureToken generates a cryptographically secure random token
func generateSecureToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

func generateOpaqueSecret() string {
	secret, err := generateSecureToken(24)
	if err != nil {
		// crypto/rand failure is unrecoverable
		panic(err)
	}
	return secret
}
