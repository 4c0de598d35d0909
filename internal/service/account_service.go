package service

import (
	"context"

	"familybudget/internal/authz"
	"familybudget/internal/models"
	"familybudget/internal/repository"
	"familybudget/internal/validation"
)

// AccountService handles family money accounts. Reads are open to any
// family member; mutations are owner-only.
type AccountService struct {
	accountRepo *repository.AccountRepository
	guard       *authz.Guard
}

// NewAccountService creates a new account service
func NewAccountService(accountRepo *repository.AccountRepository, guard *authz.Guard) *AccountService {
	return &AccountService{accountRepo: accountRepo, guard: guard}
}

// CreateAccount creates an account in the given family
func (s *AccountService) CreateAccount(ctx context.Context, familyID int64, caller *models.User, name string, accountType models.AccountType) (*models.Account, error) {
	if err := s.guard.AuthorizeConfigure(ctx, familyID, caller.ID); err != nil {
		return nil, err
	}
	if err := validation.ValidateName(name); err != nil {
		return nil, &BusinessError{Message: err.Error()}
	}
	if !accountType.Valid() {
		return nil, Failf("Invalid account type: %s", accountType)
	}
	account, err := s.accountRepo.CreateAccount(ctx, &models.Account{
		FamilyID: familyID,
		UserID:   caller.ID,
		Name:     name,
		Type:     accountType,
	})
	if err != nil {
		return nil, persistFail("create account", err)
	}
	return account, nil
}

// GetAccount retrieves a single account
func (s *AccountService) GetAccount(ctx context.Context, accountID int64, caller *models.User) (*models.Account, error) {
	account, err := s.accountRepo.GetAccountByID(ctx, accountID)
	if err != nil {
		return nil, persistFail("retrieve account", err)
	}
	if account == nil {
		return nil, &BusinessError{Message: "Account not found"}
	}
	if err := s.guard.AuthorizeRead(ctx, account.FamilyID, caller.ID); err != nil {
		return nil, err
	}
	return account, nil
}

// ListAccounts lists a family's accounts
func (s *AccountService) ListAccounts(ctx context.Context, familyID int64, caller *models.User) ([]models.Account, error) {
	if err := s.guard.AuthorizeRead(ctx, familyID, caller.ID); err != nil {
		return nil, err
	}
	accounts, err := s.accountRepo.GetFamilyAccounts(ctx, familyID)
	if err != nil {
		return nil, persistFail("retrieve accounts", err)
	}
	return accounts, nil
}

// UpdateAccount renames or retypes an account; owner only
func (s *AccountService) UpdateAccount(ctx context.Context, accountID int64, caller *models.User, name string, accountType models.AccountType) (*models.Account, error) {
	account, err := s.accountRepo.GetAccountByID(ctx, accountID)
	if err != nil {
		return nil, persistFail("retrieve account", err)
	}
	if account == nil {
		return nil, &BusinessError{Message: "Account not found"}
	}
	if err := s.guard.AuthorizeConfigure(ctx, account.FamilyID, caller.ID); err != nil {
		return nil, err
	}
	if err := validation.ValidateName(name); err != nil {
		return nil, &BusinessError{Message: err.Error()}
	}
	if !accountType.Valid() {
		return nil, Failf("Invalid account type: %s", accountType)
	}
	if err := s.accountRepo.UpdateAccount(ctx, accountID, name, accountType); err != nil {
		return nil, persistFail("update account", err)
	}
	account.Name = name
	account.Type = accountType
	return account, nil
}

// DeleteAccount removes an account; owner only
func (s *AccountService) DeleteAccount(ctx context.Context, accountID int64, caller *models.User) error {
	account, err := s.accountRepo.GetAccountByID(ctx, accountID)
	if err != nil {
		return persistFail("retrieve account", err)
	}
	if account == nil {
		return &BusinessError{Message: "Account not found"}
	}
	if err := s.guard.AuthorizeConfigure(ctx, account.FamilyID, caller.ID); err != nil {
		return err
	}
	if err := s.accountRepo.DeleteAccount(ctx, accountID); err != nil {
		return persistFail("delete account", err)
	}
	return nil
}
