package service

import (
	"context"
	"time"

	"familybudget/internal/authz"
	"familybudget/internal/models"
	"familybudget/internal/repository"
)

// TransactionService handles ledger entries. Reads are open to any
// family member; writes require a non-guest role. The referenced
// account and category must belong to the transaction's own family.
type TransactionService struct {
	txnRepo      *repository.TransactionRepository
	accountRepo  *repository.AccountRepository
	categoryRepo *repository.CategoryRepository
	guard        *authz.Guard
}

// NewTransactionService creates a new transaction service
func NewTransactionService(txnRepo *repository.TransactionRepository, accountRepo *repository.AccountRepository, categoryRepo *repository.CategoryRepository, guard *authz.Guard) *TransactionService {
	return &TransactionService{
		txnRepo:      txnRepo,
		accountRepo:  accountRepo,
		categoryRepo: categoryRepo,
		guard:        guard,
	}
}

// checkReferences verifies that the account and category exist and
// belong to familyID
func (s *TransactionService) checkReferences(ctx context.Context, familyID, accountID, categoryID int64) error {
	account, err := s.accountRepo.GetAccountByID(ctx, accountID)
	if err != nil {
		return persistFail("retrieve account", err)
	}
	if account == nil {
		return &BusinessError{Message: "Account not found"}
	}
	if account.FamilyID != familyID {
		return &BusinessError{Message: "Account belongs to a different family"}
	}
	category, err := s.categoryRepo.GetCategoryByID(ctx, categoryID)
	if err != nil {
		return persistFail("retrieve category", err)
	}
	if category == nil {
		return &BusinessError{Message: "Category not found"}
	}
	if category.FamilyID != familyID {
		return &BusinessError{Message: "Category belongs to a different family"}
	}
	return nil
}

// CreateTransaction records a ledger entry in the given family
func (s *TransactionService) CreateTransaction(ctx context.Context, familyID int64, caller *models.User, accountID, categoryID int64, amount float64, date time.Time, description string) (*models.Transaction, error) {
	if err := s.guard.AuthorizeLedgerWrite(ctx, familyID, caller.ID); err != nil {
		return nil, err
	}
	if amount == 0 {
		return nil, &BusinessError{Message: "Transaction amount can not be zero"}
	}
	if err := s.checkReferences(ctx, familyID, accountID, categoryID); err != nil {
		return nil, err
	}
	txn, err := s.txnRepo.CreateTransaction(ctx, &models.Transaction{
		FamilyID:    familyID,
		UserID:      caller.ID,
		AccountID:   accountID,
		CategoryID:  categoryID,
		Amount:      amount,
		Date:        date,
		Description: description,
	})
	if err != nil {
		return nil, persistFail("create transaction", err)
	}
	return txn, nil
}

// GetTransaction retrieves a single transaction
func (s *TransactionService) GetTransaction(ctx context.Context, txnID int64, caller *models.User) (*models.Transaction, error) {
	txn, err := s.txnRepo.GetTransactionByID(ctx, txnID)
	if err != nil {
		return nil, persistFail("retrieve transaction", err)
	}
	if txn == nil {
		return nil, &BusinessError{Message: "Transaction not found"}
	}
	if err := s.guard.AuthorizeRead(ctx, txn.FamilyID, caller.ID); err != nil {
		return nil, err
	}
	return txn, nil
}

// ListTransactions lists a family's transactions
func (s *TransactionService) ListTransactions(ctx context.Context, familyID int64, caller *models.User) ([]models.Transaction, error) {
	if err := s.guard.AuthorizeRead(ctx, familyID, caller.ID); err != nil {
		return nil, err
	}
	txns, err := s.txnRepo.GetFamilyTransactions(ctx, familyID)
	if err != nil {
		return nil, persistFail("retrieve transactions", err)
	}
	return txns, nil
}

// UpdateTransaction edits a ledger entry; any non-guest member
func (s *TransactionService) UpdateTransaction(ctx context.Context, txnID int64, caller *models.User, accountID, categoryID int64, amount float64, date time.Time, description string) (*models.Transaction, error) {
	txn, err := s.txnRepo.GetTransactionByID(ctx, txnID)
	if err != nil {
		return nil, persistFail("retrieve transaction", err)
	}
	if txn == nil {
		return nil, &BusinessError{Message: "Transaction not found"}
	}
	if err := s.guard.AuthorizeLedgerWrite(ctx, txn.FamilyID, caller.ID); err != nil {
		return nil, err
	}
	if amount == 0 {
		return nil, &BusinessError{Message: "Transaction amount can not be zero"}
	}
	if err := s.checkReferences(ctx, txn.FamilyID, accountID, categoryID); err != nil {
		return nil, err
	}
	txn.AccountID = accountID
	txn.CategoryID = categoryID
	txn.Amount = amount
	txn.Date = date
	txn.Description = description
	if err := s.txnRepo.UpdateTransaction(ctx, txn); err != nil {
		return nil, persistFail("update transaction", err)
	}
	return txn, nil
}

// DeleteTransaction removes a ledger entry; any non-guest member
func (s *TransactionService) DeleteTransaction(ctx context.Context, txnID int64, caller *models.User) error {
	txn, err := s.txnRepo.GetTransactionByID(ctx, txnID)
	if err != nil {
		return persistFail("retrieve transaction", err)
	}
	if txn == nil {
		return &BusinessError{Message: "Transaction not found"}
	}
	if err := s.guard.AuthorizeLedgerWrite(ctx, txn.FamilyID, caller.ID); err != nil {
		return err
	}
	if err := s.txnRepo.DeleteTransaction(ctx, txnID); err != nil {
		return persistFail("delete transaction", err)
	}
	return nil
}
