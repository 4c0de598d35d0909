package service

import (
	"context"

	"familybudget/internal/authz"
	"familybudget/internal/models"
	"familybudget/internal/repository"
)

// BudgetTransactionService assigns parts of transactions to budgets.
// Both the budget and the transaction must belong to the assignment's
// own family. Writes require a non-guest role.
type BudgetTransactionService struct {
	btRepo     *repository.BudgetTransactionRepository
	budgetRepo *repository.BudgetRepository
	txnRepo    *repository.TransactionRepository
	guard      *authz.Guard
}

// NewBudgetTransactionService creates a new budget-transaction service
func NewBudgetTransactionService(btRepo *repository.BudgetTransactionRepository, budgetRepo *repository.BudgetRepository, txnRepo *repository.TransactionRepository, guard *authz.Guard) *BudgetTransactionService {
	return &BudgetTransactionService{
		btRepo:     btRepo,
		budgetRepo: budgetRepo,
		txnRepo:    txnRepo,
		guard:      guard,
	}
}

// checkReferences verifies that the budget and transaction exist and
// belong to familyID
func (s *BudgetTransactionService) checkReferences(ctx context.Context, familyID, budgetID, txnID int64) error {
	budget, err := s.budgetRepo.GetBudgetByID(ctx, budgetID)
	if err != nil {
		return persistFail("retrieve budget", err)
	}
	if budget == nil {
		return &BusinessError{Message: "Budget not found"}
	}
	if budget.FamilyID != familyID {
		return &BusinessError{Message: "Budget belongs to a different family"}
	}
	txn, err := s.txnRepo.GetTransactionByID(ctx, txnID)
	if err != nil {
		return persistFail("retrieve transaction", err)
	}
	if txn == nil {
		return &BusinessError{Message: "Transaction not found"}
	}
	if txn.FamilyID != familyID {
		return &BusinessError{Message: "Transaction belongs to a different family"}
	}
	return nil
}

// CreateBudgetTransaction assigns part of a transaction to a budget
func (s *BudgetTransactionService) CreateBudgetTransaction(ctx context.Context, familyID int64, caller *models.User, budgetID, txnID int64, assignedAmount float64) (*models.BudgetTransaction, error) {
	if err := s.guard.AuthorizeLedgerWrite(ctx, familyID, caller.ID); err != nil {
		return nil, err
	}
	if assignedAmount <= 0 {
		return nil, &BusinessError{Message: "Assigned amount must be greater than zero"}
	}
	if err := s.checkReferences(ctx, familyID, budgetID, txnID); err != nil {
		return nil, err
	}
	bt, err := s.btRepo.CreateBudgetTransaction(ctx, &models.BudgetTransaction{
		FamilyID:       familyID,
		UserID:         caller.ID,
		BudgetID:       budgetID,
		TransactionID:  txnID,
		AssignedAmount: assignedAmount,
	})
	if err != nil {
		return nil, persistFail("create budget transaction", err)
	}
	return bt, nil
}

// GetBudgetTransaction retrieves a single assignment
func (s *BudgetTransactionService) GetBudgetTransaction(ctx context.Context, btID int64, caller *models.User) (*models.BudgetTransaction, error) {
	bt, err := s.btRepo.GetBudgetTransactionByID(ctx, btID)
	if err != nil {
		return nil, persistFail("retrieve budget transaction", err)
	}
	if bt == nil {
		return nil, &BusinessError{Message: "Budget transaction not found"}
	}
	if err := s.guard.AuthorizeRead(ctx, bt.FamilyID, caller.ID); err != nil {
		return nil, err
	}
	return bt, nil
}

// ListBudgetTransactions lists a family's assignments
func (s *BudgetTransactionService) ListBudgetTransactions(ctx context.Context, familyID int64, caller *models.User) ([]models.BudgetTransaction, error) {
	if err := s.guard.AuthorizeRead(ctx, familyID, caller.ID); err != nil {
		return nil, err
	}
	bts, err := s.btRepo.GetFamilyBudgetTransactions(ctx, familyID)
	if err != nil {
		return nil, persistFail("retrieve budget transactions", err)
	}
	return bts, nil
}

// UpdateBudgetTransaction changes the assigned amount; any non-guest
// member
func (s *BudgetTransactionService) UpdateBudgetTransaction(ctx context.Context, btID int64, caller *models.User, assignedAmount float64) (*models.BudgetTransaction, error) {
	bt, err := s.btRepo.GetBudgetTransactionByID(ctx, btID)
	if err != nil {
		return nil, persistFail("retrieve budget transaction", err)
	}
	if bt == nil {
		return nil, &BusinessError{Message: "Budget transaction not found"}
	}
	if err := s.guard.AuthorizeLedgerWrite(ctx, bt.FamilyID, caller.ID); err != nil {
		return nil, err
	}
	if assignedAmount <= 0 {
		return nil, &BusinessError{Message: "Assigned amount must be greater than zero"}
	}
	if err := s.btRepo.UpdateBudgetTransaction(ctx, btID, assignedAmount); err != nil {
		return nil, persistFail("update budget transaction", err)
	}
	bt.AssignedAmount = assignedAmount
	return bt, nil
}

// DeleteBudgetTransaction removes an assignment; any non-guest member
func (s *BudgetTransactionService) DeleteBudgetTransaction(ctx context.Context, btID int64, caller *models.User) error {
	bt, err := s.btRepo.GetBudgetTransactionByID(ctx, btID)
	if err != nil {
		return persistFail("retrieve budget transaction", err)
	}
	if bt == nil {
		return &BusinessError{Message: "Budget transaction not found"}
	}
	if err := s.guard.AuthorizeLedgerWrite(ctx, bt.FamilyID, caller.ID); err != nil {
		return err
	}
	if err := s.btRepo.DeleteBudgetTransaction(ctx, btID); err != nil {
		return persistFail("delete budget transaction", err)
	}
	return nil
}
