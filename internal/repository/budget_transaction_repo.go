package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"familybudget/internal/database"
	"familybudget/internal/models"
)

// BudgetTransactionRepository handles database operations for
// budget-transaction assignments
type BudgetTransactionRepository struct {
	db *database.DB
}

// NewBudgetTransactionRepository creates a new budget-transaction repository
func NewBudgetTransactionRepository(db *database.DB) *BudgetTransactionRepository {
	return &BudgetTransactionRepository{db: db}
}

// CreateBudgetTransaction inserts a new assignment
func (r *BudgetTransactionRepository) CreateBudgetTransaction(ctx context.Context, bt *models.BudgetTransaction) (*models.BudgetTransaction, error) {
	query := `
		INSERT INTO budget_transactions (family_id, user_id, budget_id, transaction_id, assigned_amount)
		VALUES (?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(ctx, query,
		bt.FamilyID, bt.UserID, bt.BudgetID, bt.TransactionID, bt.AssignedAmount)
	if err != nil {
		return nil, fmt.Errorf("failed to create budget transaction: %w", err)
	}
	bt.ID = id
	bt.CreatedAt = time.Now()
	bt.UpdatedAt = time.Now()
	return bt, nil
}

// GetBudgetTransactionByID retrieves an assignment by ID
func (r *BudgetTransactionRepository) GetBudgetTransactionByID(ctx context.Context, id int64) (*models.BudgetTransaction, error) {
	query := `
		SELECT id, family_id, user_id, budget_id, transaction_id, assigned_amount, created_at, updated_at
		FROM budget_transactions WHERE id = ?
	`
	bt := &models.BudgetTransaction{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&bt.ID, &bt.FamilyID, &bt.UserID, &bt.BudgetID, &bt.TransactionID,
		&bt.AssignedAmount, &bt.CreatedAt, &bt.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get budget transaction: %w", err)
	}
	return bt, nil
}

// GetFamilyBudgetTransactions retrieves all assignments for a family
func (r *BudgetTransactionRepository) GetFamilyBudgetTransactions(ctx context.Context, familyID int64) ([]models.BudgetTransaction, error) {
	query := `
		SELECT id, family_id, user_id, budget_id, transaction_id, assigned_amount, created_at, updated_at
		FROM budget_transactions WHERE family_id = ?
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, query, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query budget transactions: %w", err)
	}
	defer rows.Close()

	var bts []models.BudgetTransaction
	for rows.Next() {
		var bt models.BudgetTransaction
		if err := rows.Scan(
			&bt.ID, &bt.FamilyID, &bt.UserID, &bt.BudgetID, &bt.TransactionID,
			&bt.AssignedAmount, &bt.CreatedAt, &bt.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan budget transaction: %w", err)
		}
		bts = append(bts, bt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read budget transactions: %w", err)
	}
	return bts, nil
}

// UpdateBudgetTransaction updates an assignment's amount
func (r *BudgetTransactionRepository) UpdateBudgetTransaction(ctx context.Context, id int64, assignedAmount float64) error {
	query := "UPDATE budget_transactions SET assigned_amount = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	if _, err := r.db.Exec(ctx, query, assignedAmount, id); err != nil {
		return fmt.Errorf("failed to update budget transaction: %w", err)
	}
	return nil
}

// DeleteBudgetTransaction deletes an assignment
func (r *BudgetTransactionRepository) DeleteBudgetTransaction(ctx context.Context, id int64) error {
	query := "DELETE FROM budget_transactions WHERE id = ?"
	if _, err := r.db.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete budget transaction: %w", err)
	}
	return nil
}
