package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"familybudget/internal/database"
	"familybudget/internal/models"
)

// TransactionRepository handles database operations for transactions
type TransactionRepository struct {
	db *database.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *database.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// CreateTransaction inserts a new transaction
func (r *TransactionRepository) CreateTransaction(ctx context.Context, txn *models.Transaction) (*models.Transaction, error) {
	query := `
		INSERT INTO transactions (family_id, user_id, account_id, category_id, amount, date, description)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(ctx, query,
		txn.FamilyID, txn.UserID, txn.AccountID, txn.CategoryID,
		txn.Amount, txn.Date, txn.Description)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	txn.ID = id
	txn.CreatedAt = time.Now()
	txn.UpdatedAt = time.Now()
	return txn, nil
}

// GetTransactionByID retrieves a transaction by ID
func (r *TransactionRepository) GetTransactionByID(ctx context.Context, id int64) (*models.Transaction, error) {
	query := `
		SELECT id, family_id, user_id, account_id, category_id, amount, date,
		       COALESCE(description, ''), created_at, updated_at
		FROM transactions WHERE id = ?
	`
	txn := &models.Transaction{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&txn.ID, &txn.FamilyID, &txn.UserID, &txn.AccountID, &txn.CategoryID,
		&txn.Amount, &txn.Date, &txn.Description, &txn.CreatedAt, &txn.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return txn, nil
}

// GetFamilyTransactions retrieves all transactions for a family, latest first
func (r *TransactionRepository) GetFamilyTransactions(ctx context.Context, familyID int64) ([]models.Transaction, error) {
	query := `
		SELECT id, family_id, user_id, account_id, category_id, amount, date,
		       COALESCE(description, ''), created_at, updated_at
		FROM transactions WHERE family_id = ?
		ORDER BY date DESC
	`
	rows, err := r.db.Query(ctx, query, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txns []models.Transaction
	for rows.Next() {
		var txn models.Transaction
		if err := rows.Scan(
			&txn.ID, &txn.FamilyID, &txn.UserID, &txn.AccountID, &txn.CategoryID,
			&txn.Amount, &txn.Date, &txn.Description, &txn.CreatedAt, &txn.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transactions: %w", err)
	}
	return txns, nil
}

// UpdateTransaction updates a transaction's fields
func (r *TransactionRepository) UpdateTransaction(ctx context.Context, txn *models.Transaction) error {
	query := `
		UPDATE transactions
		SET account_id = ?, category_id = ?, amount = ?, date = ?, description = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	if _, err := r.db.Exec(ctx, query,
		txn.AccountID, txn.CategoryID, txn.Amount, txn.Date, txn.Description, txn.ID); err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	return nil
}

// DeleteTransaction deletes a transaction
func (r *TransactionRepository) DeleteTransaction(ctx context.Context, id int64) error {
	query := "DELETE FROM transactions WHERE id = ?"
	if _, err := r.db.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return nil
}
