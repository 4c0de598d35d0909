package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"familybudget/internal/database"
	"familybudget/internal/models"
)

// AccountRepository handles database operations for accounts
type AccountRepository struct {
	db *database.DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *database.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// CreateAccount inserts a new account
func (r *AccountRepository) CreateAccount(ctx context.Context, account *models.Account) (*models.Account, error) {
	query := `
		INSERT INTO accounts (family_id, user_id, name, type)
		VALUES (?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(ctx, query, account.FamilyID, account.UserID, account.Name, account.Type)
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	account.ID = id
	account.CreatedAt = time.Now()
	account.UpdatedAt = time.Now()
	return account, nil
}

// GetAccountByID retrieves an account by ID
func (r *AccountRepository) GetAccountByID(ctx context.Context, id int64) (*models.Account, error) {
	query := `
		SELECT id, family_id, user_id, name, type, created_at, updated_at
		FROM accounts WHERE id = ?
	`
	account := &models.Account{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&account.ID, &account.FamilyID, &account.UserID,
		&account.Name, &account.Type, &account.CreatedAt, &account.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

// GetFamilyAccounts retrieves all accounts for a family
func (r *AccountRepository) GetFamilyAccounts(ctx context.Context, familyID int64) ([]models.Account, error) {
	query := `
		SELECT id, family_id, user_id, name, type, created_at, updated_at
		FROM accounts WHERE family_id = ?
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, query, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var account models.Account
		if err := rows.Scan(
			&account.ID, &account.FamilyID, &account.UserID,
			&account.Name, &account.Type, &account.CreatedAt, &account.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read accounts: %w", err)
	}
	return accounts, nil
}

// UpdateAccount updates an account's name and type
func (r *AccountRepository) UpdateAccount(ctx context.Context, id int64, name string, accountType models.AccountType) error {
	query := "UPDATE accounts SET name = ?, type = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	if _, err := r.db.Exec(ctx, query, name, accountType, id); err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	return nil
}

// DeleteAccount deletes an account
func (r *AccountRepository) DeleteAccount(ctx context.Context, id int64) error {
	query := "DELETE FROM accounts WHERE id = ?"
	if _, err := r.db.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}
