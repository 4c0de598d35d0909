package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"familybudget/internal/database"
	"familybudget/internal/models"
)

// BudgetRepository handles database operations for budgets
type BudgetRepository struct {
	db *database.DB
}

// NewBudgetRepository creates a new budget repository
func NewBudgetRepository(db *database.DB) *BudgetRepository {
	return &BudgetRepository{db: db}
}

// CreateBudget inserts a new budget
func (r *BudgetRepository) CreateBudget(ctx context.Context, budget *models.Budget) (*models.Budget, error) {
	query := `
		INSERT INTO budgets (family_id, user_id, name, amount, start_date, end_date)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(ctx, query,
		budget.FamilyID, budget.UserID, budget.Name, budget.Amount, budget.StartDate, budget.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to create budget: %w", err)
	}
	budget.ID = id
	budget.CreatedAt = time.Now()
	budget.UpdatedAt = time.Now()
	return budget, nil
}

// GetBudgetByID retrieves a budget by ID
func (r *BudgetRepository) GetBudgetByID(ctx context.Context, id int64) (*models.Budget, error) {
	query := `
		SELECT id, family_id, user_id, name, amount, start_date, end_date, created_at, updated_at
		FROM budgets WHERE id = ?
	`
	budget := &models.Budget{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&budget.ID, &budget.FamilyID, &budget.UserID, &budget.Name,
		&budget.Amount, &budget.StartDate, &budget.EndDate,
		&budget.CreatedAt, &budget.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}
	return budget, nil
}

// GetFamilyBudgets retrieves all budgets for a family
func (r *BudgetRepository) GetFamilyBudgets(ctx context.Context, familyID int64) ([]models.Budget, error) {
	query := `
		SELECT id, family_id, user_id, name, amount, start_date, end_date, created_at, updated_at
		FROM budgets WHERE family_id = ?
		ORDER BY start_date DESC
	`
	rows, err := r.db.Query(ctx, query, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query budgets: %w", err)
	}
	defer rows.Close()

	var budgets []models.Budget
	for rows.Next() {
		var budget models.Budget
		if err := rows.Scan(
			&budget.ID, &budget.FamilyID, &budget.UserID, &budget.Name,
			&budget.Amount, &budget.StartDate, &budget.EndDate,
			&budget.CreatedAt, &budget.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		budgets = append(budgets, budget)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read budgets: %w", err)
	}
	return budgets, nil
}

// UpdateBudget updates a budget's fields
func (r *BudgetRepository) UpdateBudget(ctx context.Context, budget *models.Budget) error {
	query := `
		UPDATE budgets
		SET name = ?, amount = ?, start_date = ?, end_date = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	if _, err := r.db.Exec(ctx, query,
		budget.Name, budget.Amount, budget.StartDate, budget.EndDate, budget.ID); err != nil {
		return fmt.Errorf("failed to update budget: %w", err)
	}
	return nil
}

// DeleteBudget deletes a budget
func (r *BudgetRepository) DeleteBudget(ctx context.Context, id int64) error {
	query := "DELETE FROM budgets WHERE id = ?"
	if _, err := r.db.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	return nil
}
