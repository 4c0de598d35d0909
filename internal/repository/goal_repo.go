package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"familybudget/internal/database"
	"familybudget/internal/models"
)

// GoalRepository handles database operations for savings goals
type GoalRepository struct {
	db *database.DB
}

// NewGoalRepository creates a new goal repository
func NewGoalRepository(db *database.DB) *GoalRepository {
	return &GoalRepository{db: db}
}

// CreateGoal inserts a new goal
func (r *GoalRepository) CreateGoal(ctx context.Context, goal *models.Goal) (*models.Goal, error) {
	query := `
		INSERT INTO goals (family_id, user_id, name, target_amount, saved_amount, due_date)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(ctx, query,
		goal.FamilyID, goal.UserID, goal.Name, goal.TargetAmount, goal.SavedAmount, goal.DueDate)
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}
	goal.ID = id
	goal.CreatedAt = time.Now()
	goal.UpdatedAt = time.Now()
	return goal, nil
}

// GetGoalByID retrieves a goal by ID
func (r *GoalRepository) GetGoalByID(ctx context.Context, id int64) (*models.Goal, error) {
	query := `
		SELECT id, family_id, user_id, name, target_amount, saved_amount, due_date, created_at, updated_at
		FROM goals WHERE id = ?
	`
	goal := &models.Goal{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&goal.ID, &goal.FamilyID, &goal.UserID, &goal.Name,
		&goal.TargetAmount, &goal.SavedAmount, &goal.DueDate,
		&goal.CreatedAt, &goal.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}
	return goal, nil
}

// GetFamilyGoals retrieves all goals for a family
func (r *GoalRepository) GetFamilyGoals(ctx context.Context, familyID int64) ([]models.Goal, error) {
	query := `
		SELECT id, family_id, user_id, name, target_amount, saved_amount, due_date, created_at, updated_at
		FROM goals WHERE family_id = ?
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, query, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query goals: %w", err)
	}
	defer rows.Close()

	var goals []models.Goal
	for rows.Next() {
		var goal models.Goal
		if err := rows.Scan(
			&goal.ID, &goal.FamilyID, &goal.UserID, &goal.Name,
			&goal.TargetAmount, &goal.SavedAmount, &goal.DueDate,
			&goal.CreatedAt, &goal.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, goal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read goals: %w", err)
	}
	return goals, nil
}

// UpdateGoal updates a goal's fields
func (r *GoalRepository) UpdateGoal(ctx context.Context, goal *models.Goal) error {
	query := `
		UPDATE goals
		SET name = ?, target_amount = ?, saved_amount = ?, due_date = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	if _, err := r.db.Exec(ctx, query,
		goal.Name, goal.TargetAmount, goal.SavedAmount, goal.DueDate, goal.ID); err != nil {
		return fmt.Errorf("failed to update goal: %w", err)
	}
	return nil
}

// DeleteGoal deletes a goal
func (r *GoalRepository) DeleteGoal(ctx context.Context, id int64) error {
	query := "DELETE FROM goals WHERE id = ?"
	if _, err := r.db.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	return nil
}
