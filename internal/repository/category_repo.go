package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"familybudget/internal/database"
	"familybudget/internal/models"
)

// CategoryRepository handles database operations for categories
type CategoryRepository struct {
	db *database.DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *database.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// CreateCategory inserts a new category
func (r *CategoryRepository) CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	query := `
		INSERT INTO categories (family_id, user_id, name, type)
		VALUES (?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(ctx, query, category.FamilyID, category.UserID, category.Name, category.Type)
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	category.ID = id
	category.CreatedAt = time.Now()
	category.UpdatedAt = time.Now()
	return category, nil
}

// GetCategoryByID retrieves a category by ID
func (r *CategoryRepository) GetCategoryByID(ctx context.Context, id int64) (*models.Category, error) {
	query := `
		SELECT id, family_id, user_id, name, type, created_at, updated_at
		FROM categories WHERE id = ?
	`
	category := &models.Category{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&category.ID, &category.FamilyID, &category.UserID,
		&category.Name, &category.Type, &category.CreatedAt, &category.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return category, nil
}

// GetFamilyCategories retrieves all categories for a family
func (r *CategoryRepository) GetFamilyCategories(ctx context.Context, familyID int64) ([]models.Category, error) {
	query := `
		SELECT id, family_id, user_id, name, type, created_at, updated_at
		FROM categories WHERE family_id = ?
		ORDER BY name ASC
	`
	rows, err := r.db.Query(ctx, query, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var category models.Category
		if err := rows.Scan(
			&category.ID, &category.FamilyID, &category.UserID,
			&category.Name, &category.Type, &category.CreatedAt, &category.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read categories: %w", err)
	}
	return categories, nil
}

// UpdateCategory updates a category's name and type
func (r *CategoryRepository) UpdateCategory(ctx context.Context, id int64, name string, categoryType models.CategoryType) error {
	query := "UPDATE categories SET name = ?, type = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	if _, err := r.db.Exec(ctx, query, name, categoryType, id); err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	return nil
}

// DeleteCategory deletes a category
func (r *CategoryRepository) DeleteCategory(ctx context.Context, id int64) error {
	query := "DELETE FROM categories WHERE id = ?"
	if _, err := r.db.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}
