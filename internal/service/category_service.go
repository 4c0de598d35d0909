package service

import (
	"context"

	"familybudget/internal/authz"
	"familybudget/internal/models"
	"familybudget/internal/repository"
	"familybudget/internal/validation"
)

// CategoryService handles transaction categories. Reads are open to any
// family member; mutations are owner-only.
type CategoryService struct {
	categoryRepo *repository.CategoryRepository
	guard        *authz.Guard
}

// NewCategoryService creates a new category service
func NewCategoryService(categoryRepo *repository.CategoryRepository, guard *authz.Guard) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo, guard: guard}
}

// CreateCategory creates a category in the given family
func (s *CategoryService) CreateCategory(ctx context.Context, familyID int64, caller *models.User, name string, categoryType models.CategoryType) (*models.Category, error) {
	if err := s.guard.AuthorizeConfigure(ctx, familyID, caller.ID); err != nil {
		return nil, err
	}
	if err := validation.ValidateName(name); err != nil {
		return nil, &BusinessError{Message: err.Error()}
	}
	if !categoryType.Valid() {
		return nil, Failf("Invalid category type: %s", categoryType)
	}
	category, err := s.categoryRepo.CreateCategory(ctx, &models.Category{
		FamilyID: familyID,
		UserID:   caller.ID,
		Name:     name,
		Type:     categoryType,
	})
	if err != nil {
		return nil, persistFail("create category", err)
	}
	return category, nil
}

// GetCategory retrieves a single category
func (s *CategoryService) GetCategory(ctx context.Context, categoryID int64, caller *models.User) (*models.Category, error) {
	category, err := s.categoryRepo.GetCategoryByID(ctx, categoryID)
	if err != nil {
		return nil, persistFail("retrieve category", err)
	}
	if category == nil {
		return nil, &BusinessError{Message: "Category not found"}
	}
	if err := s.guard.AuthorizeRead(ctx, category.FamilyID, caller.ID); err != nil {
		return nil, err
	}
	return category, nil
}

// ListCategories lists a family's categories
func (s *CategoryService) ListCategories(ctx context.Context, familyID int64, caller *models.User) ([]models.Category, error) {
	if err := s.guard.AuthorizeRead(ctx, familyID, caller.ID); err != nil {
		return nil, err
	}
	categories, err := s.categoryRepo.GetFamilyCategories(ctx, familyID)
	if err != nil {
		return nil, persistFail("retrieve categories", err)
	}
	return categories, nil
}

// UpdateCategory renames or retypes a category; owner only
func (s *CategoryService) UpdateCategory(ctx context.Context, categoryID int64, caller *models.User, name string, categoryType models.CategoryType) (*models.Category, error) {
	category, err := s.categoryRepo.GetCategoryByID(ctx, categoryID)
	if err != nil {
		return nil, persistFail("retrieve category", err)
	}
	if category == nil {
		return nil, &BusinessError{Message: "Category not found"}
	}
	if err := s.guard.AuthorizeConfigure(ctx, category.FamilyID, caller.ID); err != nil {
		return nil, err
	}
	if err := validation.ValidateName(name); err != nil {
		return nil, &BusinessError{Message: err.Error()}
	}
	if !categoryType.Valid() {
		return nil, Failf("Invalid category type: %s", categoryType)
	}
	if err := s.categoryRepo.UpdateCategory(ctx, categoryID, name, categoryType); err != nil {
		return nil, persistFail("update category", err)
	}
	category.Name = name
	category.Type = categoryType
	return category, nil
}

// DeleteCategory removes a category; owner only
func (s *CategoryService) DeleteCategory(ctx context.Context, categoryID int64, caller *models.User) error {
	category, err := s.categoryRepo.GetCategoryByID(ctx, categoryID)
	if err != nil {
		return persistFail("retrieve category", err)
	}
	if category == nil {
		return &BusinessError{Message: "Category not found"}
	}
	if err := s.guard.AuthorizeConfigure(ctx, category.FamilyID, caller.ID); err != nil {
		return err
	}
	if err := s.categoryRepo.DeleteCategory(ctx, categoryID); err != nil {
		return persistFail("delete category", err)
	}
	return nil
}
