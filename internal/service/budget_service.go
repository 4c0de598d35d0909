package service

import (
	"context"
	"time"

	"familybudget/internal/authz"
	"familybudget/internal/models"
	"familybudget/internal/repository"
	"familybudget/internal/validation"
)

// BudgetService handles spending envelopes. Reads are open to any
// family member; mutations are owner-only.
type BudgetService struct {
	budgetRepo *repository.BudgetRepository
	guard      *authz.Guard
}

// NewBudgetService creates a new budget service
func NewBudgetService(budgetRepo *repository.BudgetRepository, guard *authz.Guard) *BudgetService {
	return &BudgetService{budgetRepo: budgetRepo, guard: guard}
}

func validateBudgetInput(name string, amount float64, startDate, endDate time.Time) error {
	if err := validation.ValidateName(name); err != nil {
		return &BusinessError{Message: err.Error()}
	}
	if amount <= 0 {
		return &BusinessError{Message: "Budget amount must be greater than zero"}
	}
	if !endDate.After(startDate) {
		return &BusinessError{Message: "Budget end date must be after its start date"}
	}
	return nil
}

// CreateBudget creates a budget in the given family
func (s *BudgetService) CreateBudget(ctx context.Context, familyID int64, caller *models.User, name string, amount float64, startDate, endDate time.Time) (*models.Budget, error) {
	if err := s.guard.AuthorizeConfigure(ctx, familyID, caller.ID); err != nil {
		return nil, err
	}
	if err := validateBudgetInput(name, amount, startDate, endDate); err != nil {
		return nil, err
	}
	budget, err := s.budgetRepo.CreateBudget(ctx, &models.Budget{
		FamilyID:  familyID,
		UserID:    caller.ID,
		Name:      name,
		Amount:    amount,
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		return nil, persistFail("create budget", err)
	}
	return budget, nil
}

// GetBudget retrieves a single budget
func (s *BudgetService) GetBudget(ctx context.Context, budgetID int64, caller *models.User) (*models.Budget, error) {
	budget, err := s.budgetRepo.GetBudgetByID(ctx, budgetID)
	if err != nil {
		return nil, persistFail("retrieve budget", err)
	}
	if budget == nil {
		return nil, &BusinessError{Message: "Budget not found"}
	}
	if err := s.guard.AuthorizeRead(ctx, budget.FamilyID, caller.ID); err != nil {
		return nil, err
	}
	return budget, nil
}

// ListBudgets lists a family's budgets
func (s *BudgetService) ListBudgets(ctx context.Context, familyID int64, caller *models.User) ([]models.Budget, error) {
	if err := s.guard.AuthorizeRead(ctx, familyID, caller.ID); err != nil {
		return nil, err
	}
	budgets, err := s.budgetRepo.GetFamilyBudgets(ctx, familyID)
	if err != nil {
		return nil, persistFail("retrieve budgets", err)
	}
	return budgets, nil
}

// UpdateBudget edits a budget; owner only
func (s *BudgetService) UpdateBudget(ctx context.Context, budgetID int64, caller *models.User, name string, amount float64, startDate, endDate time.Time) (*models.Budget, error) {
	budget, err := s.budgetRepo.GetBudgetByID(ctx, budgetID)
	if err != nil {
		return nil, persistFail("retrieve budget", err)
	}
	if budget == nil {
		return nil, &BusinessError{Message: "Budget not found"}
	}
	if err := s.guard.AuthorizeConfigure(ctx, budget.FamilyID, caller.ID); err != nil {
		return nil, err
	}
	if err := validateBudgetInput(name, amount, startDate, endDate); err != nil {
		return nil, err
	}
	budget.Name = name
	budget.Amount = amount
	budget.StartDate = startDate
	budget.EndDate = endDate
	if err := s.budgetRepo.UpdateBudget(ctx, budget); err != nil {
		return nil, persistFail("update budget", err)
	}
	return budget, nil
}

// DeleteBudget removes a budget; owner only
func (s *BudgetService) DeleteBudget(ctx context.Context, budgetID int64, caller *models.User) error {
	budget, err := s.budgetRepo.GetBudgetByID(ctx, budgetID)
	if err != nil {
		return persistFail("retrieve budget", err)
	}
	if budget == nil {
		return &BusinessError{Message: "Budget not found"}
	}
	if err := s.guard.AuthorizeConfigure(ctx, budget.FamilyID, caller.ID); err != nil {
		return err
	}
	if err := s.budgetRepo.DeleteBudget(ctx, budgetID); err != nil {
		return persistFail("delete budget", err)
	}
	return nil
}
