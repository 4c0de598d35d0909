package service

import (
	"context"
	"time"

	"familybudget/internal/authz"
	"familybudget/internal/models"
	"familybudget/internal/repository"
	"familybudget/internal/validation"
)

// GoalService handles family savings goals. Reads are open to any
// family member; mutations are owner-only.
type GoalService struct {
	goalRepo *repository.GoalRepository
	guard    *authz.Guard
}

// NewGoalService creates a new goal service
func NewGoalService(goalRepo *repository.GoalRepository, guard *authz.Guard) *GoalService {
	return &GoalService{goalRepo: goalRepo, guard: guard}
}

func validateGoalInput(name string, targetAmount, savedAmount float64) error {
	if err := validation.ValidateName(name); err != nil {
		return &BusinessError{Message: err.Error()}
	}
	if targetAmount <= 0 {
		return &BusinessError{Message: "Goal target amount must be greater than zero"}
	}
	if savedAmount < 0 {
		return &BusinessError{Message: "Goal saved amount can not be negative"}
	}
	return nil
}

// CreateGoal creates a goal in the given family
func (s *GoalService) CreateGoal(ctx context.Context, familyID int64, caller *models.User, name string, targetAmount, savedAmount float64, dueDate *time.Time) (*models.Goal, error) {
	if err := s.guard.AuthorizeConfigure(ctx, familyID, caller.ID); err != nil {
		return nil, err
	}
	if err := validateGoalInput(name, targetAmount, savedAmount); err != nil {
		return nil, err
	}
	goal, err := s.goalRepo.CreateGoal(ctx, &models.Goal{
		FamilyID:     familyID,
		UserID:       caller.ID,
		Name:         name,
		TargetAmount: targetAmount,
		SavedAmount:  savedAmount,
		DueDate:      dueDate,
	})
	if err != nil {
		return nil, persistFail("create goal", err)
	}
	return goal, nil
}

// GetGoal retrieves a single goal
func (s *GoalService) GetGoal(ctx context.Context, goalID int64, caller *models.User) (*models.Goal, error) {
	goal, err := s.goalRepo.GetGoalByID(ctx, goalID)
	if err != nil {
		return nil, persistFail("retrieve goal", err)
	}
	if goal == nil {
		return nil, &BusinessError{Message: "Goal not found"}
	}
	if err := s.guard.AuthorizeRead(ctx, goal.FamilyID, caller.ID); err != nil {
		return nil, err
	}
	return goal, nil
}

// ListGoals lists a family's goals
func (s *GoalService) ListGoals(ctx context.Context, familyID int64, caller *models.User) ([]models.Goal, error) {
	if err := s.guard.AuthorizeRead(ctx, familyID, caller.ID); err != nil {
		return nil, err
	}
	goals, err := s.goalRepo.GetFamilyGoals(ctx, familyID)
	if err != nil {
		return nil, persistFail("retrieve goals", err)
	}
	return goals, nil
}

// UpdateGoal edits a goal; owner only
func (s *GoalService) UpdateGoal(ctx context.Context, goalID int64, caller *models.User, name string, targetAmount, savedAmount float64, dueDate *time.Time) (*models.Goal, error) {
	goal, err := s.goalRepo.GetGoalByID(ctx, goalID)
	if err != nil {
		return nil, persistFail("retrieve goal", err)
	}
	if goal == nil {
		return nil, &BusinessError{Message: "Goal not found"}
	}
	if err := s.guard.AuthorizeConfigure(ctx, goal.FamilyID, caller.ID); err != nil {
		return nil, err
	}
	if err := validateGoalInput(name, targetAmount, savedAmount); err != nil {
		return nil, err
	}
	goal.Name = name
	goal.TargetAmount = targetAmount
	goal.SavedAmount = savedAmount
	goal.DueDate = dueDate
	if err := s.goalRepo.UpdateGoal(ctx, goal); err != nil {
		return nil, persistFail("update goal", err)
	}
	return goal, nil
}

// DeleteGoal removes a goal; owner only
func (s *GoalService) DeleteGoal(ctx context.Context, goalID int64, caller *models.User) error {
	goal, err := s.goalRepo.GetGoalByID(ctx, goalID)
	if err != nil {
		return persistFail("retrieve goal", err)
	}
	if goal == nil {
		return &BusinessError{Message: "Goal not found"}
	}
	if err := s.guard.AuthorizeConfigure(ctx, goal.FamilyID, caller.ID); err != nil {
		return err
	}
	if err := s.goalRepo.DeleteGoal(ctx, goalID); err != nil {
		return persistFail("delete goal", err)
	}
	return nil
}
