package service

import (
	"context"
	"testing"
	"time"

	"familybudget/internal/repository"
)

func TestBudgetServicePolicy(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	f := setupServiceFixture(t, "test_budget_service.db")
	svc := NewBudgetService(repository.NewBudgetRepository(f.db), f.guard)
	ctx := context.Background()

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	t.Run("owner creates a budget", func(t *testing.T) {
		budget, err := svc.CreateBudget(ctx, f.family.ID, f.owner, "March Budget", 1500, start, end)
		if err != nil {
			t.Fatalf("CreateBudget() error = %v", err)
		}
		if budget.ID == 0 {
			t.Error("budget should have an id")
		}
	})

	t.Run("parent may not create budgets", func(t *testing.T) {
		_, err := svc.CreateBudget(ctx, f.family.ID, f.parent, "Parent Budget", 100, start, end)
		wantForbidden(t, err)
	})

	t.Run("amount must be positive", func(t *testing.T) {
		_, err := svc.CreateBudget(ctx, f.family.ID, f.owner, "Free Budget", 0, start, end)
		wantBusiness(t, err, "Budget amount must be greater than zero")
	})

	t.Run("end date must follow start date", func(t *testing.T) {
		_, err := svc.CreateBudget(ctx, f.family.ID, f.owner, "Backwards", 100, end, start)
		wantBusiness(t, err, "Budget end date must be after its start date")

		_, err = svc.CreateBudget(ctx, f.family.ID, f.owner, "Instant", 100, start, start)
		wantBusiness(t, err, "Budget end date must be after its start date")
	})

	t.Run("any member may read", func(t *testing.T) {
		budgets, err := svc.ListBudgets(ctx, f.family.ID, f.guest)
		if err != nil {
			t.Fatalf("ListBudgets() error = %v", err)
		}
		if len(budgets) != 1 {
			t.Fatalf("expected 1 budget, got %d", len(budgets))
		}
	})

	t.Run("missing budget is a soft failure", func(t *testing.T) {
		_, err := svc.GetBudget(ctx, 99999, f.owner)
		wantBusiness(t, err, "Budget not found")
	})
}

func TestGoalServicePolicy(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	f := setupServiceFixture(t, "test_goal_service.db")
	svc := NewGoalService(repository.NewGoalRepository(f.db), f.guard)
	ctx := context.Background()

	due := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("owner creates a goal", func(t *testing.T) {
		goal, err := svc.CreateGoal(ctx, f.family.ID, f.owner, "Vacation Fund", 5000, 250, &due)
		if err != nil {
			t.Fatalf("CreateGoal() error = %v", err)
		}
		if goal.DueDate == nil || !goal.DueDate.Equal(due) {
			t.Errorf("goal due date = %v, want %v", goal.DueDate, due)
		}
	})

	t.Run("goal without a due date", func(t *testing.T) {
		goal, err := svc.CreateGoal(ctx, f.family.ID, f.owner, "Rainy Day", 1000, 0, nil)
		if err != nil {
			t.Fatalf("CreateGoal() error = %v", err)
		}
		got, err := svc.GetGoal(ctx, goal.ID, f.guest)
		if err != nil {
			t.Fatalf("GetGoal() error = %v", err)
		}
		if got.DueDate != nil {
			t.Errorf("goal due date = %v, want nil", got.DueDate)
		}
	})

	t.Run("target must be positive", func(t *testing.T) {
		_, err := svc.CreateGoal(ctx, f.family.ID, f.owner, "Nothing", 0, 0, nil)
		wantBusiness(t, err, "Goal target amount must be greater than zero")
	})

	t.Run("saved amount can not be negative", func(t *testing.T) {
		_, err := svc.CreateGoal(ctx, f.family.ID, f.owner, "Debtor", 100, -5, nil)
		wantBusiness(t, err, "Goal saved amount can not be negative")
	})

	t.Run("parent may not create goals", func(t *testing.T) {
		_, err := svc.CreateGoal(ctx, f.family.ID, f.parent, "Parent Goal", 100, 0, nil)
		wantForbidden(t, err)
	})
}
