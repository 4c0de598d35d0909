package main

import (
	"context"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"familybudget/internal/config"
	"familybudget/internal/database"
	"familybudget/internal/logging"
	"familybudget/internal/models"
	"familybudget/internal/repository"
	"familybudget/internal/security"

	"github.com/bxcodec/faker/v3"
)

// Seeds the database with demo families and a year of ledger activity.
// Every generated user logs in with the -password value.
func main() {
	logging.Setup()

	families := flag.Int("families", 3, "Number of demo families to create")
	password := flag.String("password", "password123", "Password for every generated user")
	flag.Parse()

	cfg := config.Load()

	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.RunMigrations(ctx, cfg.MigrationsPath); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	hash, err := security.HashPassword(*password)
	if err != nil {
		slog.Error("Failed to hash password", "error", err)
		os.Exit(1)
	}

	userRepo := repository.NewUserRepository(db)
	familyRepo := repository.NewFamilyRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	budgetRepo := repository.NewBudgetRepository(db)
	txnRepo := repository.NewTransactionRepository(db)
	goalRepo := repository.NewGoalRepository(db)

	for i := 0; i < *families; i++ {
		if err := seedFamily(ctx, hash, userRepo, familyRepo, accountRepo, categoryRepo, budgetRepo, txnRepo, goalRepo); err != nil {
			slog.Error("Failed to seed family", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Seeding complete", "families", *families)
}

func seedFamily(
	ctx context.Context,
	passwordHash string,
	userRepo *repository.UserRepository,
	familyRepo *repository.FamilyRepository,
	accountRepo *repository.AccountRepository,
	categoryRepo *repository.CategoryRepository,
	budgetRepo *repository.BudgetRepository,
	txnRepo *repository.TransactionRepository,
	goalRepo *repository.GoalRepository,
) error {
	owner, err := userRepo.CreateUser(ctx, faker.Email(), passwordHash, faker.Name())
	if err != nil {
		return err
	}

	family, err := familyRepo.CreateFamily(ctx, faker.LastName()+" Household", owner.ID)
	if err != nil {
		return err
	}
	slog.Info("Created family", "id", family.ID, "name", family.Name, "owner", owner.Email)

	memberRoles := []models.Role{models.RoleParent, models.RoleBigSibling, models.RoleChild, models.RoleGuest}
	for _, role := range memberRoles {
		member, err := userRepo.CreateUser(ctx, faker.Email(), passwordHash, faker.Name())
		if err != nil {
			return err
		}
		if _, err := familyRepo.AddFamilyMember(ctx, family.ID, member.ID, role); err != nil {
			return err
		}
	}

	var accounts []*models.Account
	for _, def := range []struct {
		name string
		typ  models.AccountType
	}{
		{"Salary", models.AccountIncome},
		{"Checking", models.AccountAsset},
		{"Groceries Card", models.AccountExpense},
		{"Mortgage", models.AccountLiability},
	} {
		account, err := accountRepo.CreateAccount(ctx, &models.Account{
			FamilyID: family.ID,
			UserID:   owner.ID,
			Name:     def.name,
			Type:     def.typ,
		})
		if err != nil {
			return err
		}
		accounts = append(accounts, account)
	}

	var categories []*models.Category
	for _, def := range []struct {
		name string
		typ  models.CategoryType
	}{
		{"Salary", models.CategoryIncome},
		{"Groceries", models.CategoryExpense},
		{"Utilities", models.CategoryExpense},
		{"Entertainment", models.CategoryExpense},
	} {
		category, err := categoryRepo.CreateCategory(ctx, &models.Category{
			FamilyID: family.ID,
			UserID:   owner.ID,
			Name:     def.name,
			Type:     def.typ,
		})
		if err != nil {
			return err
		}
		categories = append(categories, category)
	}

	now := time.Now()
	if _, err := budgetRepo.CreateBudget(ctx, &models.Budget{
		FamilyID:  family.ID,
		UserID:    owner.ID,
		Name:      "Monthly Budget",
		Amount:    2500 + rand.Float64()*1000,
		StartDate: now.AddDate(0, -1, 0),
		EndDate:   now.AddDate(0, 1, 0),
	}); err != nil {
		return err
	}

	dueDate := now.AddDate(1, 0, 0)
	if _, err := goalRepo.CreateGoal(ctx, &models.Goal{
		FamilyID:     family.ID,
		UserID:       owner.ID,
		Name:         "Vacation Fund",
		TargetAmount: 5000,
		SavedAmount:  rand.Float64() * 1500,
		DueDate:      &dueDate,
	}); err != nil {
		return err
	}

	for i := 0; i < 50; i++ {
		account := accounts[rand.Intn(len(accounts))]
		category := categories[rand.Intn(len(categories))]
		amount := 5 + rand.Float64()*295
		if category.Type == models.CategoryExpense {
			amount = -amount
		}
		if _, err := txnRepo.CreateTransaction(ctx, &models.Transaction{
			FamilyID:    family.ID,
			UserID:      owner.ID,
			AccountID:   account.ID,
			CategoryID:  category.ID,
			Amount:      amount,
			Date:        now.AddDate(0, 0, -rand.Intn(365)),
			Description: faker.Sentence(),
		}); err != nil {
			return err
		}
	}

	return nil
}
