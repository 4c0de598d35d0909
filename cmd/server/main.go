package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"familybudget/internal/authz"
	"familybudget/internal/config"
	"familybudget/internal/database"
	"familybudget/internal/handlers"
	"familybudget/internal/logging"
	"familybudget/internal/repository"
	"familybudget/internal/security"
	"familybudget/internal/service"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

func main() {
	logging.Setup()

	cfg := config.Load()
	if cfg.TokenSecret == "" {
		slog.Error("TOKEN_SECRET must be set")
		os.Exit(1)
	}

	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	slog.Info("Database connection established", "type", cfg.DatabaseType)

	ctx := context.Background()
	if err := db.RunMigrations(ctx, cfg.MigrationsPath); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	familyRepo := repository.NewFamilyRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	budgetRepo := repository.NewBudgetRepository(db)
	txnRepo := repository.NewTransactionRepository(db)
	goalRepo := repository.NewGoalRepository(db)
	btRepo := repository.NewBudgetTransactionRepository(db)
	attachmentRepo := repository.NewAttachmentRepository(db)

	// Authorization core
	authority := authz.NewAuthority(familyRepo)
	guard := authz.NewGuard(authority)

	// Services
	tokens := security.NewTokenManager(cfg.TokenSecret, cfg.TokenDuration)
	authService := service.NewAuthService(userRepo, tokens)
	emailService, err := service.NewEmailService(ctx, cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL)
	if err != nil {
		slog.Error("Failed to initialize email service", "error", err)
		os.Exit(1)
	}
	familyService := service.NewFamilyService(familyRepo, userRepo, authority, emailService)
	accountService := service.NewAccountService(accountRepo, guard)
	categoryService := service.NewCategoryService(categoryRepo, guard)
	budgetService := service.NewBudgetService(budgetRepo, guard)
	txnService := service.NewTransactionService(txnRepo, accountRepo, categoryRepo, guard)
	goalService := service.NewGoalService(goalRepo, guard)
	btService := service.NewBudgetTransactionService(btRepo, budgetRepo, txnRepo, guard)
	attachmentService := service.NewAttachmentService(attachmentRepo, txnRepo, guard, cfg.AttachmentMaxSize)

	oauthConfig := &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.AppBaseURL + "/auth/google/callback",
		Endpoint:     google.Endpoint,
		Scopes:       []string{"openid", "email", "profile"},
	}

	// Handlers
	limiter := security.NewRateLimiter(cfg.LoginRateLimit, cfg.LoginRateWindow)
	middleware := handlers.NewMiddleware(authService, limiter)
	authHandler := handlers.NewAuthHandler(authService, emailService, oauthConfig)
	familyHandler := handlers.NewFamilyHandler(familyService)
	memberHandler := handlers.NewMemberHandler(familyService)
	accountHandler := handlers.NewAccountHandler(accountService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	budgetHandler := handlers.NewBudgetHandler(budgetService)
	txnHandler := handlers.NewTransactionHandler(txnService)
	goalHandler := handlers.NewGoalHandler(goalService)
	btHandler := handlers.NewBudgetTransactionHandler(btService)
	attachmentHandler := handlers.NewAttachmentHandler(attachmentService, cfg.AttachmentMaxSize)

	mux := http.NewServeMux()

	// Operational endpoints
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	// Authentication
	mux.HandleFunc("POST /api/auth/register", middleware.RateLimit(authHandler.Register))
	mux.HandleFunc("POST /api/auth/login", middleware.RateLimit(authHandler.Login))
	mux.HandleFunc("GET /api/auth/me", middleware.RequireAuth(authHandler.Me))
	mux.HandleFunc("POST /api/auth/password-reset/request", middleware.RateLimit(authHandler.RequestPasswordReset))
	mux.HandleFunc("POST /api/auth/password-reset/confirm", middleware.RateLimit(authHandler.ResetPassword))
	mux.HandleFunc("GET /auth/google/start", authHandler.StartGoogleOAuth)
	mux.HandleFunc("GET /auth/google/callback", authHandler.GoogleOAuthCallback)

	// Users
	mux.HandleFunc("PUT /api/users/{id}", middleware.RequireAuth(authHandler.UpdateUser))
	mux.HandleFunc("DELETE /api/users/{id}", middleware.RequireAuth(authHandler.DeleteUser))
	mux.HandleFunc("GET /api/users/{id}/families", middleware.RequireAuth(memberHandler.ListUserFamilies))

	// Families and membership
	mux.HandleFunc("POST /api/families", middleware.RequireAuth(familyHandler.CreateFamily))
	mux.HandleFunc("GET /api/families", middleware.RequireAuth(familyHandler.ListFamilies))
	mux.HandleFunc("GET /api/families/{id}", middleware.RequireAuth(familyHandler.GetFamily))
	mux.HandleFunc("PUT /api/families/{id}", middleware.RequireAuth(familyHandler.UpdateFamily))
	mux.HandleFunc("DELETE /api/families/{id}", middleware.RequireAuth(familyHandler.DeleteFamily))
	mux.HandleFunc("GET /api/families/{id}/members", middleware.RequireAuth(memberHandler.ListMembers))
	mux.HandleFunc("POST /api/families/{id}/members", middleware.RequireAuth(memberHandler.AddMember))
	mux.HandleFunc("DELETE /api/families/{id}/members/{userID}", middleware.RequireAuth(memberHandler.RemoveMember))

	// Accounts
	mux.HandleFunc("POST /api/families/{id}/accounts", middleware.RequireAuth(accountHandler.CreateAccount))
	mux.HandleFunc("GET /api/families/{id}/accounts", middleware.RequireAuth(accountHandler.ListAccounts))
	mux.HandleFunc("GET /api/accounts/{id}", middleware.RequireAuth(accountHandler.GetAccount))
	mux.HandleFunc("PUT /api/accounts/{id}", middleware.RequireAuth(accountHandler.UpdateAccount))
	mux.HandleFunc("DELETE /api/accounts/{id}", middleware.RequireAuth(accountHandler.DeleteAccount))

	// Categories
	mux.HandleFunc("POST /api/families/{id}/categories", middleware.RequireAuth(categoryHandler.CreateCategory))
	mux.HandleFunc("GET /api/families/{id}/categories", middleware.RequireAuth(categoryHandler.ListCategories))
	mux.HandleFunc("GET /api/categories/{id}", middleware.RequireAuth(categoryHandler.GetCategory))
	mux.HandleFunc("PUT /api/categories/{id}", middleware.RequireAuth(categoryHandler.UpdateCategory))
	mux.HandleFunc("DELETE /api/categories/{id}", middleware.RequireAuth(categoryHandler.DeleteCategory))

	// Budgets
	mux.HandleFunc("POST /api/families/{id}/budgets", middleware.RequireAuth(budgetHandler.CreateBudget))
	mux.HandleFunc("GET /api/families/{id}/budgets", middleware.RequireAuth(budgetHandler.ListBudgets))
	mux.HandleFunc("GET /api/budgets/{id}", middleware.RequireAuth(budgetHandler.GetBudget))
	mux.HandleFunc("PUT /api/budgets/{id}", middleware.RequireAuth(budgetHandler.UpdateBudget))
	mux.HandleFunc("DELETE /api/budgets/{id}", middleware.RequireAuth(budgetHandler.DeleteBudget))

	// Transactions
	mux.HandleFunc("POST /api/families/{id}/transactions", middleware.RequireAuth(txnHandler.CreateTransaction))
	mux.HandleFunc("GET /api/families/{id}/transactions", middleware.RequireAuth(txnHandler.ListTransactions))
	mux.HandleFunc("GET /api/transactions/{id}", middleware.RequireAuth(txnHandler.GetTransaction))
	mux.HandleFunc("PUT /api/transactions/{id}", middleware.RequireAuth(txnHandler.UpdateTransaction))
	mux.HandleFunc("DELETE /api/transactions/{id}", middleware.RequireAuth(txnHandler.DeleteTransaction))

	// Goals
	mux.HandleFunc("POST /api/families/{id}/goals", middleware.RequireAuth(goalHandler.CreateGoal))
	mux.HandleFunc("GET /api/families/{id}/goals", middleware.RequireAuth(goalHandler.ListGoals))
	mux.HandleFunc("GET /api/goals/{id}", middleware.RequireAuth(goalHandler.GetGoal))
	mux.HandleFunc("PUT /api/goals/{id}", middleware.RequireAuth(goalHandler.UpdateGoal))
	mux.HandleFunc("DELETE /api/goals/{id}", middleware.RequireAuth(goalHandler.DeleteGoal))

	// Budget transactions
	mux.HandleFunc("POST /api/families/{id}/budget-transactions", middleware.RequireAuth(btHandler.CreateBudgetTransaction))
	mux.HandleFunc("GET /api/families/{id}/budget-transactions", middleware.RequireAuth(btHandler.ListBudgetTransactions))
	mux.HandleFunc("GET /api/budget-transactions/{id}", middleware.RequireAuth(btHandler.GetBudgetTransaction))
	mux.HandleFunc("PUT /api/budget-transactions/{id}", middleware.RequireAuth(btHandler.UpdateBudgetTransaction))
	mux.HandleFunc("DELETE /api/budget-transactions/{id}", middleware.RequireAuth(btHandler.DeleteBudgetTransaction))

	// Attachments
	mux.HandleFunc("POST /api/families/{id}/attachments", middleware.RequireAuth(attachmentHandler.CreateAttachment))
	mux.HandleFunc("GET /api/families/{id}/attachments", middleware.RequireAuth(attachmentHandler.ListAttachments))
	mux.HandleFunc("GET /api/attachments/{id}", middleware.RequireAuth(attachmentHandler.GetAttachment))
	mux.HandleFunc("GET /api/attachments/{id}/download", middleware.RequireAuth(attachmentHandler.DownloadAttachment))
	mux.HandleFunc("DELETE /api/attachments/{id}", middleware.RequireAuth(attachmentHandler.DeleteAttachment))

	handler := handlers.Logging(handlers.Metrics(mux))

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Periodically clear used or expired password reset tokens
	cleanupCtx, cancelCleanup := context.WithCancel(ctx)
	defer cancelCleanup()
	go cleanupExpiredTokens(cleanupCtx, authService)

	go func() {
		slog.Info("Server starting", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Server shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Shutdown error", "error", err)
	}
}

func cleanupExpiredTokens(ctx context.Context, authService *service.AuthService) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := authService.CleanupExpiredPasswordResetTokens(ctx); err != nil {
				slog.Warn("Failed to clean up reset tokens", "error", err)
			}
		}
	}
}
