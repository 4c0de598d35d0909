package service

import (
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"familybudget/internal/database"
)

// BackupData represents the complete database backup structure
type BackupData struct {
	Version            string                   `json:"version"`
	ExportedAt         time.Time                `json:"exported_at"`
	Users              []UserBackup             `json:"users"`
	Families           []FamilyBackup           `json:"families"`
	Accounts           []AccountBackup          `json:"accounts"`
	Categories         []CategoryBackup         `json:"categories"`
	Budgets            []BudgetBackup           `json:"budgets"`
	Transactions       []TransactionBackup      `json:"transactions"`
	Goals              []GoalBackup             `json:"goals"`
	BudgetTransactions []BudgetTransactionBackup `json:"budget_transactions"`
	Attachments        []AttachmentBackup       `json:"attachments"`
}

// UserBackup represents a user record for backup
type UserBackup struct {
	ID            int64     `json:"id"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"password_hash"`
	Name          string    `json:"name"`
	OAuthProvider string    `json:"oauth_provider"`
	OAuthSubject  string    `json:"oauth_subject"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// FamilyBackup represents a family record and its memberships
type FamilyBackup struct {
	ID        int64                `json:"id"`
	Name      string               `json:"name"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
	Members   []FamilyMemberBackup `json:"members"`
}

// FamilyMemberBackup represents a family member record
type FamilyMemberBackup struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
}

// AccountBackup represents an account record for backup
type AccountBackup struct {
	ID        int64     `json:"id"`
	FamilyID  int64     `json:"family_id"`
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CategoryBackup represents a category record for backup
type CategoryBackup struct {
	ID        int64     `json:"id"`
	FamilyID  int64     `json:"family_id"`
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BudgetBackup represents a budget record for backup
type BudgetBackup struct {
	ID        int64     `json:"id"`
	FamilyID  int64     `json:"family_id"`
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	Amount    float64   `json:"amount"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TransactionBackup represents a transaction record for backup
type TransactionBackup struct {
	ID          int64     `json:"id"`
	FamilyID    int64     `json:"family_id"`
	UserID      int64     `json:"user_id"`
	AccountID   int64     `json:"account_id"`
	CategoryID  int64     `json:"category_id"`
	Amount      float64   `json:"amount"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// GoalBackup represents a goal record for backup
type GoalBackup struct {
	ID           int64      `json:"id"`
	FamilyID     int64      `json:"family_id"`
	UserID       int64      `json:"user_id"`
	Name         string     `json:"name"`
	TargetAmount float64    `json:"target_amount"`
	SavedAmount  float64    `json:"saved_amount"`
	DueDate      *time.Time `json:"due_date"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// BudgetTransactionBackup represents a budget assignment for backup
type BudgetTransactionBackup struct {
	ID             int64     `json:"id"`
	FamilyID       int64     `json:"family_id"`
	UserID         int64     `json:"user_id"`
	BudgetID       int64     `json:"budget_id"`
	TransactionID  int64     `json:"transaction_id"`
	AssignedAmount float64   `json:"assigned_amount"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// AttachmentBackup represents an attachment for backup; the file
// content is base64 encoded.
type AttachmentBackup struct {
	ID            int64     `json:"id"`
	FamilyID      int64     `json:"family_id"`
	UserID        int64     `json:"user_id"`
	TransactionID int64     `json:"transaction_id"`
	FileName      string    `json:"file_name"`
	ContentType   string    `json:"content_type"`
	FileContent   string    `json:"file_content"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// BackupService handles database backup and restore operations
type BackupService struct {
	db *database.DB
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{db: db}
}

// Export creates a complete backup of the database to a file
func (s *BackupService) Export(ctx context.Context, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := s.ExportToWriter(ctx, file); err != nil {
		return err
	}

	slog.Info("database exported", "path", outputPath)
	return nil
}

// ExportToWriter exports the database to an io.Writer
func (s *BackupService) ExportToWriter(ctx context.Context, w io.Writer) error {
	backup := &BackupData{
		Version:    "1.0",
		ExportedAt: time.Now(),
	}

	steps := []struct {
		name string
		fn   func(context.Context, *BackupData) error
	}{
		{"users", s.exportUsers},
		{"families", s.exportFamilies},
		{"accounts", s.exportAccounts},
		{"categories", s.exportCategories},
		{"budgets", s.exportBudgets},
		{"transactions", s.exportTransactions},
		{"goals", s.exportGoals},
		{"budget transactions", s.exportBudgetTransactions},
		{"attachments", s.exportAttachments},
	}
	for _, step := range steps {
		if err := step.fn(ctx, backup); err != nil {
			return fmt.Errorf("failed to export %s: %w", step.name, err)
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(backup)
}

// Import restores a database from a backup file
func (s *BackupService) Import(ctx context.Context, inputPath string) error {
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(ctx, file)
}

// ImportFromReader restores a database from a backup reader
func (s *BackupService) ImportFromReader(ctx context.Context, reader io.Reader) error {
	var backup BackupData
	if err := json.NewDecoder(reader).Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}

	slog.Info("importing backup", "version", backup.Version, "exported_at", backup.ExportedAt)

	// Import in dependency order
	if err := s.importUsers(ctx, backup.Users); err != nil {
		return fmt.Errorf("failed to import users: %w", err)
	}
	if err := s.importFamilies(ctx, backup.Families); err != nil {
		return fmt.Errorf("failed to import families: %w", err)
	}
	if err := s.importAccounts(ctx, backup.Accounts); err != nil {
		return fmt.Errorf("failed to import accounts: %w", err)
	}
	if err := s.importCategories(ctx, backup.Categories); err != nil {
		return fmt.Errorf("failed to import categories: %w", err)
	}
	if err := s.importBudgets(ctx, backup.Budgets); err != nil {
		return fmt.Errorf("failed to import budgets: %w", err)
	}
	if err := s.importTransactions(ctx, backup.Transactions); err != nil {
		return fmt.Errorf("failed to import transactions: %w", err)
	}
	if err := s.importGoals(ctx, backup.Goals); err != nil {
		return fmt.Errorf("failed to import goals: %w", err)
	}
	if err := s.importBudgetTransactions(ctx, backup.BudgetTransactions); err != nil {
		return fmt.Errorf("failed to import budget transactions: %w", err)
	}
	if err := s.importAttachments(ctx, backup.Attachments); err != nil {
		return fmt.Errorf("failed to import attachments: %w", err)
	}

	slog.Info("database import completed")
	return nil
}

func (s *BackupService) exportUsers(ctx context.Context, backup *BackupData) error {
	query := "SELECT id, email, password_hash, name, COALESCE(oauth_provider, ''), COALESCE(oauth_subject, ''), created_at, updated_at FROM users ORDER BY id"
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var u UserBackup
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.OAuthProvider, &u.OAuthSubject, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return err
		}
		backup.Users = append(backup.Users, u)
	}
	return rows.Err()
}

func (s *BackupService) exportFamilies(ctx context.Context, backup *BackupData) error {
	rows, err := s.db.Query(ctx, "SELECT id, name, created_at, updated_at FROM families ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var f FamilyBackup
		if err := rows.Scan(&f.ID, &f.Name, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return err
		}
		backup.Families = append(backup.Families, f)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range backup.Families {
		memberRows, err := s.db.Query(ctx, "SELECT user_id, role FROM family_members WHERE family_id = ? ORDER BY user_id", backup.Families[i].ID)
		if err != nil {
			return err
		}
		for memberRows.Next() {
			var m FamilyMemberBackup
			if err := memberRows.Scan(&m.UserID, &m.Role); err != nil {
				memberRows.Close()
				return err
			}
			backup.Families[i].Members = append(backup.Families[i].Members, m)
		}
		if err := memberRows.Err(); err != nil {
			memberRows.Close()
			return err
		}
		memberRows.Close()
	}
	return nil
}

func (s *BackupService) exportAccounts(ctx context.Context, backup *BackupData) error {
	rows, err := s.db.Query(ctx, "SELECT id, family_id, user_id, name, type, created_at, updated_at FROM accounts ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var a AccountBackup
		if err := rows.Scan(&a.ID, &a.FamilyID, &a.UserID, &a.Name, &a.Type, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return err
		}
		backup.Accounts = append(backup.Accounts, a)
	}
	return rows.Err()
}

func (s *BackupService) exportCategories(ctx context.Context, backup *BackupData) error {
	rows, err := s.db.Query(ctx, "SELECT id, family_id, user_id, name, type, created_at, updated_at FROM categories ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var c CategoryBackup
		if err := rows.Scan(&c.ID, &c.FamilyID, &c.UserID, &c.Name, &c.Type, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return err
		}
		backup.Categories = append(backup.Categories, c)
	}
	return rows.Err()
}

func (s *BackupService) exportBudgets(ctx context.Context, backup *BackupData) error {
	rows, err := s.db.Query(ctx, "SELECT id, family_id, user_id, name, amount, start_date, end_date, created_at, updated_at FROM budgets ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var b BudgetBackup
		if err := rows.Scan(&b.ID, &b.FamilyID, &b.UserID, &b.Name, &b.Amount, &b.StartDate, &b.EndDate, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return err
		}
		backup.Budgets = append(backup.Budgets, b)
	}
	return rows.Err()
}

func (s *BackupService) exportTransactions(ctx context.Context, backup *BackupData) error {
	rows, err := s.db.Query(ctx, "SELECT id, family_id, user_id, account_id, category_id, amount, date, COALESCE(description, ''), created_at, updated_at FROM transactions ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var t TransactionBackup
		if err := rows.Scan(&t.ID, &t.FamilyID, &t.UserID, &t.AccountID, &t.CategoryID, &t.Amount, &t.Date, &t.Description, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return err
		}
		backup.Transactions = append(backup.Transactions, t)
	}
	return rows.Err()
}

func (s *BackupService) exportGoals(ctx context.Context, backup *BackupData) error {
	rows, err := s.db.Query(ctx, "SELECT id, family_id, user_id, name, target_amount, saved_amount, due_date, created_at, updated_at FROM goals ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var g GoalBackup
		var dueDate sql.NullTime
		if err := rows.Scan(&g.ID, &g.FamilyID, &g.UserID, &g.Name, &g.TargetAmount, &g.SavedAmount, &dueDate, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return err
		}
		if dueDate.Valid {
			g.DueDate = &dueDate.Time
		}
		backup.Goals = append(backup.Goals, g)
	}
	return rows.Err()
}

func (s *BackupService) exportBudgetTransactions(ctx context.Context, backup *BackupData) error {
	rows, err := s.db.Query(ctx, "SELECT id, family_id, user_id, budget_id, transaction_id, assigned_amount, created_at, updated_at FROM budget_transactions ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var bt BudgetTransactionBackup
		if err := rows.Scan(&bt.ID, &bt.FamilyID, &bt.UserID, &bt.BudgetID, &bt.TransactionID, &bt.AssignedAmount, &bt.CreatedAt, &bt.UpdatedAt); err != nil {
			return err
		}
		backup.BudgetTransactions = append(backup.BudgetTransactions, bt)
	}
	return rows.Err()
}

func (s *BackupService) exportAttachments(ctx context.Context, backup *BackupData) error {
	rows, err := s.db.Query(ctx, "SELECT id, family_id, user_id, transaction_id, file_name, content_type, file_content, created_at, updated_at FROM attachments ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var a AttachmentBackup
		var content []byte
		if err := rows.Scan(&a.ID, &a.FamilyID, &a.UserID, &a.TransactionID, &a.FileName, &a.ContentType, &content, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return err
		}
		a.FileContent = base64.StdEncoding.EncodeToString(content)
		backup.Attachments = append(backup.Attachments, a)
	}
	return rows.Err()
}

func (s *BackupService) importUsers(ctx context.Context, users []UserBackup) error {
	slog.Info("importing users", "count", len(users))
	for _, u := range users {
		query := "INSERT INTO users (id, email, password_hash, name, oauth_provider, oauth_subject, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)"
		if _, err := s.db.Exec(ctx, query, u.ID, u.Email, u.PasswordHash, u.Name, nullIfEmpty(u.OAuthProvider), nullIfEmpty(u.OAuthSubject), u.CreatedAt, u.UpdatedAt); err != nil {
			return fmt.Errorf("failed to import user %d: %w", u.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importFamilies(ctx context.Context, families []FamilyBackup) error {
	slog.Info("importing families", "count", len(families))
	for _, f := range families {
		query := "INSERT INTO families (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)"
		if _, err := s.db.Exec(ctx, query, f.ID, f.Name, f.CreatedAt, f.UpdatedAt); err != nil {
			return fmt.Errorf("failed to import family %d: %w", f.ID, err)
		}
		for _, m := range f.Members {
			memberQuery := "INSERT INTO family_members (family_id, user_id, role) VALUES (?, ?, ?)"
			if _, err := s.db.Exec(ctx, memberQuery, f.ID, m.UserID, m.Role); err != nil {
				return fmt.Errorf("failed to import member %d of family %d: %w", m.UserID, f.ID, err)
			}
		}
	}
	return nil
}

func (s *BackupService) importAccounts(ctx context.Context, accounts []AccountBackup) error {
	slog.Info("importing accounts", "count", len(accounts))
	for _, a := range accounts {
		query := "INSERT INTO accounts (id, family_id, user_id, name, type, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)"
		if _, err := s.db.Exec(ctx, query, a.ID, a.FamilyID, a.UserID, a.Name, a.Type, a.CreatedAt, a.UpdatedAt); err != nil {
			return fmt.Errorf("failed to import account %d: %w", a.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importCategories(ctx context.Context, categories []CategoryBackup) error {
	slog.Info("importing categories", "count", len(categories))
	for _, c := range categories {
		query := "INSERT INTO categories (id, family_id, user_id, name, type, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)"
		if _, err := s.db.Exec(ctx, query, c.ID, c.FamilyID, c.UserID, c.Name, c.Type, c.CreatedAt, c.UpdatedAt); err != nil {
			return fmt.Errorf("failed to import category %d: %w", c.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importBudgets(ctx context.Context, budgets []BudgetBackup) error {
	slog.Info("importing budgets", "count", len(budgets))
	for _, b := range budgets {
		query := "INSERT INTO budgets (id, family_id, user_id, name, amount, start_date, end_date, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)"
		if _, err := s.db.Exec(ctx, query, b.ID, b.FamilyID, b.UserID, b.Name, b.Amount, b.StartDate, b.EndDate, b.CreatedAt, b.UpdatedAt); err != nil {
			return fmt.Errorf("failed to import budget %d: %w", b.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importTransactions(ctx context.Context, transactions []TransactionBackup) error {
	slog.Info("importing transactions", "count", len(transactions))
	for _, t := range transactions {
		query := "INSERT INTO transactions (id, family_id, user_id, account_id, category_id, amount, date, description, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
		if _, err := s.db.Exec(ctx, query, t.ID, t.FamilyID, t.UserID, t.AccountID, t.CategoryID, t.Amount, t.Date, t.Description, t.CreatedAt, t.UpdatedAt); err != nil {
			return fmt.Errorf("failed to import transaction %d: %w", t.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importGoals(ctx context.Context, goals []GoalBackup) error {
	slog.Info("importing goals", "count", len(goals))
	for _, g := range goals {
		var dueDate any
		if g.DueDate != nil {
			dueDate = *g.DueDate
		}
		query := "INSERT INTO goals (id, family_id, user_id, name, target_amount, saved_amount, due_date, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)"
		if _, err := s.db.Exec(ctx, query, g.ID, g.FamilyID, g.UserID, g.Name, g.TargetAmount, g.SavedAmount, dueDate, g.CreatedAt, g.UpdatedAt); err != nil {
			return fmt.Errorf("failed to import goal %d: %w", g.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importBudgetTransactions(ctx context.Context, bts []BudgetTransactionBackup) error {
	slog.Info("importing budget transactions", "count", len(bts))
	for _, bt := range bts {
		query := "INSERT INTO budget_transactions (id, family_id, user_id, budget_id, transaction_id, assigned_amount, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)"
		if _, err := s.db.Exec(ctx, query, bt.ID, bt.FamilyID, bt.UserID, bt.BudgetID, bt.TransactionID, bt.AssignedAmount, bt.CreatedAt, bt.UpdatedAt); err != nil {
			return fmt.Errorf("failed to import budget transaction %d: %w", bt.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importAttachments(ctx context.Context, attachments []AttachmentBackup) error {
	slog.Info("importing attachments", "count", len(attachments))
	for _, a := range attachments {
		content, err := base64.StdEncoding.DecodeString(a.FileContent)
		if err != nil {
			return fmt.Errorf("failed to decode attachment %d content: %w", a.ID, err)
		}
		query := "INSERT INTO attachments (id, family_id, user_id, transaction_id, file_name, content_type, file_content, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)"
		if _, err := s.db.Exec(ctx, query, a.ID, a.FamilyID, a.UserID, a.TransactionID, a.FileName, a.ContentType, content, a.CreatedAt, a.UpdatedAt); err != nil {
			return fmt.Errorf("failed to import attachment %d: %w", a.ID, err)
		}
	}
	return nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
