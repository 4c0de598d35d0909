package handlers

import (
	"time"

	"familybudget/internal/models"
	"familybudget/internal/service"
)

// Payload types shape the JSON bodies returned to clients. Internal
// fields like password hashes and raw file bytes stay out of them
// unless a handler explicitly serves them.

type userPayload struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toUserPayload(u *models.User) userPayload {
	return userPayload{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type familyPayload struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toFamilyPayload(f *models.Family) familyPayload {
	return familyPayload{ID: f.ID, Name: f.Name, CreatedAt: f.CreatedAt, UpdatedAt: f.UpdatedAt}
}

func toFamilyPayloads(families []models.Family) []familyPayload {
	out := make([]familyPayload, 0, len(families))
	for i := range families {
		out = append(out, toFamilyPayload(&families[i]))
	}
	return out
}

type memberPayload struct {
	UserID   int64     `json:"user_id"`
	Email    string    `json:"email"`
	Name     string    `json:"name"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

func toMemberPayloads(details []service.FamilyMemberDetail) []memberPayload {
	out := make([]memberPayload, 0, len(details))
	for _, d := range details {
		out = append(out, memberPayload{
			UserID:   d.User.ID,
			Email:    d.User.Email,
			Name:     d.User.Name,
			Role:     string(d.Membership.Role),
			JoinedAt: d.Membership.JoinedAt,
		})
	}
	return out
}

type accountPayload struct {
	ID        int64     `json:"id"`
	FamilyID  int64     `json:"family_id"`
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toAccountPayload(a *models.Account) accountPayload {
	return accountPayload{
		ID:        a.ID,
		FamilyID:  a.FamilyID,
		UserID:    a.UserID,
		Name:      a.Name,
		Type:      string(a.Type),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func toAccountPayloads(accounts []models.Account) []accountPayload {
	out := make([]accountPayload, 0, len(accounts))
	for i := range accounts {
		out = append(out, toAccountPayload(&accounts[i]))
	}
	return out
}

type categoryPayload struct {
	ID        int64     `json:"id"`
	FamilyID  int64     `json:"family_id"`
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toCategoryPayload(c *models.Category) categoryPayload {
	return categoryPayload{
		ID:        c.ID,
		FamilyID:  c.FamilyID,
		UserID:    c.UserID,
		Name:      c.Name,
		Type:      string(c.Type),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toCategoryPayloads(categories []models.Category) []categoryPayload {
	out := make([]categoryPayload, 0, len(categories))
	for i := range categories {
		out = append(out, toCategoryPayload(&categories[i]))
	}
	return out
}

type budgetPayload struct {
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

func toBudgetPayload(b *models.Budget) budgetPayload {
	return budgetPayload{
		ID:        b.ID,
		FamilyID:  b.FamilyID,
		UserID:    b.UserID,
		Name:      b.Name,
		Amount:    b.Amount,
		StartDate: b.StartDate,
		EndDate:   b.EndDate,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func toBudgetPayloads(budgets []models.Budget) []budgetPayload {
	out := make([]budgetPayload, 0, len(budgets))
	for i := range budgets {
		out = append(out, toBudgetPayload(&budgets[i]))
	}
	return out
}

type transactionPayload struct {
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

func toTransactionPayload(t *models.Transaction) transactionPayload {
	return transactionPayload{
		ID:          t.ID,
		FamilyID:    t.FamilyID,
		UserID:      t.UserID,
		AccountID:   t.AccountID,
		CategoryID:  t.CategoryID,
		Amount:      t.Amount,
		Date:        t.Date,
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func toTransactionPayloads(txns []models.Transaction) []transactionPayload {
	out := make([]transactionPayload, 0, len(txns))
	for i := range txns {
		out = append(out, toTransactionPayload(&txns[i]))
	}
	return out
}

type goalPayload struct {
	ID           int64      `json:"id"`
	FamilyID     int64      `json:"family_id"`
	UserID       int64      `json:"user_id"`
	Name         string     `json:"name"`
	TargetAmount float64    `json:"target_amount"`
	SavedAmount  float64    `json:"saved_amount"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func toGoalPayload(g *models.Goal) goalPayload {
	return goalPayload{
		ID:           g.ID,
		FamilyID:     g.FamilyID,
		UserID:       g.UserID,
		Name:         g.Name,
		TargetAmount: g.TargetAmount,
		SavedAmount:  g.SavedAmount,
		DueDate:      g.DueDate,
		CreatedAt:    g.CreatedAt,
		UpdatedAt:    g.UpdatedAt,
	}
}

func toGoalPayloads(goals []models.Goal) []goalPayload {
	out := make([]goalPayload, 0, len(goals))
	for i := range goals {
		out = append(out, toGoalPayload(&goals[i]))
	}
	return out
}

type budgetTransactionPayload struct {
	ID             int64     `json:"id"`
	FamilyID       int64     `json:"family_id"`
	UserID         int64     `json:"user_id"`
	BudgetID       int64     `json:"budget_id"`
	TransactionID  int64     `json:"transaction_id"`
	AssignedAmount float64   `json:"assigned_amount"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func toBudgetTransactionPayload(bt *models.BudgetTransaction) budgetTransactionPayload {
	return budgetTransactionPayload{
		ID:             bt.ID,
		FamilyID:       bt.FamilyID,
		UserID:         bt.UserID,
		BudgetID:       bt.BudgetID,
		TransactionID:  bt.TransactionID,
		AssignedAmount: bt.AssignedAmount,
		CreatedAt:      bt.CreatedAt,
		UpdatedAt:      bt.UpdatedAt,
	}
}

func toBudgetTransactionPayloads(bts []models.BudgetTransaction) []budgetTransactionPayload {
	out := make([]budgetTransactionPayload, 0, len(bts))
	for i := range bts {
		out = append(out, toBudgetTransactionPayload(&bts[i]))
	}
	return out
}

type attachmentPayload struct {
	ID            int64     `json:"id"`
	FamilyID      int64     `json:"family_id"`
	UserID        int64     `json:"user_id"`
	TransactionID int64     `json:"transaction_id"`
	FileName      string    `json:"file_name"`
	ContentType   string    `json:"content_type"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toAttachmentPayload(a *models.Attachment) attachmentPayload {
	return attachmentPayload{
		ID:            a.ID,
		FamilyID:      a.FamilyID,
		UserID:        a.UserID,
		TransactionID: a.TransactionID,
		FileName:      a.FileName,
		ContentType:   a.ContentType,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

func toAttachmentPayloads(atts []models.Attachment) []attachmentPayload {
	out := make([]attachmentPayload, 0, len(atts))
	for i := range atts {
		out = append(out, toAttachmentPayload(&atts[i]))
	}
	return out
}
