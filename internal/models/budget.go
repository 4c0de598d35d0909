package models

import "time"

// Budget is a family-scoped spending envelope for a date range
type Budget struct {
	ID        int64
	FamilyID  int64
	UserID    int64
	Name      string
	Amount    float64
	StartDate time.Time
	EndDate   time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BudgetTransaction assigns part of a transaction's amount to a budget.
// Both sides must belong to the same family.
type BudgetTransaction struct {
	ID             int64
	FamilyID       int64
	UserID         int64
	BudgetID       int64
	TransactionID  int64
	AssignedAmount float64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
