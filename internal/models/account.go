package models

import "time"

// AccountType classifies an account for reporting purposes
type AccountType string

const (
	AccountIncome    AccountType = "income"
	AccountExpense   AccountType = "expense"
	AccountAsset     AccountType = "asset"
	AccountLiability AccountType = "liability"
)

// Valid reports whether t is a known account type
func (t AccountType) Valid() bool {
	switch t {
	case AccountIncome, AccountExpense, AccountAsset, AccountLiability:
		return true
	}
	return false
}

// Account is a family-scoped money account (wallet, bank account, loan).
// UserID records the creator; FamilyID scopes visibility.
type Account struct {
	ID        int64
	FamilyID  int64
	UserID    int64
	Name      string
	Type      AccountType
	CreatedAt time.Time
	UpdatedAt time.Time
}
