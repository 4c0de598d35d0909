package models

import "time"

// CategoryType classifies a category as income or expense
type CategoryType string

const (
	CategoryIncome  CategoryType = "income"
	CategoryExpense CategoryType = "expense"
)

// Valid reports whether t is a known category type
func (t CategoryType) Valid() bool {
	return t == CategoryIncome || t == CategoryExpense
}

// Category is a family-scoped transaction category
type Category struct {
	ID        int64
	FamilyID  int64
	UserID    int64
	Name      string
	Type      CategoryType
	CreatedAt time.Time
	UpdatedAt time.Time
}
