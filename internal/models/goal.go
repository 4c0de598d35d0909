package models

import "time"

// Goal is a family savings goal
type Goal struct {
	ID           int64
	FamilyID     int64
	UserID       int64
	Name         string
	TargetAmount float64
	SavedAmount  float64
	DueDate      *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
