package models

import "time"

// Transaction is a single ledger entry against an account and category.
// The referenced account and category must belong to the same family as
// the transaction itself.
type Transaction struct {
	ID          int64
	FamilyID    int64
	UserID      int64
	AccountID   int64
	CategoryID  int64
	Amount      float64
	Date        time.Time
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Attachment is a file (receipt, invoice) attached to a transaction
type Attachment struct {
	ID            int64
	FamilyID      int64
	UserID        int64
	TransactionID int64
	FileName      string
	ContentType   string
	FileContent   []byte
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
