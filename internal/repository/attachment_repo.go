package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"familybudget/internal/database"
	"familybudget/internal/models"
)

// AttachmentRepository handles database operations for transaction attachments
type AttachmentRepository struct {
	db *database.DB
}

// NewAttachmentRepository creates a new attachment repository
func NewAttachmentRepository(db *database.DB) *AttachmentRepository {
	return &AttachmentRepository{db: db}
}

// CreateAttachment inserts a new attachment
func (r *AttachmentRepository) CreateAttachment(ctx context.Context, att *models.Attachment) (*models.Attachment, error) {
	query := `
		INSERT INTO attachments (family_id, user_id, transaction_id, file_name, content_type, file_content)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(ctx, query,
		att.FamilyID, att.UserID, att.TransactionID, att.FileName, att.ContentType, att.FileContent)
	if err != nil {
		return nil, fmt.Errorf("failed to create attachment: %w", err)
	}
	att.ID = id
	att.CreatedAt = time.Now()
	att.UpdatedAt = time.Now()
	return att, nil
}

// GetAttachmentByID retrieves an attachment by ID, including file content
func (r *AttachmentRepository) GetAttachmentByID(ctx context.Context, id int64) (*models.Attachment, error) {
	query := `
		SELECT id, family_id, user_id, transaction_id, file_name, content_type, file_content, created_at, updated_at
		FROM attachments WHERE id = ?
	`
	att := &models.Attachment{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&att.ID, &att.FamilyID, &att.UserID, &att.TransactionID,
		&att.FileName, &att.ContentType, &att.FileContent,
		&att.CreatedAt, &att.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get attachment: %w", err)
	}
	return att, nil
}

// GetFamilyAttachments lists a family's attachments without file content
func (r *AttachmentRepository) GetFamilyAttachments(ctx context.Context, familyID int64) ([]models.Attachment, error) {
	query := `
		SELECT id, family_id, user_id, transaction_id, file_name, content_type, created_at, updated_at
		FROM attachments WHERE family_id = ?
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, query, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query attachments: %w", err)
	}
	defer rows.Close()

	var atts []models.Attachment
	for rows.Next() {
		var att models.Attachment
		if err := rows.Scan(
			&att.ID, &att.FamilyID, &att.UserID, &att.TransactionID,
			&att.FileName, &att.ContentType, &att.CreatedAt, &att.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attachment: %w", err)
		}
		atts = append(atts, att)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read attachments: %w", err)
	}
	return atts, nil
}

// DeleteAttachment deletes an attachment
func (r *AttachmentRepository) DeleteAttachment(ctx context.Context, id int64) error {
	query := "DELETE FROM attachments WHERE id = ?"
	if _, err := r.db.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete attachment: %w", err)
	}
	return nil
}
