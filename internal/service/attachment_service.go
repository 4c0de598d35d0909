package service

import (
	"context"

	"familybudget/internal/authz"
	"familybudget/internal/models"
	"familybudget/internal/repository"
)

// AttachmentService handles files attached to transactions (receipts,
// invoices). The referenced transaction must belong to the attachment's
// own family. Writes require a non-guest role.
type AttachmentService struct {
	attachmentRepo *repository.AttachmentRepository
	txnRepo        *repository.TransactionRepository
	guard          *authz.Guard
	maxSize        int64
}

// NewAttachmentService creates a new attachment service. maxSize caps
// the stored file content in bytes.
func NewAttachmentService(attachmentRepo *repository.AttachmentRepository, txnRepo *repository.TransactionRepository, guard *authz.Guard, maxSize int64) *AttachmentService {
	return &AttachmentService{
		attachmentRepo: attachmentRepo,
		txnRepo:        txnRepo,
		guard:          guard,
		maxSize:        maxSize,
	}
}

// CreateAttachment stores a file against a transaction
func (s *AttachmentService) CreateAttachment(ctx context.Context, familyID int64, caller *models.User, txnID int64, fileName, contentType string, fileContent []byte) (*models.Attachment, error) {
	if err := s.guard.AuthorizeLedgerWrite(ctx, familyID, caller.ID); err != nil {
		return nil, err
	}
	if fileName == "" {
		return nil, &BusinessError{Message: "Attachment file name is required"}
	}
	if len(fileContent) == 0 {
		return nil, &BusinessError{Message: "Attachment file content is required"}
	}
	if s.maxSize > 0 && int64(len(fileContent)) > s.maxSize {
		return nil, Failf("Attachment exceeds the maximum size of %d bytes", s.maxSize)
	}
	txn, err := s.txnRepo.GetTransactionByID(ctx, txnID)
	if err != nil {
		return nil, persistFail("retrieve transaction", err)
	}
	if txn == nil {
		return nil, &BusinessError{Message: "Transaction not found"}
	}
	if txn.FamilyID != familyID {
		return nil, &BusinessError{Message: "Transaction belongs to a different family"}
	}
	att, err := s.attachmentRepo.CreateAttachment(ctx, &models.Attachment{
		FamilyID:      familyID,
		UserID:        caller.ID,
		TransactionID: txnID,
		FileName:      fileName,
		ContentType:   contentType,
		FileContent:   fileContent,
	})
	if err != nil {
		return nil, persistFail("create attachment", err)
	}
	return att, nil
}

// GetAttachment retrieves an attachment including its file content
func (s *AttachmentService) GetAttachment(ctx context.Context, attachmentID int64, caller *models.User) (*models.Attachment, error) {
	att, err := s.attachmentRepo.GetAttachmentByID(ctx, attachmentID)
	if err != nil {
		return nil, persistFail("retrieve attachment", err)
	}
	if att == nil {
		return nil, &BusinessError{Message: "Attachment not found"}
	}
	if err := s.guard.AuthorizeRead(ctx, att.FamilyID, caller.ID); err != nil {
		return nil, err
	}
	return att, nil
}

// ListAttachments lists a family's attachments without file content
func (s *AttachmentService) ListAttachments(ctx context.Context, familyID int64, caller *models.User) ([]models.Attachment, error) {
	if err := s.guard.AuthorizeRead(ctx, familyID, caller.ID); err != nil {
		return nil, err
	}
	atts, err := s.attachmentRepo.GetFamilyAttachments(ctx, familyID)
	if err != nil {
		return nil, persistFail("retrieve attachments", err)
	}
	return atts, nil
}

// DeleteAttachment removes an attachment; any non-guest member
func (s *AttachmentService) DeleteAttachment(ctx context.Context, attachmentID int64, caller *models.User) error {
	att, err := s.attachmentRepo.GetAttachmentByID(ctx, attachmentID)
	if err != nil {
		return persistFail("retrieve attachment", err)
	}
	if att == nil {
		return &BusinessError{Message: "Attachment not found"}
	}
	if err := s.guard.AuthorizeLedgerWrite(ctx, att.FamilyID, caller.ID); err != nil {
		return err
	}
	if err := s.attachmentRepo.DeleteAttachment(ctx, attachmentID); err != nil {
		return persistFail("delete attachment", err)
	}
	return nil
}
