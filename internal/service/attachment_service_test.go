package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"familybudget/internal/repository"
)

func TestAttachmentService(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	lf := setupLedgerFixture(t, "test_attachment_service.db")
	svc := NewAttachmentService(
		repository.NewAttachmentRepository(lf.db),
		repository.NewTransactionRepository(lf.db),
		lf.guard,
		64,
	)
	ctx := context.Background()
	date := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	txn, err := lf.txnSvc.CreateTransaction(ctx, lf.family.ID, lf.owner,
		lf.account.ID, lf.category.ID, -42.50, date, "Weekly shop")
	if err != nil {
		t.Fatalf("CreateTransaction() error = %v", err)
	}
	otherTxn, err := lf.txnSvc.CreateTransaction(ctx, lf.otherFamily.ID, lf.outsider,
		lf.otherAccount.ID, lf.otherCategory.ID, -10, date, "Theirs")
	if err != nil {
		t.Fatalf("CreateTransaction() error = %v", err)
	}

	content := []byte("receipt-bytes")

	t.Run("parent attaches a receipt", func(t *testing.T) {
		att, err := svc.CreateAttachment(ctx, lf.family.ID, lf.parent, txn.ID,
			"receipt.pdf", "application/pdf", content)
		if err != nil {
			t.Fatalf("CreateAttachment() error = %v", err)
		}
		if att.ID == 0 {
			t.Error("attachment should have an id")
		}

		got, err := svc.GetAttachment(ctx, att.ID, lf.guest)
		if err != nil {
			t.Fatalf("GetAttachment() error = %v", err)
		}
		if !bytes.Equal(got.FileContent, content) {
			t.Errorf("file content = %q, want %q", got.FileContent, content)
		}
	})

	t.Run("guest may not attach", func(t *testing.T) {
		_, err := svc.CreateAttachment(ctx, lf.family.ID, lf.guest, txn.ID,
			"receipt.pdf", "application/pdf", content)
		wantForbidden(t, err)
	})

	t.Run("empty file name is rejected", func(t *testing.T) {
		_, err := svc.CreateAttachment(ctx, lf.family.ID, lf.parent, txn.ID,
			"", "application/pdf", content)
		wantBusiness(t, err, "Attachment file name is required")
	})

	t.Run("empty content is rejected", func(t *testing.T) {
		_, err := svc.CreateAttachment(ctx, lf.family.ID, lf.parent, txn.ID,
			"receipt.pdf", "application/pdf", nil)
		wantBusiness(t, err, "Attachment file content is required")
	})

	t.Run("oversized content is rejected", func(t *testing.T) {
		big := make([]byte, 65)
		_, err := svc.CreateAttachment(ctx, lf.family.ID, lf.parent, txn.ID,
			"big.pdf", "application/pdf", big)
		wantBusiness(t, err, "Attachment exceeds the maximum size of 64 bytes")
	})

	t.Run("transaction from another family is rejected", func(t *testing.T) {
		_, err := svc.CreateAttachment(ctx, lf.family.ID, lf.parent, otherTxn.ID,
			"receipt.pdf", "application/pdf", content)
		wantBusiness(t, err, "Transaction belongs to a different family")
	})

	t.Run("list omits file content", func(t *testing.T) {
		atts, err := svc.ListAttachments(ctx, lf.family.ID, lf.guest)
		if err != nil {
			t.Fatalf("ListAttachments() error = %v", err)
		}
		if len(atts) != 1 {
			t.Fatalf("expected 1 attachment, got %d", len(atts))
		}
		if len(atts[0].FileContent) != 0 {
			t.Error("listing should not load file content")
		}
	})

	t.Run("guest may not delete", func(t *testing.T) {
		atts, err := svc.ListAttachments(ctx, lf.family.ID, lf.owner)
		if err != nil {
			t.Fatalf("ListAttachments() error = %v", err)
		}
		err = svc.DeleteAttachment(ctx, atts[0].ID, lf.guest)
		wantForbidden(t, err)

		if err := svc.DeleteAttachment(ctx, atts[0].ID, lf.parent); err != nil {
			t.Fatalf("DeleteAttachment() error = %v", err)
		}
	})
}

func TestBudgetTransactionService(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	lf := setupLedgerFixture(t, "test_bt_service.db")
	budgetRepo := repository.NewBudgetRepository(lf.db)
	svc := NewBudgetTransactionService(
		repository.NewBudgetTransactionRepository(lf.db),
		budgetRepo,
		repository.NewTransactionRepository(lf.db),
		lf.guard,
	)
	budgetSvc := NewBudgetService(budgetRepo, lf.guard)
	ctx := context.Background()
	date := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	budget, err := budgetSvc.CreateBudget(ctx, lf.family.ID, lf.owner, "March Budget", 1500,
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("CreateBudget() error = %v", err)
	}
	txn, err := lf.txnSvc.CreateTransaction(ctx, lf.family.ID, lf.owner,
		lf.account.ID, lf.category.ID, -42.50, date, "Weekly shop")
	if err != nil {
		t.Fatalf("CreateTransaction() error = %v", err)
	}
	otherTxn, err := lf.txnSvc.CreateTransaction(ctx, lf.otherFamily.ID, lf.outsider,
		lf.otherAccount.ID, lf.otherCategory.ID, -10, date, "Theirs")
	if err != nil {
		t.Fatalf("CreateTransaction() error = %v", err)
	}

	t.Run("parent assigns spend to the budget", func(t *testing.T) {
		bt, err := svc.CreateBudgetTransaction(ctx, lf.family.ID, lf.parent, budget.ID, txn.ID, 42.50)
		if err != nil {
			t.Fatalf("CreateBudgetTransaction() error = %v", err)
		}
		if bt.AssignedAmount != 42.50 {
			t.Errorf("assigned amount = %v, want 42.50", bt.AssignedAmount)
		}

		updated, err := svc.UpdateBudgetTransaction(ctx, bt.ID, lf.parent, 40)
		if err != nil {
			t.Fatalf("UpdateBudgetTransaction() error = %v", err)
		}
		if updated.AssignedAmount != 40 {
			t.Errorf("assigned amount = %v, want 40", updated.AssignedAmount)
		}
	})

	t.Run("guest may not assign", func(t *testing.T) {
		_, err := svc.CreateBudgetTransaction(ctx, lf.family.ID, lf.guest, budget.ID, txn.ID, 1)
		wantForbidden(t, err)
	})

	t.Run("assigned amount must be positive", func(t *testing.T) {
		_, err := svc.CreateBudgetTransaction(ctx, lf.family.ID, lf.parent, budget.ID, txn.ID, 0)
		wantBusiness(t, err, "Assigned amount must be greater than zero")
	})

	t.Run("transaction from another family is rejected", func(t *testing.T) {
		_, err := svc.CreateBudgetTransaction(ctx, lf.family.ID, lf.parent, budget.ID, otherTxn.ID, 5)
		wantBusiness(t, err, "Transaction belongs to a different family")
	})

	t.Run("missing budget is a soft failure", func(t *testing.T) {
		_, err := svc.CreateBudgetTransaction(ctx, lf.family.ID, lf.parent, 99999, txn.ID, 5)
		wantBusiness(t, err, "Budget not found")
	})
}
