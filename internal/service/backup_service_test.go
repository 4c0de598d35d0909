package service

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"familybudget/internal/repository"
)

func TestBackupExportImportRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	lf := setupLedgerFixture(t, "test_backup_source.db")
	ctx := context.Background()
	date := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	attSvc := NewAttachmentService(
		repository.NewAttachmentRepository(lf.db),
		repository.NewTransactionRepository(lf.db),
		lf.guard,
		1<<20,
	)

	txn, err := lf.txnSvc.CreateTransaction(ctx, lf.family.ID, lf.owner,
		lf.account.ID, lf.category.ID, -42.50, date, "Weekly shop")
	if err != nil {
		t.Fatalf("CreateTransaction() error = %v", err)
	}
	if _, err := attSvc.CreateAttachment(ctx, lf.family.ID, lf.owner, txn.ID,
		"receipt.pdf", "application/pdf", []byte("receipt-bytes")); err != nil {
		t.Fatalf("CreateAttachment() error = %v", err)
	}

	var buf bytes.Buffer
	if err := NewBackupService(lf.db).ExportToWriter(ctx, &buf); err != nil {
		t.Fatalf("ExportToWriter() error = %v", err)
	}

	var backup BackupData
	if err := json.Unmarshal(buf.Bytes(), &backup); err != nil {
		t.Fatalf("backup is not valid JSON: %v", err)
	}
	if len(backup.Users) != 4 {
		t.Errorf("exported %d users, want 4", len(backup.Users))
	}
	if len(backup.Families) != 2 {
		t.Errorf("exported %d families, want 2", len(backup.Families))
	}
	if len(backup.Transactions) != 1 {
		t.Errorf("exported %d transactions, want 1", len(backup.Transactions))
	}
	if len(backup.Attachments) != 1 {
		t.Errorf("exported %d attachments, want 1", len(backup.Attachments))
	}

	// Memberships ride along with their family.
	var memberCount int
	for _, fam := range backup.Families {
		memberCount += len(fam.Members)
	}
	if memberCount != 4 {
		t.Errorf("exported %d memberships, want 4", memberCount)
	}

	// Restore into a fresh database and compare.
	target := setupServiceFixtureEmpty(t, "test_backup_target.db")
	if err := NewBackupService(target).ImportFromReader(ctx, bytes.NewReader(buf.Bytes())); err != nil {
		t.Fatalf("ImportFromReader() error = %v", err)
	}

	counts := map[string]int{
		"users":        4,
		"families":     2,
		"accounts":     2,
		"categories":   2,
		"transactions": 1,
		"attachments":  1,
	}
	for table, want := range counts {
		var got int
		if err := target.QueryRow(ctx, "SELECT COUNT(*) FROM "+table).Scan(&got); err != nil {
			t.Fatalf("Failed to count %s: %v", table, err)
		}
		if got != want {
			t.Errorf("restored %s = %d, want %d", table, got, want)
		}
	}

	// Binary attachment content survives the JSON round trip.
	var content []byte
	if err := target.QueryRow(ctx, "SELECT file_content FROM attachments LIMIT 1").Scan(&content); err != nil {
		t.Fatalf("Failed to read restored attachment: %v", err)
	}
	if !bytes.Equal(content, []byte("receipt-bytes")) {
		t.Errorf("restored attachment content = %q, want %q", content, "receipt-bytes")
	}
}
