package service

import (
	"context"
	"testing"
)

func TestEmailServiceDisabledWithoutSender(t *testing.T) {
	ctx := context.Background()

	svc, err := NewEmailService(ctx, "eu-west-1", "", "Family Budget", "http://localhost:8080")
	if err != nil {
		t.Fatalf("NewEmailService() error = %v", err)
	}
	if svc.IsEnabled() {
		t.Error("service without a sender address should be disabled")
	}

	// Sends on a disabled service are silent no-ops.
	if err := svc.SendPasswordResetEmail(ctx, "user@example.com", "User", "token"); err != nil {
		t.Errorf("SendPasswordResetEmail() on disabled service error = %v", err)
	}
	if err := svc.SendMemberAddedEmail(ctx, "user@example.com", "User", "Smith", "child"); err != nil {
		t.Errorf("SendMemberAddedEmail() on disabled service error = %v", err)
	}
}
