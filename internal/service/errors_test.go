package service

import (
	"errors"
	"fmt"
	"testing"
)

func TestFailf(t *testing.T) {
	err := Failf("Invalid account type: %s", "savings")

	be, ok := AsBusiness(err)
	if !ok {
		t.Fatal("Failf should produce a business error")
	}
	if be.Message != "Invalid account type: savings" {
		t.Errorf("message = %q", be.Message)
	}
	if err.Error() != be.Message {
		t.Errorf("Error() = %q, want %q", err.Error(), be.Message)
	}
}

func TestAsBusinessUnwraps(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", Failf("Budget not found"))

	be, ok := AsBusiness(wrapped)
	if !ok {
		t.Fatal("AsBusiness should see through wrapping")
	}
	if be.Message != "Budget not found" {
		t.Errorf("message = %q", be.Message)
	}
}

func TestAsBusinessRejectsOtherErrors(t *testing.T) {
	if _, ok := AsBusiness(errors.New("boom")); ok {
		t.Error("plain errors are not business failures")
	}
	if _, ok := AsBusiness(nil); ok {
		t.Error("nil is not a business failure")
	}
}
