package handlers

import (
	"net/http"
	"time"

	"familybudget/internal/service"
)

// TransactionHandler handles ledger entry endpoints
type TransactionHandler struct {
	txnService *service.TransactionService
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(txnService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{txnService: txnService}
}

type transactionRequest struct {
	AccountID   int64     `json:"account_id"`
	CategoryID  int64     `json:"category_id"`
	Amount      float64   `json:"amount"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
}

// CreateTransaction records a ledger entry; any non-guest member
func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	familyID, ok := parsePathID(r, "id")
	if !ok {
		writeHTTPError(w, http.StatusNotFound, "Family not found")
		return
	}
	var req transactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	caller := GetUserFromContext(r.Context())
	txn, err := h.txnService.CreateTransaction(r.Context(), familyID, caller, req.AccountID, req.CategoryID, req.Amount, req.Date, req.Description)
	if err != nil {
		respondWithError(w, err)
		return
	}
	writeSuccess(w, "Transaction created", toTransactionPayload(txn))
}

// ListTransactions lists a family's transactions; any member
func (h *TransactionHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	familyID, ok := parsePathID(r, "id")
	if !ok {
		writeHTTPError(w, http.StatusNotFound, "Family not found")
		return
	}

	caller := GetUserFromContext(r.Context())
	txns, err := h.txnService.ListTransactions(r.Context(), familyID, caller)
	if err != nil {
		respondWithError(w, err)
		return
	}
	writeSuccess(w, "Transactions retrieved", toTransactionPayloads(txns))
}

// GetTransaction retrieves one transaction; any member of its family
func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	txnID, ok := parsePathID(r, "id")
	if !ok {
		writeFailed(w, "Transaction not found")
		return
	}

	caller := GetUserFromContext(r.Context())
	txn, err := h.txnService.GetTransaction(r.Context(), txnID, caller)
	if err != nil {
		respondWithError(w, err)
		return
	}
	writeSuccess(w, "Transaction retrieved", toTransactionPayload(txn))
}

// UpdateTransaction edits a ledger entry; any non-guest member
func (h *TransactionHandler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	txnID, ok := parsePathID(r, "id")
	if !ok {
		writeFailed(w, "Transaction not found")
		return
	}
	var req transactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	caller := GetUserFromContext(r.Context())
	txn, err := h.txnService.UpdateTransaction(r.Context(), txnID, caller, req.AccountID, req.CategoryID, req.Amount, req.Date, req.Description)
	if err != nil {
		respondWithError(w, err)
		return
	}
	writeSuccess(w, "Transaction updated", toTransactionPayload(txn))
}

// DeleteTransaction removes a ledger entry; any non-guest member
func (h *TransactionHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	txnID, ok := parsePathID(r, "id")
	if !ok {
		writeFailed(w, "Transaction not found")
		return
	}

	caller := GetUserFromContext(r.Context())
	if err := h.txnService.DeleteTransaction(r.Context(), txnID, caller); err != nil {
		respondWithError(w, err)
		return
	}
	writeSuccess(w, "Transaction deleted", nil)
}
