package handlers

import (
	"net/http"

	"familybudget/internal/service"
)

// BudgetTransactionHandler handles budget assignment endpoints
type BudgetTransactionHandler struct {
	btService *service.BudgetTransactionService
}

// NewBudgetTransactionHandler creates a new budget-transaction handler
func NewBudgetTransactionHandler(btService *service.BudgetTransactionService) *BudgetTransactionHandler {
	return &BudgetTransactionHandler{btService: btService}
}

// CreateBudgetTransaction assigns part of a transaction to a budget;
// any non-guest member
func (h *BudgetTransactionHandler) CreateBudgetTransaction(w http.ResponseWriter, r *http.Request) {
	familyID, ok := parsePathID(r, "id")
	if !ok {
		writeHTTPError(w, http.StatusNotFound, "Family not found")
		return
	}
	var req struct {
		BudgetID       int64   `json:"budget_id"`
		TransactionID  int64   `json:"transaction_id"`
		AssignedAmount float64 `json:"assigned_amount"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	caller := GetUserFromContext(r.Context())
	bt, err := h.btService.CreateBudgetTransaction(r.Context(), familyID, caller, req.BudgetID, req.TransactionID, req.AssignedAmount)
	if err != nil {
		respondWithError(w, err)
		return
	}
	writeSuccess(w, "Budget transaction created", toBudgetTransactionPayload(bt))
}

// ListBudgetTransactions lists a family's assignments; any member
func (h *BudgetTransactionHandler) ListBudgetTransactions(w http.ResponseWriter, r *http.Request) {
	familyID, ok := parsePathID(r, "id")
	if !ok {
		writeHTTPError(w, http.StatusNotFound, "Family not found")
		return
	}

	caller := GetUserFromContext(r.Context())
	bts, err := h.btService.ListBudgetTransactions(r.Context(), familyID, caller)
	if err != nil {
		respondWithError(w, err)
		return
	}
	writeSuccess(w, "Budget transactions retrieved", toBudgetTransactionPayloads(bts))
}

// GetBudgetTransaction retrieves one assignment; any member of its family
func (h *BudgetTransactionHandler) GetBudgetTransaction(w http.ResponseWriter, r *http.Request) {
	btID, ok := parsePathID(r, "id")
	if !ok {
		writeFailed(w, "Budget transaction not found")
		return
	}

	caller := GetUserFromContext(r.Context())
	bt, err := h.btService.GetBudgetTransaction(r.Context(), btID, caller)
	if err != nil {
		respondWithError(w, err)
		return
	}
	writeSuccess(w, "Budget transaction retrieved", toBudgetTransactionPayload(bt))
}

// UpdateBudgetTransaction changes an assigned amount; any non-guest member
func (h *BudgetTransactionHandler) UpdateBudgetTransaction(w http.ResponseWriter, r *http.Request) {
	btID, ok := parsePathID(r, "id")
	if !ok {
		writeFailed(w, "Budget transaction not found")
		return
	}
	var req struct {
		AssignedAmount float64 `json:"assigned_amount"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	caller := GetUserFromContext(r.Context())
	bt, err := h.btService.UpdateBudgetTransaction(r.Context(), btID, caller, req.AssignedAmount)
	if err != nil {
		respondWithError(w, err)
		return
	}
	writeSuccess(w, "Budget transaction updated", toBudgetTransactionPayload(bt))
}

// DeleteBudgetTransaction removes an assignment; any non-guest member
func (h *BudgetTransactionHandler) DeleteBudgetTransaction(w http.ResponseWriter, r *http.Request) {
	btID, ok := parsePathID(r, "id")
	if !ok {
		writeFailed(w, "Budget transaction not found")
		return
	}

	caller := GetUserFromContext(r.Context())
	if err := h.btService.DeleteBudgetTransaction(r.Context(), btID, caller); err != nil {
		respondWithError(w, err)
		return
	}
	writeSuccess(w, "Budget transaction deleted", nil)
}
