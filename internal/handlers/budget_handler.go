package handlers

import (
	"net/http"
	"time"

	"familybudget/internal/service"
)

// BudgetHandler handles budget endpoints
type BudgetHandler struct {
	budgetService *service.BudgetService
}

// NewBudgetHandler creates a new budget handler
func NewBudgetHandler(budgetService *service.BudgetService) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

type budgetRequest struct {
	Name      string    `json:"name"`
	Amount    float64   `json:"amount"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// CreateBudget creates a budget in a family; owner only
func (h *BudgetHandler) CreateBudget(w http.ResponseWriter, r *http.Request) {
	familyID, ok := parsePathID(r, "id")
	if !ok {
		writeHTTPError(w, http.StatusNotFound, "Family not found")
		return
	}
	var req budgetRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	caller := GetUserFromContext(r.Context())
	budget, err := h.budgetService.CreateBudget(r.Context(), familyID, caller, req.Name, req.Amount, req.StartDate, req.EndDate)
	if err != nil {
		respondWithError(w, err)
		return
	}
	writeSuccess(w, "Budget created", toBudgetPayload(budget))
}

// ListBudgets lists a family's budgets; any member
func (h *BudgetHandler) ListBudgets(w http.ResponseWriter, r *http.Request) {
	familyID, ok := parsePathID(r, "id")
	if !ok {
		writeHTTPError(w, http.StatusNotFound, "Family not found")
		return
	}

	caller := GetUserFromContext(r.Context())
	budgets, err := h.budgetService.ListBudgets(r.Context(), familyID, caller)
	if err != nil {
		respondWithError(w, err)
		return
	}
	writeSuccess(w, "Budgets retrieved", toBudgetPayloads(budgets))
}

// GetBudget retrieves one budget; any member of its family
func (h *BudgetHandler) GetBudget(w http.ResponseWriter, r *http.Request) {
	budgetID, ok := parsePathID(r, "id")
	if !ok {
		writeFailed(w, "Budget not found")
		return
	}

	caller := GetUserFromContext(r.Context())
	budget, err := h.budgetService.GetBudget(r.Context(), budgetID, caller)
	if err != nil {
		respondWithError(w, err)
		return
	}
	writeSuccess(w, "Budget retrieved", toBudgetPayload(budget))
}

// UpdateBudget edits a budget; owner only
func (h *BudgetHandler) UpdateBudget(w http.ResponseWriter, r *http.Request) {
	budgetID, ok := parsePathID(r, "id")
	if !ok {
		writeFailed(w, "Budget not found")
		return
	}
	var req budgetRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	caller := GetUserFromContext(r.Context())
	budget, err := h.budgetService.UpdateBudget(r.Context(), budgetID, caller, req.Name, req.Amount, req.StartDate, req.EndDate)
	if err != nil {
		respondWithError(w, err)
		return
	}
	writeSuccess(w, "Budget updated", toBudgetPayload(budget))
}

// DeleteBudget removes a budget; owner only
func (h *BudgetHandler) DeleteBudget(w http.ResponseWriter, r *http.Request) {
	budgetID, ok := parsePathID(r, "id")
	if !ok {
		writeFailed(w, "Budget not found")
		return
	}

	caller := GetUserFromContext(r.Context())
	if err := h.budgetService.DeleteBudget(r.Context(), budgetID, caller); err != nil {
		respondWithError(w, err)
		return
	}
	writeSuccess(w, "Budget deleted", nil)
}
