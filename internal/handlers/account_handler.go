package handlers

import (
	"net/http"

	"familybudget/internal/models"
	"familybudget/internal/service"
)

// AccountHandler handles account endpoints
type AccountHandler struct {
	accountService *service.AccountService
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(accountService *service.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// CreateAccount creates an account in a family; owner only
func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	familyID, ok := parsePathID(r, "id")
	if !ok {
		writeHTTPError(w, http.StatusNotFound, "Family not found")
		return
	}
	var req struct {
		Name string `json:"name"`
		Type string `json:"type"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	caller := GetUserFromContext(r.Context())
	account, err := h.accountService.CreateAccount(r.Context(), familyID, caller, req.Name, models.AccountType(req.Type))
	if err != nil {
		respondWithError(w, err)
		return
	}
	writeSuccess(w, "Account created", toAccountPayload(account))
}

// ListAccounts lists a family's accounts; any member
func (h *AccountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	familyID, ok := parsePathID(r, "id")
	if !ok {
		writeHTTPError(w, http.StatusNotFound, "Family not found")
		return
	}

	caller := GetUserFromContext(r.Context())
	accounts, err := h.accountService.ListAccounts(r.Context(), familyID, caller)
	if err != nil {
		respondWithError(w, err)
		return
	}
	writeSuccess(w, "Accounts retrieved", toAccountPayloads(accounts))
}

// GetAccount retrieves one account; any member of its family
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	accountID, ok := parsePathID(r, "id")
	if !ok {
		writeFailed(w, "Account not found")
		return
	}

	caller := GetUserFromContext(r.Context())
	account, err := h.accountService.GetAccount(r.Context(), accountID, caller)
	if err != nil {
		respondWithError(w, err)
		return
	}
	writeSuccess(w, "Account retrieved", toAccountPayload(account))
}

// UpdateAccount edits an account; owner only
func (h *AccountHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	accountID, ok := parsePathID(r, "id")
	if !ok {
		writeFailed(w, "Account not found")
		return
	}
	var req struct {
		Name string `json:"name"`
		Type string `json:"type"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	caller := GetUserFromContext(r.Context())
	account, err := h.accountService.UpdateAccount(r.Context(), accountID, caller, req.Name, models.AccountType(req.Type))
	if err != nil {
		respondWithError(w, err)
		return
	}
	writeSuccess(w, "Account updated", toAccountPayload(account))
}

// DeleteAccount removes an account; owner only
func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	accountID, ok := parsePathID(r, "id")
	if !ok {
		writeFailed(w, "Account not found")
		return
	}

	caller := GetUserFromContext(r.Context())
	if err := h.accountService.DeleteAccount(r.Context(), accountID, caller); err != nil {
		respondWithError(w, err)
		return
	}
	writeSuccess(w, "Account deleted", nil)
}
