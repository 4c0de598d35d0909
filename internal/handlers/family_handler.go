package handlers

import (
	"net/http"

	"familybudget/internal/service"
)

// FamilyHandler handles family lifecycle endpoints
type FamilyHandler struct {
	familyService *service.FamilyService
}

// NewFamilyHandler creates a new family handler
func NewFamilyHandler(familyService *service.FamilyService) *FamilyHandler {
	return &FamilyHandler{familyService: familyService}
}

// CreateFamily creates a family owned by the caller
func (h *FamilyHandler) CreateFamily(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	caller := GetUserFromContext(r.Context())
	family, err := h.familyService.CreateFamily(r.Context(), req.Name, caller)
	if err != nil {
		respondWithError(w, err)
		return
	}
	writeSuccess(w, "Family created", toFamilyPayload(family))
}

// ListFamilies lists every family
func (h *FamilyHandler) ListFamilies(w http.ResponseWriter, r *http.Request) {
	families, err := h.familyService.GetAllFamilies(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}
	writeSuccess(w, "Families retrieved", toFamilyPayloads(families))
}

// GetFamily retrieves one family; members only
func (h *FamilyHandler) GetFamily(w http.ResponseWriter, r *http.Request) {
	familyID, ok := parsePathID(r, "id")
	if !ok {
		writeHTTPError(w, http.StatusNotFound, "Family not found")
		return
	}

	caller := GetUserFromContext(r.Context())
	family, err := h.familyService.GetFamily(r.Context(), familyID, caller)
	if err != nil {
		respondWithError(w, err)
		return
	}
	writeSuccess(w, "Family retrieved", toFamilyPayload(family))
}

// UpdateFamily renames a family; owner only
func (h *FamilyHandler) UpdateFamily(w http.ResponseWriter, r *http.Request) {
	familyID, ok := parsePathID(r, "id")
	if !ok {
		writeHTTPError(w, http.StatusNotFound, "Family not found")
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	caller := GetUserFromContext(r.Context())
	family, err := h.familyService.UpdateFamily(r.Context(), familyID, caller, req.Name)
	if err != nil {
		respondWithError(w, err)
		return
	}
	writeSuccess(w, "Family updated", toFamilyPayload(family))
}

// DeleteFamily deletes a family; owner only
func (h *FamilyHandler) DeleteFamily(w http.ResponseWriter, r *http.Request) {
	familyID, ok := parsePathID(r, "id")
	if !ok {
		writeHTTPError(w, http.StatusNotFound, "Family not found")
		return
	}

	caller := GetUserFromContext(r.Context())
	if err := h.familyService.DeleteFamily(r.Context(), familyID, caller); err != nil {
		respondWithError(w, err)
		return
	}
	writeSuccess(w, "Family deleted", nil)
}
