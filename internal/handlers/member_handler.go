package handlers

import (
	"net/http"

	"familybudget/internal/models"
	"familybudget/internal/service"
)

// MemberHandler handles family membership endpoints
type MemberHandler struct {
	familyService *service.FamilyService
}

// NewMemberHandler creates a new member handler
func NewMemberHandler(familyService *service.FamilyService) *MemberHandler {
	return &MemberHandler{familyService: familyService}
}

// ListMembers lists a family's members; any member may read
func (h *MemberHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	familyID, ok := parsePathID(r, "id")
	if !ok {
		writeHTTPError(w, http.StatusNotFound, "Family not found")
		return
	}

	caller := GetUserFromContext(r.Context())
	details, err := h.familyService.ListMembers(r.Context(), familyID, caller)
	if err != nil {
		respondWithError(w, err)
		return
	}
	writeSuccess(w, "Members retrieved", toMemberPayloads(details))
}

// AddMember adds a user to a family; owner only
func (h *MemberHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	familyID, ok := parsePathID(r, "id")
	if !ok {
		writeHTTPError(w, http.StatusNotFound, "Family not found")
		return
	}
	var req struct {
		UserID int64  `json:"user_id"`
		Role   string `json:"role"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	caller := GetUserFromContext(r.Context())
	member, err := h.familyService.AddMember(r.Context(), familyID, req.UserID, models.Role(req.Role), caller)
	if err != nil {
		respondWithError(w, err)
		return
	}
	writeSuccess(w, "Member added", map[string]any{
		"family_id": member.FamilyID,
		"user_id":   member.UserID,
		"role":      string(member.Role),
		"joined_at": member.JoinedAt,
	})
}

// RemoveMember removes a user from a family; owner only, and the owner
// membership itself can never be removed
func (h *MemberHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	familyID, ok := parsePathID(r, "id")
	if !ok {
		writeHTTPError(w, http.StatusNotFound, "Family not found")
		return
	}
	userID, ok := parsePathID(r, "userID")
	if !ok {
		writeFailed(w, "User is not a member of this family")
		return
	}

	caller := GetUserFromContext(r.Context())
	if err := h.familyService.RemoveMember(r.Context(), familyID, userID, caller); err != nil {
		respondWithError(w, err)
		return
	}
	writeSuccess(w, "Member removed", nil)
}

// ListUserFamilies lists the families the caller belongs to
func (h *MemberHandler) ListUserFamilies(w http.ResponseWriter, r *http.Request) {
	userID, ok := parsePathID(r, "id")
	if !ok {
		writeHTTPError(w, http.StatusNotFound, "User not found")
		return
	}

	caller := GetUserFromContext(r.Context())
	families, err := h.familyService.ListUserFamilies(r.Context(), userID, caller)
	if err != nil {
		respondWithError(w, err)
		return
	}
	writeSuccess(w, "Families retrieved", toFamilyPayloads(families))
}
