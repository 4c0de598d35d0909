package handlers

import (
	"net/http"
	"time"

	"familybudget/internal/service"
)

// GoalHandler handles savings goal endpoints
type GoalHandler struct {
	goalService *service.GoalService
}

// NewGoalHandler creates a new goal handler
func NewGoalHandler(goalService *service.GoalService) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

type goalRequest struct {
	Name         string     `json:"name"`
	TargetAmount float64    `json:"target_amount"`
	SavedAmount  float64    `json:"saved_amount"`
	DueDate      *time.Time `json:"due_date"`
}

// CreateGoal creates a goal in a family; owner only
func (h *GoalHandler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	familyID, ok := parsePathID(r, "id")
	if !ok {
		writeHTTPError(w, http.StatusNotFound, "Family not found")
		return
	}
	var req goalRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	caller := GetUserFromContext(r.Context())
	goal, err := h.goalService.CreateGoal(r.Context(), familyID, caller, req.Name, req.TargetAmount, req.SavedAmount, req.DueDate)
	if err != nil {
		respondWithError(w, err)
		return
	}
	writeSuccess(w, "Goal created", toGoalPayload(goal))
}

// ListGoals lists a family's goals; any member
func (h *GoalHandler) ListGoals(w http.ResponseWriter, r *http.Request) {
	familyID, ok := parsePathID(r, "id")
	if !ok {
		writeHTTPError(w, http.StatusNotFound, "Family not found")
		return
	}

	caller := GetUserFromContext(r.Context())
	goals, err := h.goalService.ListGoals(r.Context(), familyID, caller)
	if err != nil {
		respondWithError(w, err)
		return
	}
	writeSuccess(w, "Goals retrieved", toGoalPayloads(goals))
}

// GetGoal retrieves one goal; any member of its family
func (h *GoalHandler) GetGoal(w http.ResponseWriter, r *http.Request) {
	goalID, ok := parsePathID(r, "id")
	if !ok {
		writeFailed(w, "Goal not found")
		return
	}

	caller := GetUserFromContext(r.Context())
	goal, err := h.goalService.GetGoal(r.Context(), goalID, caller)
	if err != nil {
		respondWithError(w, err)
		return
	}
	writeSuccess(w, "Goal retrieved", toGoalPayload(goal))
}

// UpdateGoal edits a goal; owner only
func (h *GoalHandler) UpdateGoal(w http.ResponseWriter, r *http.Request) {
	goalID, ok := parsePathID(r, "id")
	if !ok {
		writeFailed(w, "Goal not found")
		return
	}
	var req goalRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	caller := GetUserFromContext(r.Context())
	goal, err := h.goalService.UpdateGoal(r.Context(), goalID, caller, req.Name, req.TargetAmount, req.SavedAmount, req.DueDate)
	if err != nil {
		respondWithError(w, err)
		return
	}
	writeSuccess(w, "Goal updated", toGoalPayload(goal))
}

// DeleteGoal removes a goal; owner only
func (h *GoalHandler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	goalID, ok := parsePathID(r, "id")
	if !ok {
		writeFailed(w, "Goal not found")
		return
	}

	caller := GetUserFromContext(r.Context())
	if err := h.goalService.DeleteGoal(r.Context(), goalID, caller); err != nil {
		respondWithError(w, err)
		return
	}
	writeSuccess(w, "Goal deleted", nil)
}
