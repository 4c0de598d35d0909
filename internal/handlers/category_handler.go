package handlers

import (
	"net/http"

	"familybudget/internal/models"
	"familybudget/internal/service"
)

// CategoryHandler handles category endpoints
type CategoryHandler struct {
	categoryService *service.CategoryService
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// CreateCategory creates a category in a family; owner only
func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
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
	category, err := h.categoryService.CreateCategory(r.Context(), familyID, caller, req.Name, models.CategoryType(req.Type))
	if err != nil {
		respondWithError(w, err)
		return
	}
	writeSuccess(w, "Category created", toCategoryPayload(category))
}

// ListCategories lists a family's categories; any member
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	familyID, ok := parsePathID(r, "id")
	if !ok {
		writeHTTPError(w, http.StatusNotFound, "Family not found")
		return
	}

	caller := GetUserFromContext(r.Context())
	categories, err := h.categoryService.ListCategories(r.Context(), familyID, caller)
	if err != nil {
		respondWithError(w, err)
		return
	}
	writeSuccess(w, "Categories retrieved", toCategoryPayloads(categories))
}

// GetCategory retrieves one category; any member of its family
func (h *CategoryHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := parsePathID(r, "id")
	if !ok {
		writeFailed(w, "Category not found")
		return
	}

	caller := GetUserFromContext(r.Context())
	category, err := h.categoryService.GetCategory(r.Context(), categoryID, caller)
	if err != nil {
		respondWithError(w, err)
		return
	}
	writeSuccess(w, "Category retrieved", toCategoryPayload(category))
}

// UpdateCategory edits a category; owner only
func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := parsePathID(r, "id")
	if !ok {
		writeFailed(w, "Category not found")
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
	category, err := h.categoryService.UpdateCategory(r.Context(), categoryID, caller, req.Name, models.CategoryType(req.Type))
	if err != nil {
		respondWithError(w, err)
		return
	}
	writeSuccess(w, "Category updated", toCategoryPayload(category))
}

// DeleteCategory removes a category; owner only
func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := parsePathID(r, "id")
	if !ok {
		writeFailed(w, "Category not found")
		return
	}

	caller := GetUserFromContext(r.Context())
	if err := h.categoryService.DeleteCategory(r.Context(), categoryID, caller); err != nil {
		respondWithError(w, err)
		return
	}
	writeSuccess(w, "Category deleted", nil)
}
