package handlers

import (
	"io"
	"net/http"
	"strconv"

	"familybudget/internal/service"
)

// AttachmentHandler handles receipt and invoice uploads
type AttachmentHandler struct {
	attachmentService *service.AttachmentService
	maxUploadSize     int64
}

// NewAttachmentHandler creates a new attachment handler
func NewAttachmentHandler(attachmentService *service.AttachmentService, maxUploadSize int64) *AttachmentHandler {
	return &AttachmentHandler{
		attachmentService: attachmentService,
		maxUploadSize:     maxUploadSize,
	}
}

// CreateAttachment uploads a file for a transaction. Expects a
// multipart form with a "file" part and a "transaction_id" field.
func (h *AttachmentHandler) CreateAttachment(w http.ResponseWriter, r *http.Request) {
	familyID, ok := parsePathID(r, "id")
	if !ok {
		writeHTTPError(w, http.StatusNotFound, "Family not found")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+4096)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		writeHTTPError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	txnID, err := strconv.ParseInt(r.FormValue("transaction_id"), 10, 64)
	if err != nil || txnID <= 0 {
		writeFailed(w, "Transaction not found")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeHTTPError(w, http.StatusBadRequest, "Missing file upload")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		writeHTTPError(w, http.StatusBadRequest, "Failed to read file upload")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	caller := GetUserFromContext(r.Context())
	att, err := h.attachmentService.CreateAttachment(r.Context(), familyID, caller, txnID, header.Filename, contentType, content)
	if err != nil {
		respondWithError(w, err)
		return
	}
	writeSuccess(w, "Attachment created", toAttachmentPayload(att))
}

// ListAttachments lists a family's attachments without file content;
// any member
func (h *AttachmentHandler) ListAttachments(w http.ResponseWriter, r *http.Request) {
	familyID, ok := parsePathID(r, "id")
	if !ok {
		writeHTTPError(w, http.StatusNotFound, "Family not found")
		return
	}

	caller := GetUserFromContext(r.Context())
	atts, err := h.attachmentService.ListAttachments(r.Context(), familyID, caller)
	if err != nil {
		respondWithError(w, err)
		return
	}
	writeSuccess(w, "Attachments retrieved", toAttachmentPayloads(atts))
}

// GetAttachment retrieves attachment metadata; any member of its family
func (h *AttachmentHandler) GetAttachment(w http.ResponseWriter, r *http.Request) {
	attachmentID, ok := parsePathID(r, "id")
	if !ok {
		writeFailed(w, "Attachment not found")
		return
	}

	caller := GetUserFromContext(r.Context())
	att, err := h.attachmentService.GetAttachment(r.Context(), attachmentID, caller)
	if err != nil {
		respondWithError(w, err)
		return
	}
	writeSuccess(w, "Attachment retrieved", toAttachmentPayload(att))
}

// DownloadAttachment serves the stored file bytes; any member of its
// family
func (h *AttachmentHandler) DownloadAttachment(w http.ResponseWriter, r *http.Request) {
	attachmentID, ok := parsePathID(r, "id")
	if !ok {
		writeFailed(w, "Attachment not found")
		return
	}

	caller := GetUserFromContext(r.Context())
	att, err := h.attachmentService.GetAttachment(r.Context(), attachmentID, caller)
	if err != nil {
		respondWithError(w, err)
		return
	}

	w.Header().Set("Content-Type", att.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+att.FileName+`"`)
	w.Write(att.FileContent)
}

// DeleteAttachment removes an attachment; any non-guest member
func (h *AttachmentHandler) DeleteAttachment(w http.ResponseWriter, r *http.Request) {
	attachmentID, ok := parsePathID(r, "id")
	if !ok {
		writeFailed(w, "Attachment not found")
		return
	}

	caller := GetUserFromContext(r.Context())
	if err := h.attachmentService.DeleteAttachment(r.Context(), attachmentID, caller); err != nil {
		respondWithError(w, err)
		return
	}
	writeSuccess(w, "Attachment deleted", nil)
}
