package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

const (
	codeFailed     = 0
	codeSuccessful = 1

	statusFailed     = "FAILED"
	statusSuccessful = "SUCCESSFUL"
)

// Envelope is the uniform JSON response body. Business outcomes, both
// successful and failed, travel in it with HTTP 200; only protocol and
// authorization failures use HTTP error statuses.
type Envelope struct {
	Code    int    `json:"code"`
	Status  string `json:"status"`
	Message string `json:"message"`
	Payload any    `json:"payload,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeSuccess sends a SUCCESSFUL envelope with HTTP 200
func writeSuccess(w http.ResponseWriter, message string, payload any) {
	writeJSON(w, http.StatusOK, Envelope{
		Code:    codeSuccessful,
		Status:  statusSuccessful,
		Message: message,
		Payload: payload,
	})
}

// writeFailed sends a FAILED envelope. The HTTP status stays 200: a
// business failure is a valid outcome, not a transport error.
func writeFailed(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, Envelope{
		Code:    codeFailed,
		Status:  statusFailed,
		Message: message,
	})
}

// writeHTTPError sends a plain JSON error with a real HTTP status.
// Used for the hard failure channel: authentication, authorization and
// absent families.
func writeHTTPError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
