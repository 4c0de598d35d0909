package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"familybudget/internal/authz"
	"familybudget/internal/security"
	"familybudget/internal/service"
)

// respondWithError routes an error to the correct channel: business
// failures become FAILED envelopes with HTTP 200, authorization
// failures become 403/404, authentication failures become 401, and
// everything else is a 500 with the cause kept out of the response.
func respondWithError(w http.ResponseWriter, err error) {
	if be, ok := service.AsBusiness(err); ok {
		writeFailed(w, be.Message)
		return
	}

	switch {
	case errors.Is(err, authz.ErrFamilyNotFound):
		writeHTTPError(w, http.StatusNotFound, "Family not found")
	case errors.Is(err, authz.ErrForbidden):
		writeHTTPError(w, http.StatusForbidden, "You do not have permission to perform this action")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeHTTPError(w, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, security.ErrMissingToken), errors.Is(err, security.ErrInvalidToken):
		writeHTTPError(w, http.StatusUnauthorized, "Invalid or missing token")
	default:
		slog.Error("Unhandled request error", "error", err)
		writeHTTPError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// parsePathID extracts a numeric path parameter. A malformed id is a
// client error, reported as 404 since no resource can match it.
func parsePathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// decodeJSON parses a request body into dst
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeHTTPError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
