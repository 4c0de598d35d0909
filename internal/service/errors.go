package service

import (
	"errors"
	"fmt"
	"log/slog"
)

// BusinessError is the soft failure channel: an expected business
// outcome (duplicate membership, missing referenced entity, illegal
// owner removal) reported to the client as a FAILED envelope with
// HTTP 200, never as an HTTP error. Hard authorization failures use
// the authz error channel instead; the two are deliberately distinct.
type BusinessError struct {
	Message string
}

func (e *BusinessError) Error() string {
	return e.Message
}

// Failf builds a soft business failure
func Failf(format string, args ...any) error {
	return &BusinessError{Message: fmt.Sprintf(format, args...)}
}

// AsBusiness extracts a BusinessError from an error chain
func AsBusiness(err error) (*BusinessError, bool) {
	var be *BusinessError
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}

// persistFail logs the underlying persistence error and returns a soft
// failure with a generic message so store internals never leak to
// clients.
func persistFail(op string, err error) error {
	slog.Error("Persistence failure", "op", op, "error", err)
	return &BusinessError{Message: "Failed to " + op}
}

// ErrInvalidCredentials is returned on bad login attempts; the HTTP
// layer maps it to 401.
var ErrInvalidCredentials = errors.New("invalid email or password")
