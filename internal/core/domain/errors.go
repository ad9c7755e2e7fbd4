package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a record does not exist for the account,
// including after deletion.
var ErrNotFound = errors.New("geolocation not found")

// ErrMalformedResponse marks a GMLC payload that could not be decoded or
// that is missing fields required by its own shape discriminator.
var ErrMalformedResponse = errors.New("malformed GMLC response")

// ErrUnexpectedContentType marks a GMLC reply that is not application/json.
var ErrUnexpectedContentType = errors.New("unexpected GMLC content type")

// ValidationError rejects a create/update request before any GMLC call or
// record mutation. The HTTP layer maps it to 400.
type ValidationError struct {
	Param  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Param == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Param, e.Reason)
}

// NewValidationError builds a field-level rejection.
func NewValidationError(param, format string, args ...any) *ValidationError {
	return &ValidationError{Param: param, Reason: fmt.Sprintf(format, args...)}
}

// Mediation failure causes. A mediation failure is absorbed into the record
// (response_status=failed) and never propagated to the caller.
const (
	CauseMalformedResponse = "malformed GMLC response"
	CauseTimeout           = "GMLC request timed out"
	CauseConnectionFailure = "GMLC connection failure"
)
