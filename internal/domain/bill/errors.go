package bill

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/billed/backend/internal/domain/shared"
)

// Record format failures. A record carrying one of these is still listed,
// with the offending field left raw.
var (
	ErrInvalidDate   = shared.NewDomainError("INVALID_DATE", "Bill date is not a valid date")
	ErrUnknownStatus = shared.NewDomainError("UNKNOWN_STATUS", "Bill status is not a known status code")
)

// TransportError is returned when the store itself fails to list bills
// (network, authentication or server error). Its message is the one shown to
// the user, e.g. "Erreur 404".
type TransportError struct {
	StatusCode int
	Message    string
	Err        error
}

// NewTransportError builds a TransportError for an HTTP-like status code
func NewTransportError(statusCode int, cause error) *TransportError {
	return &TransportError{
		StatusCode: statusCode,
		Message:    fmt.Sprintf("Erreur %d", statusCode),
		Err:        cause,
	}
}

// Error implements the error interface
func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying cause
func (e *TransportError) Unwrap() error {
	return e.Err
}

// AsTransportError extracts a TransportError from err.
// Errors that are not transport errors are reported as a 500.
func AsTransportError(err error) *TransportError {
	var te *TransportError
	if errors.As(err, &te) {
		return te
	}
	return NewTransportError(http.StatusInternalServerError, err)
}

// IsTransportError reports whether err wraps a TransportError
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
