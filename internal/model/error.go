package model

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON   = "INVALID_JSON"
	ErrCodeMissingField  = "MISSING_FIELD"
	ErrCodeInvalidField  = "INVALID_FIELD"
	ErrCodePlantNotFound = "PLANT_NOT_FOUND"
	ErrCodeWriteFailed   = "WRITE_FAILED"
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewWriteError reports a write rejected by the storage engine. The message is
// the engine's own description of the failure.
func NewWriteError(err error) *DomainError {
	message := err.Error()
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		message = pgErr.Error()
	}
	return &DomainError{
		Code:    ErrCodeWriteFailed,
		Message: message,
		Err:     err,
	}
}

// NewInvalidFieldError reports a field whose value cannot be stored in its column.
func NewInvalidFieldError(field string, err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidField,
		Message: fmt.Sprintf("invalid value for %s: %v", field, err),
		Err:     err,
	}
}

// Common domain errors
var (
	ErrPlantNotFound = NewDomainError(ErrCodePlantNotFound, "Plant not found")
	ErrMissingFields = NewDomainError(ErrCodeMissingField, "Missing required fields: name, image, price")
	ErrInvalidJSON   = NewDomainError(ErrCodeInvalidJSON, "Request body must be a JSON object")
)

// ErrorCode returns the code of a DomainError anywhere in err's chain, or
// ErrCodeInternalError.
func ErrorCode(err error) string {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ErrCodeInternalError
}
