package services

import "errors"

type ErrorCode string

const (
	ErrorValidation   ErrorCode = "validation"
	ErrorUnauthorized ErrorCode = "unauthorized"
	ErrorConflict     ErrorCode = "conflict"
	ErrorStorage      ErrorCode = "storage"
)

type ServiceError struct {
	Code    ErrorCode
	Message string
}

func (e *ServiceError) Error() string { return e.Message }

func NewAuthError(msg string) error     { return &ServiceError{Code: ErrorUnauthorized, Message: msg} }
func NewConflictError(msg string) error { return &ServiceError{Code: ErrorConflict, Message: msg} }
func NewStorageError(msg string) error  { return &ServiceError{Code: ErrorStorage, Message: msg} }

func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// ValidationError carries every failing message from a submission check
// so the form can show them all at once.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	if len(e.Messages) == 0 {
		return "validation failed"
	}
	return e.Messages[0]
}

func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
