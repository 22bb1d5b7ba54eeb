package errors

import (
	"errors"
	"fmt"
)

// Domain errors - these represent business rule violations
var (
	// Authentication
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrUnauthenticated    = errors.New("caller not authenticated")

	// User validation
	ErrUserNotFound     = errors.New("user not found")
	ErrNameRequired     = errors.New("name is required")
	ErrCPFRequired      = errors.New("cpf is required")
	ErrPhoneRequired    = errors.New("phone number is required")
	ErrPasswordTooWeak  = errors.New("password does not meet security requirements")
	ErrPasswordRequired = errors.New("password is required")

	// Ticket validation
	ErrTicketNotFound       = errors.New("ticket not found")
	ErrCustomerNameTooShort = errors.New("customer name must be at least 3 characters")
	ErrInvalidServiceType   = errors.New("invalid service type")
	ErrSectorRequired       = errors.New("sector is required for Service tickets")
	ErrSectorNotAllowed     = errors.New("sector must be empty for Renegotiation tickets")

	// Queue / lifecycle state conflicts
	ErrNoPendingTicket       = errors.New("no pending ticket")
	ErrTicketAlreadyCanceled = errors.New("ticket already canceled")
	ErrTicketAlreadyClosed   = errors.New("ticket already in a terminal state")

	// Sector
	ErrSectorNotFound     = errors.New("sector not found")
	ErrSectorNameRequired = errors.New("sector name is required")

	// Operation / treatment
	ErrNoActiveOperation      = errors.New("no active operation")
	ErrOperationNotFound      = errors.New("operation not found")
	ErrOperationAlreadyActive = errors.New("an operating session already exists for this user")
	ErrOperationFinished      = errors.New("operation already finished")
	ErrServicePointRequired   = errors.New("service point is required")
	ErrTreatmentNotFound      = errors.New("treatment not found")
	ErrTreatmentNotInService  = errors.New("treatment not in service")
	ErrTreatmentAlreadyActive = errors.New("operation already has a treatment in service")

	// Generic
	ErrNotFound    = errors.New("resource not found")
	ErrInternal    = errors.New("internal server error")
	ErrBadRequest  = errors.New("bad request")
	ErrConflict    = errors.New("resource conflict")
	ErrRateLimited = errors.New("rate limit exceeded")
)

// AppError wraps errors with additional context for HTTP responses
type AppError struct {
	Err        error  // The underlying error
	Message    string // User-friendly message
	Code       string // Machine-readable error code
	StatusCode int    // HTTP status code
	Details    map[string]interface{}
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Error constructors for common cases
func NewBadRequestError(err error, message string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		Code:       "BAD_REQUEST",
		StatusCode: 400,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Err:        ErrUnauthenticated,
		Message:    message,
		Code:       "UNAUTHENTICATED",
		StatusCode: 401,
	}
}

func NewNotFoundError(err error, message string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		Code:       "NOT_FOUND",
		StatusCode: 404,
	}
}

func NewConflictError(err error, message string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		Code:       "CONFLICT",
		StatusCode: 409,
	}
}

func NewValidationError(err error, message string, details map[string]interface{}) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		Code:       "VALIDATION_ERROR",
		StatusCode: 422,
		Details:    details,
	}
}

func NewRateLimitError() *AppError {
	return &AppError{
		Err:        ErrRateLimited,
		Message:    "Too many requests. Please try again later.",
		Code:       "RATE_LIMITED",
		StatusCode: 429,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Err:        err,
		Message:    "An unexpected error occurred",
		Code:       "INTERNAL_ERROR",
		StatusCode: 500,
	}
}

// ValidationErrors holds multiple field validation errors
type ValidationErrors struct {
	Errors map[string][]string `json:"errors"`
}

func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{
		Errors: make(map[string][]string),
	}
}

func (v *ValidationErrors) Add(field, message string) {
	v.Errors[field] = append(v.Errors[field], message)
}

func (v *ValidationErrors) HasErrors() bool {
	return len(v.Errors) > 0
}

func (v *ValidationErrors) Error() string {
	return fmt.Sprintf("validation failed: %d field(s) have errors", len(v.Errors))
}
