package booking

import (
	"errors"
	"fmt"
)

// Outcome codes for booking-flow failures. Handlers map these to HTTP statuses.
const (
	CodeValidation   = "validation"
	CodeNotFound     = "notFound"
	CodeUnauthorized = "unauthorized"
	CodeConflict     = "conflict"
	CodeTransient    = "transient"
)

// BookingError is a reportable failure with a stable code.
type BookingError struct {
	Code    string
	Message string
}

func (e *BookingError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewValidationError(msg string) error {
	return &BookingError{Code: CodeValidation, Message: msg}
}

func NewNotFoundError(msg string) error {
	return &BookingError{Code: CodeNotFound, Message: msg}
}

func NewUnauthorizedError(msg string) error {
	return &BookingError{Code: CodeUnauthorized, Message: msg}
}

func NewConflictError(msg string) error {
	return &BookingError{Code: CodeConflict, Message: msg}
}

func NewTransientError(msg string) error {
	return &BookingError{Code: CodeTransient, Message: msg}
}

// CodeOf returns the outcome code of err, or CodeTransient for untyped errors.
func CodeOf(err error) string {
	var be *BookingError
	if errors.As(err, &be) {
		return be.Code
	}
	return CodeTransient
}

// MessageOf returns the user-facing message of err. Untyped errors pass
// through unchanged.
func MessageOf(err error) string {
	var be *BookingError
	if errors.As(err, &be) {
		return be.Message
	}
	return err.Error()
}
