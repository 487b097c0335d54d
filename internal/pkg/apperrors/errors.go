package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("resource not found")

	ErrInvalidArgument = errors.New("invalid argument")

	ErrValidation = errors.New("validation failed")

	// ErrInvalidTransition marks a lifecycle command that is not legal from
	// the proposal's current state. Never retried automatically.
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrInvariantViolation marks malformed identity numbers or out-of-range
	// amounts/terms/rates at construction or mutation time.
	ErrInvariantViolation = errors.New("business invariant violated")

	ErrAlreadyExists = errors.New("resource already exists")

	ErrDatabase = errors.New("database error")

	ErrInternalServer = errors.New("internal server error")

	ErrUnauthorized = errors.New("unauthorized")

	ErrForbidden = errors.New("forbidden")

	ErrConflict = errors.New("resource conflict")
)

type ValidationError struct {
	Field   string
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

func NewValidationError(field, message string) error {

	return fmt.Errorf("%w: %w", ErrValidation, &ValidationError{Field: field, Message: message})
}

// TransitionError carries the attempted action and the state it was
// attempted from, so callers can name both in their response.
type TransitionError struct {
	Action       string
	CurrentState string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s a proposal in state '%s'", e.Action, e.CurrentState)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

func NewTransitionError(action, currentState string) error {
	return &TransitionError{Action: action, CurrentState: currentState}
}

type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func WrapDatabaseError(cause error, message string) error {
	return &AppError{
		Code:    "DB_ERROR",
		Message: message,
		Cause:   fmt.Errorf("%w: %w", ErrDatabase, cause),
	}
}
