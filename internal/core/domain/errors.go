package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("access forbidden")
	ErrValidation      = errors.New("validation failed")
	ErrConflict        = errors.New("conflict")
	ErrUnavailable     = errors.New("service unavailable")
	ErrUnauthenticated = errors.New("authentication required")
)

// Identity and session errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrAccountInactive    = fmt.Errorf("%w: account has been deactivated", ErrInvalidCredentials)
	ErrInvalidPassword    = fmt.Errorf("%w: invalid password", ErrInvalidCredentials)
	ErrSessionNotFound    = fmt.Errorf("%w: no live session", ErrUnauthenticated)

	ErrUsernameTaken = NewValidationError("username already exists")
	ErrEmailTaken    = NewValidationError("email address already registered")
)

// ValidationError collects human-readable problems with caller input. It
// matches ErrValidation under errors.Is.
type ValidationError struct {
	Problems []string
}

func NewValidationError(problems ...string) *ValidationError {
	return &ValidationError{Problems: problems}
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Problems) == 0 {
		return ErrValidation.Error()
	}
	return strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Add records a problem.
func (e *ValidationError) Add(problem string) {
	e.Problems = append(e.Problems, problem)
}

// OrNil returns nil when nothing was recorded, so callers can return the
// collector directly.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Problems) == 0 {
		return nil
	}
	return e
}

// AuthorizationError is a denial by the authorization gate. It matches
// ErrForbidden under errors.Is.
type AuthorizationError struct {
	Permission Permission
	Reason     string
}

func (e *AuthorizationError) Error() string {
	return e.Reason
}

func (e *AuthorizationError) Is(target error) bool {
	return target == ErrForbidden
}

// TransitionError reports a workflow step attempted from the wrong state.
// It matches ErrConflict under errors.Is.
type TransitionError struct {
	Entity string
	ID     string
	From   string
	To     string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s %s cannot move from %s to %s", e.Entity, e.ID, e.From, e.To)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrConflict
}
