package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrValidation     = errors.New("validation failed")
	ErrAuth           = errors.New("authentication failed")
	ErrAccountDeleted = errors.New("ACCOUNT_DELETED")
	ErrNotFound       = errors.New("not found")
	ErrForbidden      = errors.New("forbidden")
	ErrConflict       = errors.New("revision conflict")
	ErrCollaborator   = errors.New("collaborator request failed")
)

// ValidationError is raised locally before any collaborator call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func Invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// AuthError covers rejected admin credentials and failed seller logins.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string { return e.Message }

func (e *AuthError) Is(target error) bool { return target == ErrAuth }

// CollaboratorError carries the backend's error payload verbatim.
type CollaboratorError struct {
	Status  int
	Message string
}

func (e *CollaboratorError) Error() string {
	if e.Status == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

func (e *CollaboratorError) Is(target error) bool { return target == ErrCollaborator }

// ForbiddenError explains why the current actor may not perform an action.
type ForbiddenError struct {
	Action string
	Reason string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("%s not permitted: %s", e.Action, e.Reason)
}

func (e *ForbiddenError) Is(target error) bool { return target == ErrForbidden }

// NotFoundError names the missing resource.
type NotFoundError struct {
	Resource string
	ID       string
	Message  string
}

func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// Message returns the user-facing text of err, falling back when it is empty.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}

	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}

	var ce *CollaboratorError
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message
	}

	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}
