package services

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDomain       = errors.New("email domain is not allowed")
	ErrEmailTaken          = errors.New("user with this email already exists")
	ErrInvalidAdminKey     = errors.New("invalid admin registration key")
	ErrUnauthenticated     = errors.New("invalid or expired token")
	ErrNeedsRegistration   = errors.New("user needs to complete signup")
	ErrForbidden           = errors.New("admin privileges required")
	ErrNotFound            = errors.New("item not found")
	ErrInvalidTransition   = errors.New("item status does not allow this transition")
	ErrImageTooLarge       = errors.New("image exceeds the maximum upload size")
	ErrUpstreamUnavailable = errors.New("upstream service unavailable")
)

// ValidationError names the offending field so clients can correct the input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("field %q: %s", e.Field, e.Reason)
}

func invalidField(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
