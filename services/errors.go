package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrOrderNotFound         = errors.New("order not found")
	ErrUserNotFound          = errors.New("user not found")
	ErrForbidden             = errors.New("forbidden")
	ErrInvalidCourier        = errors.New("courier must reference a user with the courier role")
	ErrStatusNotAllowed      = errors.New("status is not selectable for this role")
	ErrConfirmationRequired  = errors.New("delete must be confirmed")
	ErrUserExists            = errors.New("a user with this email already exists")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrPasswordTooLong       = errors.New("password exceeds 72 bytes")
	ErrSessionNotFound       = errors.New("session not found or expired")
	ErrInvalidOAuthToken     = errors.New("oauth token is invalid or expired")
	ErrEmailDelivery         = errors.New("failed to deliver email")
	ErrImageStoreUnavailable = errors.New("image storage is not configured")
)

// ReadOnlyFieldError lists the fields a role tried to change without permission
type ReadOnlyFieldError struct {
	Fields []Field
}

func (e *ReadOnlyFieldError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = string(f)
	}
	return fmt.Sprintf("read-only fields cannot be changed: %s", strings.Join(names, ", "))
}

// isUniqueViolation detects duplicate key errors from both PostgreSQL and SQLite
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique")
}
