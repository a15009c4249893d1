package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound       = errors.New("not_found")
	ErrForbidden      = errors.New("forbidden")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrConflict       = errors.New("conflict")
	ErrNotAffiliated  = errors.New("not_affiliated")
	ErrServiceLocked  = errors.New("service_locked")
	ErrUnknownAccount = errors.New("unknown_account")
	ErrNotYetApproved = errors.New("not_yet_approved")
	ErrInvalidCode    = errors.New("invalid_code")
	ErrExpiredCode    = errors.New("expired_code")
	ErrInvalidRefresh = errors.New("invalid_refresh_token")

	// ErrThrottledResend is matched by *ThrottledError through errors.Is.
	ErrThrottledResend = errors.New("throttled")

	// ErrValidation is matched by *ValidationError through errors.Is.
	ErrValidation = errors.New("validation_error")
)

// ValidationError reports per-field problems with a request.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError returns an empty ValidationError ready for Add.
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

// Invalid is a one-field shortcut.
func Invalid(field, msg string) *ValidationError {
	v := NewValidationError()
	v.Add(field, msg)
	return v
}

// Add records msg for field unless field already has one.
func (e *ValidationError) Add(field, msg string) {
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

// Has reports whether field failed.
func (e *ValidationError) Has(field string) bool {
	_, ok := e.Fields[field]
	return ok
}

// OrNil returns nil when no field failed so it can be returned directly.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "validation failed: " + strings.Join(keys, ", ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// ThrottledError is returned when a login code was requested too recently.
type ThrottledError struct {
	RemainingSeconds int
}

func (e *ThrottledError) Error() string {
	return fmt.Sprintf("login code already sent, retry in %d seconds", e.RemainingSeconds)
}

func (e *ThrottledError) Is(target error) bool { return target == ErrThrottledResend }
