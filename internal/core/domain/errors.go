package domain

import (
	"errors"
	"sort"
	"strings"
)

// Error kinds. Concrete errors wrap one of these so the transport layer can
// map them to a status code with errors.Is.
var (
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflict")
	ErrAuthentication = errors.New("authentication failed")
	ErrForbidden      = errors.New("access forbidden")
	ErrStorage        = errors.New("storage failure")
	ErrEmptyResult    = errors.New("empty result")
	ErrRateLimited    = errors.New("rate limited")
)

// Authentication errors.
var (
	ErrBadCredentials        = kindError(ErrAuthentication, "Bad credentials")
	ErrUnauthenticated       = kindError(ErrAuthentication, "full authentication is required to access this resource")
	ErrTokenMalformed        = kindError(ErrAuthentication, "malformed token")
	ErrTokenExpired          = kindError(ErrAuthentication, "token expired")
	ErrTokenInvalidSignature = kindError(ErrAuthentication, "invalid token signature")
	ErrTooManyAttempts       = kindError(ErrRateLimited, "too many sign-in attempts, try again later")
	ErrUserNotFound          = kindError(ErrNotFound, "user not found")
	ErrUserExists            = kindError(ErrConflict, "user already exists")
)

// Catalog errors.
var (
	ErrCategoryNotFound   = kindError(ErrNotFound, "category not found")
	ErrProductNotFound    = kindError(ErrNotFound, "product not found")
	ErrDuplicateCategory  = kindError(ErrConflict, "category already exists")
	ErrDuplicateProduct   = kindError(ErrConflict, "product already exists")
	ErrNoCategories       = kindError(ErrEmptyResult, "no categories found")
	ErrNoProducts         = kindError(ErrEmptyResult, "no products found")
	ErrNoMatch            = kindError(ErrEmptyResult, "no products found matching keyword")
	ErrImageStorageFailed = kindError(ErrStorage, "failed to store image")
)

// kindedError is a sentinel that reports both its own identity and its kind
// to errors.Is.
type kindedError struct {
	kind error
	msg  string
}

func kindError(kind error, msg string) error {
	return &kindedError{kind: kind, msg: msg}
}

func (e *kindedError) Error() string { return e.msg }

func (e *kindedError) Unwrap() error { return e.kind }

// ValidationError carries field-scoped validation failures keyed by the
// field name the client sent.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError builds a ValidationError with a single field.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// Add records a failure for field. The first message per field wins.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

// OrNil returns nil when no field failed, so callers can write
// `return v.OrNil()` without a typed-nil interface.
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

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
