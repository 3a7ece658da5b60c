// Package apperr holds the error taxonomy shared by the API and its client.
package apperr

import (
	"errors"
	"net/http"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("not found")
	ErrAlreadyRegistered  = errors.New("already registered for this event")
	ErrConflict           = errors.New("already exists")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
)

// Wire codes carried in the "code" field of error bodies.
const (
	CodeInvalidCredentials = "invalid_credentials"
	CodeValidation         = "validation_error"
	CodeNotFound           = "not_found"
	CodeAlreadyRegistered  = "already_registered"
	CodeConflict           = "conflict"
	CodeUnauthorized       = "unauthorized"
	CodeForbidden          = "forbidden"
	CodeBadRequest         = "bad_request"
	CodeInternal           = "internal_error"
	CodeRateLimited        = "rate_limited"
)

type kind struct {
	err    error
	code   string
	status int
}

var kinds = []kind{
	{ErrInvalidCredentials, CodeInvalidCredentials, http.StatusUnauthorized},
	{ErrValidation, CodeValidation, http.StatusBadRequest},
	{ErrNotFound, CodeNotFound, http.StatusNotFound},
	{ErrAlreadyRegistered, CodeAlreadyRegistered, http.StatusConflict},
	{ErrConflict, CodeConflict, http.StatusConflict},
	{ErrUnauthorized, CodeUnauthorized, http.StatusUnauthorized},
	{ErrForbidden, CodeForbidden, http.StatusForbidden},
}

// Classify returns the wire code and HTTP status for err.
// Errors outside the taxonomy map to internal_error / 500.
func Classify(err error) (code string, status int) {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.code, k.status
		}
	}
	return CodeInternal, http.StatusInternalServerError
}

// FromCode is the inverse of Classify, used by the client.
func FromCode(code string) error {
	for _, k := range kinds {
		if k.code == code {
			return k.err
		}
	}
	return nil
}

// FieldError wraps a validation detail so callers can both errors.Is(err, ErrValidation)
// and read the offending fields.
type FieldError struct {
	Details error
}

func (e *FieldError) Error() string { return ErrValidation.Error() + ": " + e.Details.Error() }

func (e *FieldError) Unwrap() []error { return []error{ErrValidation, e.Details} }

func Validation(details error) error { return &FieldError{Details: details} }
