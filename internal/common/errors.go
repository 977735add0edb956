// Package common defines sentinel errors and small helpers shared by the
// server, the HTTP client and the CLI. Callers should use errors.Is to match
// these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Authentication errors.
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnsupportedScheme  = errors.New("unsupported password hash scheme")

	// Session store errors.
	ErrSessionNotFound = errors.New("session not found")

	// Validation errors. The upload field errors wrap ErrValidationFailed.
	ErrValidationFailed = errors.New("validation failed")
	ErrMissingName      = fmt.Errorf("%w: missing name", ErrValidationFailed)
	ErrMissingType      = fmt.Errorf("%w: missing type", ErrValidationFailed)
	ErrMissingData      = fmt.Errorf("%w: missing data", ErrValidationFailed)
	ErrMissingEmail     = fmt.Errorf("%w: missing email", ErrValidationFailed)
	ErrMissingPassword  = fmt.Errorf("%w: missing password", ErrValidationFailed)

	// File hierarchy errors.
	ErrParentNotFound   = errors.New("parent not found")
	ErrParentNotAFolder = errors.New("parent is not a folder")
	ErrNotFound         = errors.New("file not found")
	ErrInvalidOperation = errors.New("a folder doesn't have content")
)
