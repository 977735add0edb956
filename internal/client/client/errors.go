package client

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/filesmanager/internal/common"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = common.ErrUnauthorized
)

// APIError is a non-2xx answer of the server. It unwraps to the matching
// sentinel from internal/common so callers can use errors.Is.
type APIError struct {
	StatusCode int
	Reason     string
}

func (e *APIError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Reason)
}

func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return common.ErrUnauthorized
	case http.StatusForbidden:
		return common.ErrInvalidCredentials
	case http.StatusNotFound:
		return common.ErrNotFound
	case http.StatusBadRequest:
		return common.ErrValidationFailed
	}
	return nil
}
