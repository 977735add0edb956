// Package client is the HTTP client of the files API used by filesctl.
//
// Every call takes a context and returns an *APIError for non-2xx answers;
// match it with errors.Is against common.ErrUnauthorized,
// common.ErrInvalidCredentials, common.ErrNotFound or
// common.ErrValidationFailed. Transport failures wrap ErrUnavailable.
package client
