package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/filesmanager/internal/common"
)

const reasonInternal = "Internal server error"

var errRequestTooLarge = errors.New("request too large")

// errorTable maps service errors to a status and the reason sent to the
// client. The first match wins, so wrapped errors go before their parents.
var errorTable = []struct {
	err    error
	status int
	reason string
}{
	{common.ErrMissingName, http.StatusBadRequest, "Missing name"},
	{common.ErrMissingType, http.StatusBadRequest, "Missing type"},
	{common.ErrMissingData, http.StatusBadRequest, "Missing data"},
	{common.ErrMissingEmail, http.StatusBadRequest, "Missing email"},
	{common.ErrMissingPassword, http.StatusBadRequest, "Missing password"},
	{common.ErrValidationFailed, http.StatusBadRequest, "Invalid request"},
	{common.ErrParentNotFound, http.StatusBadRequest, "Parent not found"},
	{common.ErrParentNotAFolder, http.StatusBadRequest, "Parent is not a folder"},
	{common.ErrorAlreadyExists, http.StatusBadRequest, "Already exist"},
	{common.ErrInvalidOperation, http.StatusBadRequest, "A folder doesn't have content"},
	{common.ErrUnauthorized, http.StatusUnauthorized, "Unauthorized"},
	{common.ErrInvalidCredentials, http.StatusForbidden, "Invalid credentials"},
	{common.ErrNotFound, http.StatusNotFound, "Not found"},
	{errRequestTooLarge, http.StatusRequestEntityTooLarge, "Request too large"},
}

type errorBody struct {
	Error string `json:"error"`
}

func mapError(err error) (int, string) {
	for _, e := range errorTable {
		if errors.Is(err, e.err) {
			return e.status, e.reason
		}
	}
	return http.StatusInternalServerError, reasonInternal
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status, reason := mapError(err)
	writeJSON(w, status, errorBody{Error: reason})
}
