package controller

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/api-sage/core-ledger/internal/commons"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// Business-rule failures map onto client statuses; anything unrecognized is
// a server fault.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, commons.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, commons.ErrAuthenticationFailed):
		return http.StatusUnauthorized
	case errors.Is(err, commons.ErrDuplicateUsername):
		return http.StatusConflict
	case errors.Is(err, commons.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity
	case errors.Is(err, commons.ErrInvalidAmount), errors.Is(err, commons.ErrSameAccount):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
