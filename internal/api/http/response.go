package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"nftflow-backend/internal/logger"
	"nftflow-backend/internal/registry"
	"nftflow-backend/internal/repository"
	"nftflow-backend/internal/service"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			logger.Error("Failed to encode response", "error", err)
		}
	}
}

// writeError maps engine errors onto HTTP statuses. Precondition failures
// are 400, conflicts 409, authorization 403. Anything unmapped is a 500 with
// the detail kept out of the response body.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, registry.ErrUnknownAsset):
		status = http.StatusNotFound
	case errors.Is(err, repository.ErrVersionConflict),
		errors.Is(err, service.ErrAssetUnavailable),
		errors.Is(err, service.ErrEmailTaken):
		status = http.StatusConflict
	case errors.Is(err, service.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrNotAuthorized),
		errors.Is(err, service.ErrNotAssetOwner),
		errors.Is(err, service.ErrBlacklisted):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrInsufficientFunds):
		status = http.StatusPaymentRequired
	case errors.Is(err, service.ErrInvalidDurationRange),
		errors.Is(err, service.ErrInvalidListingPrice),
		errors.Is(err, service.ErrDurationOutOfRange),
		errors.Is(err, service.ErrTooEarly),
		errors.Is(err, service.ErrRecoveryPeriodNotReached),
		errors.Is(err, service.ErrCancelWindowPassed),
		errors.Is(err, service.ErrDisputeWindowClosed),
		errors.Is(err, service.ErrInvalidWindow),
		errors.Is(err, service.ErrInvalidDeposit),
		errors.Is(err, service.ErrExceedsAvailable),
		errors.Is(err, service.ErrNotActive),
		errors.Is(err, service.ErrAlreadyFinalized),
		errors.Is(err, service.ErrInvalidState):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		logger.Error("Request failed", "error", err)
		writeJSON(w, status, errorResponse{Error: "internal error"})
		return
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
