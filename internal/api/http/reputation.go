package http

import (
	"net/http"

	"nftflow-backend/internal/service"
)

type ReputationHandler struct {
	reputation service.ReputationService
}

func NewReputationHandler(reputation service.ReputationService) *ReputationHandler {
	return &ReputationHandler{reputation: reputation}
}

func (h *ReputationHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "user_id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid user id"})
		return
	}
	rep, err := h.reputation.GetReputation(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	multiplier, err := h.reputation.CollateralMultiplier(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	rate, err := h.reputation.SuccessRate(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"reputation":                rep,
		"collateral_multiplier_bps": multiplier,
		"success_rate_percent":      rate,
	})
}

func (h *ReputationHandler) SetBlacklisted(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "user_id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid user id"})
		return
	}
	var req struct {
		Blacklisted bool `json:"blacklisted"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if err := h.reputation.SetBlacklisted(r.Context(), callerID(r), userID, req.Blacklisted); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user_id":     userID,
		"blacklisted": req.Blacklisted,
	})
}

func (h *ReputationHandler) ListAchievements(w http.ResponseWriter, r *http.Request) {
	achievements, err := h.reputation.ListAchievements(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"achievements": achievements})
}
