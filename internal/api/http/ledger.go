package http

import (
	"net/http"

	"nftflow-backend/internal/service"
)

type LedgerHandler struct {
	ledger service.LedgerService
}

func NewLedgerHandler(ledger service.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledger: ledger}
}

func (h *LedgerHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.ledger.GetBalance(r.Context(), callerID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"balance": balance})
}

func (h *LedgerHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	entries, total, err := h.ledger.ListEntries(r.Context(), callerID(r), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"entries": entries,
		"total":   total,
		"page":    page,
	})
}

func (h *LedgerHandler) Credit(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "user_id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid user id"})
		return
	}
	var req struct {
		Amount int64  `json:"amount"`
		Memo   string `json:"memo"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if err := h.ledger.Credit(r.Context(), callerID(r), userID, req.Amount, req.Memo); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user_id":  userID,
		"credited": req.Amount,
	})
}
