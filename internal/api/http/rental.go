package http

import (
	"net/http"
	"time"

	"nftflow-backend/internal/domain"
	"nftflow-backend/internal/service"
)

type RentalHandler struct {
	rentals service.RentalService
}

func NewRentalHandler(rentals service.RentalService) *RentalHandler {
	return &RentalHandler{rentals: rentals}
}

func (h *RentalHandler) Rent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ListingID int32 `json:"listing_id"`
		Duration  int64 `json:"duration"` // seconds
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	rental, err := h.rentals.Rent(r.Context(), callerID(r), req.ListingID, req.Duration, time.Now().Unix())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rental)
}

func (h *RentalHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid rental id"})
		return
	}
	rental, err := h.rentals.Complete(r.Context(), callerID(r), id, time.Now().Unix())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

func (h *RentalHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid rental id"})
		return
	}
	var req struct {
		Reason string `json:"reason"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	rental, err := h.rentals.Cancel(r.Context(), callerID(r), id, req.Reason, time.Now().Unix())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

func (h *RentalHandler) OpenDispute(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid rental id"})
		return
	}
	var req struct {
		Reason string `json:"reason"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	dispute, err := h.rentals.OpenDispute(r.Context(), callerID(r), id, req.Reason, time.Now().Unix())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dispute)
}

func (h *RentalHandler) ResolveDispute(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid rental id"})
		return
	}
	var req struct {
		FavorTenant  bool  `json:"favor_tenant"`
		RefundAmount int64 `json:"refund_amount"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	rental, err := h.rentals.ResolveDispute(r.Context(), callerID(r), id, req.FavorTenant, req.RefundAmount, time.Now().Unix())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

func (h *RentalHandler) Recover(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Contract string `json:"contract"`
		TokenID  string `json:"token_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	asset := domain.AssetRef{Contract: req.Contract, TokenID: req.TokenID}
	rental, err := h.rentals.EmergencyRecover(r.Context(), callerID(r), asset, time.Now().Unix())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

func (h *RentalHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid rental id"})
		return
	}
	rental, err := h.rentals.GetRental(r.Context(), callerID(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

func (h *RentalHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	state := r.URL.Query().Get("state")
	rentals, total, err := h.rentals.ListRentals(r.Context(), callerID(r), state, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"rentals": rentals,
		"total":   total,
		"page":    page,
	})
}

func (h *RentalHandler) ListLendings(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	state := r.URL.Query().Get("state")
	rentals, total, err := h.rentals.ListLendings(r.Context(), callerID(r), state, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"rentals": rentals,
		"total":   total,
		"page":    page,
	})
}
