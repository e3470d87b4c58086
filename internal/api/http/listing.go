package http

import (
	"net/http"

	"nftflow-backend/internal/domain"
	"nftflow-backend/internal/service"
)

type ListingHandler struct {
	rentals service.RentalService
}

func NewListingHandler(rentals service.RentalService) *ListingHandler {
	return &ListingHandler{rentals: rentals}
}

type createListingRequest struct {
	Contract           string `json:"contract"`
	TokenID            string `json:"token_id"`
	BasePricePerSecond int64  `json:"base_price_per_second"`
	MinDuration        int64  `json:"min_duration"`
	MaxDuration        int64  `json:"max_duration"`
	CollateralBasis    int64  `json:"collateral_basis"`
	RoyaltyBps         int32  `json:"royalty_bps"`
	RoyaltyRecipientID *int32 `json:"royalty_recipient_id,omitempty"`
}

func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createListingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	listing, err := h.rentals.ListForRental(r.Context(), callerID(r), service.ListingParams{
		Asset:              domain.AssetRef{Contract: req.Contract, TokenID: req.TokenID},
		BasePricePerSecond: req.BasePricePerSecond,
		MinDuration:        req.MinDuration,
		MaxDuration:        req.MaxDuration,
		CollateralBasis:    req.CollateralBasis,
		RoyaltyBps:         req.RoyaltyBps,
		RoyaltyRecipientID: req.RoyaltyRecipientID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, listing)
}

func (h *ListingHandler) Delist(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid listing id"})
		return
	}
	listing, err := h.rentals.Delist(r.Context(), callerID(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

func (h *ListingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid listing id"})
		return
	}
	listing, err := h.rentals.GetListing(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

func (h *ListingHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	activeOnly := r.URL.Query().Get("active") != "false"
	listings, total, err := h.rentals.ListListings(r.Context(), activeOnly, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"listings": listings,
		"total":    total,
		"page":     page,
	})
}
