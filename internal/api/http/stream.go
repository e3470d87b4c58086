package http

import (
	"net/http"
	"time"

	"nftflow-backend/internal/service"
)

type StreamHandler struct {
	streams service.StreamService
}

func NewStreamHandler(streams service.StreamService) *StreamHandler {
	return &StreamHandler{streams: streams}
}

func (h *StreamHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid stream id"})
		return
	}
	stream, err := h.streams.GetStream(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stream)
}

func (h *StreamHandler) Withdrawable(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid stream id"})
		return
	}
	at := time.Now().Unix()
	amount, err := h.streams.Withdrawable(r.Context(), id, at)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"stream_id":    id,
		"withdrawable": amount,
		"as_of":        at,
	})
}

func (h *StreamHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid stream id"})
		return
	}
	var req struct {
		Amount int64 `json:"amount"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	stream, err := h.streams.Withdraw(r.Context(), callerID(r), id, req.Amount, time.Now().Unix())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stream)
}

func (h *StreamHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid stream id"})
		return
	}
	stream, err := h.streams.Finalize(r.Context(), callerID(r), id, time.Now().Unix())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stream)
}

func (h *StreamHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid stream id"})
		return
	}
	stream, err := h.streams.Cancel(r.Context(), callerID(r), id, time.Now().Unix())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stream)
}
