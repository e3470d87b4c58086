package http

import (
	"net/http"

	"nftflow-backend/internal/service"
)

type EventHandler struct {
	events service.EventService
}

func NewEventHandler(events service.EventService) *EventHandler {
	return &EventHandler{events: events}
}

func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	eventType := r.URL.Query().Get("type")
	events, total, err := h.events.ListEvents(r.Context(), eventType, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"events": events,
		"total":  total,
		"page":   page,
	})
}
