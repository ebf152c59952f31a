package handlers

import (
	"net/http"

	"github.com/salillakra/e-summit26-sub001/models"
	"github.com/salillakra/e-summit26-sub001/services"
)

type EventHandler struct {
	eventService services.EventService
}

func NewEventHandler(es services.EventService) *EventHandler {
	return &EventHandler{eventService: es}
}

func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	var statusFilter *models.EventStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := models.EventStatus(raw)
		statusFilter = &status
	}

	events, err := h.eventService.ListEvents(r.Context(), statusFilter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"events": events}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *EventHandler) GetEventByID(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	event, err := h.eventService.GetEventByID(r.Context(), eventID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"event": event}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
