package handlers

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/salillakra/e-summit26-sub001/chat"
	"github.com/salillakra/e-summit26-sub001/middleware"
	"github.com/salillakra/e-summit26-sub001/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: restrict to the frontend origin before the summit goes live.
		return true
	},
}

type ChatHandler struct {
	hub          *chat.Hub
	chatService  services.ChatService
	eventService services.EventService
}

func NewChatHandler(hub *chat.Hub, cs services.ChatService, es services.EventService) *ChatHandler {
	return &ChatHandler{
		hub:          hub,
		chatService:  cs,
		eventService: es,
	}
}

// Connect upgrades the request to a websocket and joins the event's room.
func (h *ChatHandler) Connect(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	if _, err := h.eventService.GetEventByID(r.Context(), eventID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written its own response.
		return
	}

	client := chat.NewClient(h.hub, conn, eventID, currentUserID)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}

// GetHistory returns the most recent messages for an event's room.
func (h *ChatHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	messages, err := h.chatService.GetHistory(r.Context(), eventID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"messages": messages}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
