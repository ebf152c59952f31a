package chat

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/salillakra/e-summit26-sub001/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 64
)

// MessagePoster persists an inbound chat message and returns the stored row.
// Satisfied by services.ChatService.
type MessagePoster interface {
	PostMessage(ctx context.Context, eventID, userID int, body string) (*models.Message, error)
}

// Envelope is the wire format for outbound websocket frames.
type Envelope struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// inbound is the wire format clients send.
type inbound struct {
	Body string `json:"body"`
}

type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	eventID int
	userID  int

	mu     sync.Mutex
	closed bool
}

func NewClient(hub *Hub, conn *websocket.Conn, eventID, userID int) *Client {
	return &Client{
		hub:     hub,
		conn:    conn,
		send:    make(chan []byte, sendBufferSize),
		eventID: eventID,
		userID:  userID,
	}
}

// Hub fans chat messages out to the clients connected to each event's room.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	rooms      map[int]map[*Client]bool
	mu         sync.RWMutex
	poster     MessagePoster
	logger     *slog.Logger
}

func NewHub(poster MessagePoster, logger *slog.Logger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		rooms:      make(map[int]map[*Client]bool),
		poster:     poster,
		logger:     logger,
	}
}

func (h *Hub) Register(c *Client) { h.register <- c }

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if _, ok := h.rooms[client.eventID]; !ok {
				h.rooms[client.eventID] = make(map[*Client]bool)
			}
			h.rooms[client.eventID][client] = true
			h.logger.Info("chat client joined",
				slog.Int("event_id", client.eventID),
				slog.Int("user_id", client.userID),
				slog.Int("room_size", len(h.rooms[client.eventID])))
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if room, ok := h.rooms[client.eventID]; ok {
				if _, inRoom := room[client]; inRoom {
					client.closeSend()
					delete(room, client)
					if len(room) == 0 {
						delete(h.rooms, client.eventID)
					}
					h.logger.Info("chat client left",
						slog.Int("event_id", client.eventID),
						slog.Int("user_id", client.userID))
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastToRoom sends the envelope to every client in the event's room.
func (h *Hub) BroadcastToRoom(eventID int, envelope Envelope) {
	payload, err := json.Marshal(envelope)
	if err != nil {
		h.logger.Error("failed to marshal chat envelope", slog.Any("error", err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.rooms[eventID] {
		client.mu.Lock()
		if client.closed {
			client.mu.Unlock()
			continue
		}
		select {
		case client.send <- payload:
		default:
			// Slow consumer; drop the frame rather than block the room.
		}
		client.mu.Unlock()
	}
}

func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		close(c.send)
		c.closed = true
	}
}

// ReadPump consumes inbound frames, persists each message through the
// poster and broadcasts the stored row to the room.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("chat connection closed unexpectedly",
					slog.Int("event_id", c.eventID), slog.Any("error", err))
			}
			break
		}

		var in inbound
		if err := json.Unmarshal(raw, &in); err != nil {
			continue
		}

		msg, err := c.hub.poster.PostMessage(context.Background(), c.eventID, c.userID, in.Body)
		if err != nil {
			c.hub.logger.Warn("failed to post chat message",
				slog.Int("event_id", c.eventID),
				slog.Int("user_id", c.userID),
				slog.Any("error", err))
			continue
		}

		c.hub.BroadcastToRoom(c.eventID, Envelope{Type: "MESSAGE", Payload: msg})
	}
}

// WritePump drains the send channel to the connection and keeps it alive
// with periodic pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Flush anything already queued in the same frame batch.
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
