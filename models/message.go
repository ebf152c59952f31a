package models

import "time"

// Message is a chat message posted in an event's room.
type Message struct {
	ID        int       `json:"id" db:"id"`
	EventID   int       `json:"event_id" db:"event_id"`
	UserID    int       `json:"user_id" db:"user_id"`
	Body      string    `json:"body" db:"body"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Sender *User `json:"sender,omitempty" db:"-"`
}
