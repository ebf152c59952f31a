package models

import "time"

// EventStatus represents event lifecycle statuses, matching the ENUM in the DB.
type EventStatus string

const (
	EventStatusUpcoming  EventStatus = "upcoming"
	EventStatusOngoing   EventStatus = "ongoing"
	EventStatusCompleted EventStatus = "completed"
	EventStatusCanceled  EventStatus = "canceled"
)

// Default team size bounds applied when an event row leaves them unset.
const (
	DefaultMinTeamSize = 2
	DefaultMaxTeamSize = 4
)

type Event struct {
	ID          int         `json:"id" db:"id"`
	Name        string      `json:"name" db:"name"`
	Category    string      `json:"category" db:"category"`
	Description *string     `json:"description,omitempty" db:"description"`
	MinTeamSize int         `json:"min_team_size" db:"min_team_size"`
	MaxTeamSize int         `json:"max_team_size" db:"max_team_size"`
	Status      EventStatus `json:"status" db:"status"`
	StartDate   time.Time   `json:"start_date" db:"start_date"`
	EndDate     time.Time   `json:"end_date" db:"end_date"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
}

// SizeBounds returns the event's team size window, falling back to the
// platform defaults when the row has no explicit bounds.
func (e *Event) SizeBounds() (min, max int) {
	min, max = e.MinTeamSize, e.MaxTeamSize
	if min <= 0 {
		min = DefaultMinTeamSize
	}
	if max <= 0 {
		max = DefaultMaxTeamSize
	}
	return min, max
}
