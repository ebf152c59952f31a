package models

import "time"

type Team struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Slug      string    `json:"slug" db:"slug"`
	LeaderID  int       `json:"leader_id" db:"leader_id"`
	EventID   *int      `json:"event_id,omitempty" db:"event_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Leader  *User        `json:"leader,omitempty" db:"-"`
	Event   *Event       `json:"event,omitempty" db:"-"`
	Members []TeamMember `json:"members,omitempty" db:"-"`
}
