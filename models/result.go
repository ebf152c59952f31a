package models

import "time"

// EventResult is an organizer-declared ranking for a team in an event,
// unique on (event_id, team_id) and upserted by admins.
type EventResult struct {
	EventID    int       `json:"event_id" db:"event_id"`
	TeamID     int       `json:"team_id" db:"team_id"`
	Rank       int       `json:"rank" db:"rank"`
	Marks      int       `json:"marks" db:"marks"`
	DeclaredAt time.Time `json:"declared_at" db:"declared_at"`

	Team *Team `json:"team" db:"-"`

	// MemberCount is the team's accepted member count, populated only when
	// the leaderboard is requested with member decoration.
	MemberCount *int `json:"member_count,omitempty" db:"-"`
}
