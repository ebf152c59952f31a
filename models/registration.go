package models

import "time"

type RegistrationStatus string

const (
	RegistrationStatusConfirmed RegistrationStatus = "confirmed"
	RegistrationStatusCanceled  RegistrationStatus = "canceled"
)

// EventRegistration records a team's entry into an event, unique on
// (event_id, team_id). Submission artifact fields are stored verbatim.
type EventRegistration struct {
	ID              int                `json:"id" db:"id"`
	EventID         int                `json:"event_id" db:"event_id"`
	TeamID          int                `json:"team_id" db:"team_id"`
	UserID          int                `json:"user_id" db:"user_id"`
	Status          RegistrationStatus `json:"status" db:"status"`
	PresentationURL *string            `json:"presentation_url,omitempty" db:"presentation_url"`
	ProductPhotos   *string            `json:"product_photos_url,omitempty" db:"product_photos_url"`
	Achievements    *string            `json:"achievements,omitempty" db:"achievements"`
	VideoLink       *string            `json:"video_link,omitempty" db:"video_link"`
	FaultLinesPDF   *string            `json:"fault_lines_pdf,omitempty" db:"fault_lines_pdf"`
	RegisteredAt    time.Time          `json:"registered_at" db:"registered_at"`

	Team  *Team  `json:"team,omitempty" db:"-"`
	Event *Event `json:"event,omitempty" db:"-"`
}
