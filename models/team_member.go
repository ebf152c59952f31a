package models

import "time"

// MemberRole and MemberStatus correspond to the ENUMs on team_members.
type MemberRole string

const (
	MemberRoleLeader MemberRole = "leader"
	MemberRoleMember MemberRole = "member"
)

type MemberStatus string

const (
	MemberStatusPending  MemberStatus = "pending"
	MemberStatusAccepted MemberStatus = "accepted"
)

// TeamMember is keyed on (team_id, user_id); re-joining a team overwrites
// the previous row rather than adding a second one.
type TeamMember struct {
	TeamID   int          `json:"team_id" db:"team_id"`
	UserID   int          `json:"user_id" db:"user_id"`
	Role     MemberRole   `json:"role" db:"role"`
	Status   MemberStatus `json:"status" db:"status"`
	JoinedAt time.Time    `json:"joined_at" db:"joined_at"`

	User *User `json:"user,omitempty" db:"-"`
}
