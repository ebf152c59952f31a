package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/salillakra/e-summit26-sub001/models"
	"github.com/salillakra/e-summit26-sub001/repositories"
)

const (
	teamNameMinLength = 3
	teamNameMaxLength = 40

	// Join codes avoid characters that are easy to confuse when read aloud
	// or copied by hand (0/O, 1/I).
	joinCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	joinCodeLength   = 6
	joinCodeMinInput = 4

	// Hard ceiling on accepted members per team, independent of any event's
	// own max_team_size.
	teamMemberHardCap = 5

	// Attempts to find a free join code before giving up. At 32^6 codes a
	// collision streak this long should never happen in practice.
	joinCodeMaxAttempts = 8
)

type CreateTeamInput struct {
	Name string `json:"name"`
}

// TeamForEventView is the membership snapshot returned to a user for an
// event's team page.
type TeamForEventView struct {
	Status  models.MemberStatus  `json:"status,omitempty"`
	HasTeam bool                 `json:"has_team"`
	Team    *models.Team         `json:"team,omitempty"`
	Members []*models.TeamMember `json:"members,omitempty"`
	Pending []*models.TeamMember `json:"pending,omitempty"`
}

type TeamService interface {
	CreateTeam(ctx context.Context, input CreateTeamInput, creatorID int) (*models.Team, error)
	JoinByCode(ctx context.Context, code string, userID int) (*models.Team, error)
	ApproveMember(ctx context.Context, teamID, userID, currentUserID int) error
	DeleteTeam(ctx context.Context, teamID, currentUserID int) error
	GetTeamForEvent(ctx context.Context, eventID, currentUserID int) (*TeamForEventView, error)
}

type teamService struct {
	teamRepo   repositories.TeamRepository
	memberRepo repositories.MembershipRepository
	eventRepo  repositories.EventRepository
}

func NewTeamService(
	teamRepo repositories.TeamRepository,
	memberRepo repositories.MembershipRepository,
	eventRepo repositories.EventRepository,
) TeamService {
	return &teamService{
		teamRepo:   teamRepo,
		memberRepo: memberRepo,
		eventRepo:  eventRepo,
	}
}

func generateJoinCode() (string, error) {
	buf := make([]byte, joinCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes for join code: %w", err)
	}
	for i, b := range buf {
		buf[i] = joinCodeAlphabet[int(b)%len(joinCodeAlphabet)]
	}
	return string(buf), nil
}

// normalizeJoinCode uppercases the input, strips anything that is not a
// letter or digit, and caps the result at the code length.
func normalizeJoinCode(code string) string {
	var sb strings.Builder
	sb.Grow(joinCodeLength)
	for _, r := range strings.ToUpper(code) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
			if sb.Len() == joinCodeLength {
				break
			}
		}
	}
	return sb.String()
}

func (s *teamService) CreateTeam(ctx context.Context, input CreateTeamInput, creatorID int) (*models.Team, error) {
	name := strings.TrimSpace(input.Name)
	if n := utf8.RuneCountInString(name); n < teamNameMinLength || n > teamNameMaxLength {
		return nil, ErrTeamNameInvalid
	}

	if err := s.ensureNoActiveTeam(ctx, creatorID); err != nil {
		return nil, err
	}

	for attempt := 0; attempt < joinCodeMaxAttempts; attempt++ {
		code, err := generateJoinCode()
		if err != nil {
			return nil, err
		}

		team := &models.Team{
			Name:     name,
			Slug:     code,
			LeaderID: creatorID,
		}

		err = s.teamRepo.CreateWithLeader(ctx, team)
		if err == nil {
			return team, nil
		}
		if errors.Is(err, repositories.ErrTeamSlugConflict) {
			continue
		}
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	return nil, fmt.Errorf("%w after %d attempts", ErrJoinCodeExhausted, joinCodeMaxAttempts)
}

func (s *teamService) JoinByCode(ctx context.Context, code string, userID int) (*models.Team, error) {
	normalized := normalizeJoinCode(code)
	if len(normalized) < joinCodeMinInput {
		return nil, ErrJoinCodeInvalid
	}

	team, err := s.teamRepo.GetBySlug(ctx, normalized)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to look up team by join code: %w", err)
	}

	if team.LeaderID == userID {
		return nil, ErrCannotJoinOwnTeam
	}

	// A membership elsewhere blocks the join; one on this team makes the
	// request a resubmission. An accepted member stays accepted, a pending
	// applicant falls through to the upsert, which leaves the single
	// pending row in place.
	existing, err := s.memberRepo.FindActiveByUser(ctx, userID)
	if err != nil && !errors.Is(err, repositories.ErrMembershipNotFound) {
		return nil, fmt.Errorf("failed to check active membership for user %d: %w", userID, err)
	}
	if existing != nil {
		if existing.TeamID != team.ID {
			return nil, ErrAlreadyInTeam
		}
		if existing.Status == models.MemberStatusAccepted {
			return team, nil
		}
	}

	// The hard cap gates new applicants only; a resubmission adds nothing.
	if existing == nil {
		accepted, err := s.memberRepo.CountAccepted(ctx, team.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count members of team %d: %w", team.ID, err)
		}
		if accepted >= teamMemberHardCap {
			return nil, ErrTeamFull
		}
	}

	// Upsert keyed on (team_id, user_id): resubmitting the code reruns the
	// same write and leaves one pending row.
	member := &models.TeamMember{
		TeamID: team.ID,
		UserID: userID,
		Role:   models.MemberRoleMember,
		Status: models.MemberStatusPending,
	}
	if err := s.memberRepo.Upsert(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to submit join request for team %d: %w", team.ID, err)
	}

	return team, nil
}

func (s *teamService) ApproveMember(ctx context.Context, teamID, userID, currentUserID int) error {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to get team %d: %w", teamID, err)
	}

	if team.LeaderID != currentUserID {
		return ErrLeaderActionForbidden
	}

	maxSize := models.DefaultMaxTeamSize
	if team.EventID != nil {
		event, err := s.eventRepo.GetByID(ctx, *team.EventID)
		if err != nil && !errors.Is(err, repositories.ErrEventNotFound) {
			return fmt.Errorf("failed to resolve event %d for team %d: %w", *team.EventID, teamID, err)
		}
		if event != nil {
			_, maxSize = event.SizeBounds()
		}
	}

	accepted, err := s.memberRepo.CountAccepted(ctx, teamID)
	if err != nil {
		return fmt.Errorf("failed to count members of team %d: %w", teamID, err)
	}
	if accepted >= maxSize {
		return ErrTeamFull
	}

	if err := s.memberRepo.Approve(ctx, teamID, userID); err != nil {
		if errors.Is(err, repositories.ErrMembershipNotPending) {
			return ErrApproveFailed
		}
		return fmt.Errorf("failed to approve member %d on team %d: %w", userID, teamID, err)
	}
	return nil
}

func (s *teamService) DeleteTeam(ctx context.Context, teamID, currentUserID int) error {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to get team %d: %w", teamID, err)
	}

	if team.LeaderID != currentUserID {
		return ErrOnlyLeaderCanDelete
	}

	if err := s.teamRepo.DeleteCascade(ctx, teamID); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to delete team %d: %w", teamID, err)
	}
	return nil
}

func (s *teamService) GetTeamForEvent(ctx context.Context, eventID, currentUserID int) (*TeamForEventView, error) {
	membership, err := s.memberRepo.FindActiveByUser(ctx, currentUserID)
	if err != nil {
		if errors.Is(err, repositories.ErrMembershipNotFound) {
			return &TeamForEventView{HasTeam: false}, nil
		}
		return nil, fmt.Errorf("failed to find membership for user %d: %w", currentUserID, err)
	}

	team, err := s.teamRepo.GetByID(ctx, membership.TeamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return &TeamForEventView{HasTeam: false}, nil
		}
		return nil, fmt.Errorf("failed to get team %d: %w", membership.TeamID, err)
	}

	// A team bound to a different event does not show on this event's page.
	if team.EventID != nil && *team.EventID != eventID {
		return &TeamForEventView{HasTeam: false}, nil
	}

	members, err := s.memberRepo.ListByTeam(ctx, team.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members of team %d: %w", team.ID, err)
	}

	view := &TeamForEventView{
		Status:  membership.Status,
		HasTeam: true,
		Team:    team,
		Members: make([]*models.TeamMember, 0),
		Pending: make([]*models.TeamMember, 0),
	}
	for _, m := range members {
		if m.User != nil {
			m.User.PasswordHash = ""
		}
		switch m.Status {
		case models.MemberStatusAccepted:
			view.Members = append(view.Members, m)
		case models.MemberStatusPending:
			view.Pending = append(view.Pending, m)
		}
	}
	return view, nil
}

func (s *teamService) ensureNoActiveTeam(ctx context.Context, userID int) error {
	_, err := s.memberRepo.FindActiveByUser(ctx, userID)
	if err == nil {
		return ErrAlreadyInTeam
	}
	if errors.Is(err, repositories.ErrMembershipNotFound) {
		return nil
	}
	return fmt.Errorf("failed to check active membership for user %d: %w", userID, err)
}
