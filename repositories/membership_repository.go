package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/salillakra/e-summit26-sub001/models"
)

var (
	ErrMembershipNotFound    = errors.New("team membership not found")
	ErrMembershipNotPending  = errors.New("team membership is not pending")
	ErrMembershipTeamInvalid = errors.New("membership team conflict or invalid")
	ErrMembershipUserInvalid = errors.New("membership user conflict or invalid")
)

type MembershipRepository interface {
	// Upsert writes a membership row keyed on (team_id, user_id), overwriting
	// any previous row for the pair. Used by join requests so a rejected or
	// cancelled applicant can re-apply.
	Upsert(ctx context.Context, member *models.TeamMember) error

	// Approve transitions the (team_id, user_id) row from pending to
	// accepted. Returns ErrMembershipNotPending when no pending row matched.
	Approve(ctx context.Context, teamID, userID int) error

	// FindActiveByUser returns the user's membership with status pending or
	// accepted, if any. At most one such row exists per user.
	FindActiveByUser(ctx context.Context, userID int) (*models.TeamMember, error)

	CountAccepted(ctx context.Context, teamID int) (int, error)
	CountAcceptedByTeams(ctx context.Context, teamIDs []int) (map[int]int, error)
	ListByTeam(ctx context.Context, teamID int) ([]*models.TeamMember, error)
	IsAcceptedMember(ctx context.Context, teamID, userID int) (bool, error)
}

type postgresMembershipRepository struct {
	db *sql.DB
}

func NewPostgresMembershipRepository(db *sql.DB) MembershipRepository {
	return &postgresMembershipRepository{db: db}
}

func (r *postgresMembershipRepository) Upsert(ctx context.Context, member *models.TeamMember) error {
	query := `
		INSERT INTO team_members (team_id, user_id, role, status)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (team_id, user_id)
		DO UPDATE SET role = EXCLUDED.role, status = EXCLUDED.status, joined_at = NOW()
		RETURNING joined_at`

	err := r.db.QueryRowContext(ctx, query,
		member.TeamID,
		member.UserID,
		member.Role,
		member.Status,
	).Scan(&member.JoinedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			switch pqErr.Constraint {
			case "team_members_team_id_fkey":
				return ErrMembershipTeamInvalid
			case "team_members_user_id_fkey":
				return ErrMembershipUserInvalid
			}
		}
		return fmt.Errorf("failed to upsert team membership: %w", err)
	}
	return nil
}

func (r *postgresMembershipRepository) Approve(ctx context.Context, teamID, userID int) error {
	query := `
		UPDATE team_members
		SET status = $1
		WHERE team_id = $2 AND user_id = $3 AND status = $4`

	result, err := r.db.ExecContext(ctx, query,
		models.MemberStatusAccepted,
		teamID,
		userID,
		models.MemberStatusPending,
	)
	if err != nil {
		return fmt.Errorf("failed to approve membership: %w", err)
	}
	return checkAffectedRows(result, ErrMembershipNotPending)
}

func (r *postgresMembershipRepository) FindActiveByUser(ctx context.Context, userID int) (*models.TeamMember, error) {
	query := `
		SELECT team_id, user_id, role, status, joined_at
		FROM team_members
		WHERE user_id = $1 AND status IN ($2, $3)
		LIMIT 1`

	member := &models.TeamMember{}
	err := r.db.QueryRowContext(ctx, query,
		userID,
		models.MemberStatusPending,
		models.MemberStatusAccepted,
	).Scan(
		&member.TeamID,
		&member.UserID,
		&member.Role,
		&member.Status,
		&member.JoinedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMembershipNotFound
		}
		return nil, fmt.Errorf("failed to find active membership: %w", err)
	}
	return member, nil
}

func (r *postgresMembershipRepository) CountAccepted(ctx context.Context, teamID int) (int, error) {
	query := `SELECT COUNT(*) FROM team_members WHERE team_id = $1 AND status = $2`

	var count int
	err := r.db.QueryRowContext(ctx, query, teamID, models.MemberStatusAccepted).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count accepted members: %w", err)
	}
	return count, nil
}

func (r *postgresMembershipRepository) CountAcceptedByTeams(ctx context.Context, teamIDs []int) (map[int]int, error) {
	counts := make(map[int]int, len(teamIDs))
	if len(teamIDs) == 0 {
		return counts, nil
	}

	query := `
		SELECT team_id, COUNT(*)
		FROM team_members
		WHERE team_id = ANY($1) AND status = $2
		GROUP BY team_id`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(teamIDs), models.MemberStatusAccepted)
	if err != nil {
		return nil, fmt.Errorf("failed to count accepted members by team: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var teamID, count int
		if scanErr := rows.Scan(&teamID, &count); scanErr != nil {
			return nil, scanErr
		}
		counts[teamID] = count
	}
	return counts, rows.Err()
}

func (r *postgresMembershipRepository) ListByTeam(ctx context.Context, teamID int) ([]*models.TeamMember, error) {
	query := `
		SELECT m.team_id, m.user_id, m.role, m.status, m.joined_at,
		       u.id, u.first_name, u.last_name, u.email, u.role, u.created_at
		FROM team_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.team_id = $1
		ORDER BY m.joined_at ASC`

	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}
	defer rows.Close()

	members := make([]*models.TeamMember, 0)
	for rows.Next() {
		member := &models.TeamMember{User: &models.User{}}
		if scanErr := rows.Scan(
			&member.TeamID,
			&member.UserID,
			&member.Role,
			&member.Status,
			&member.JoinedAt,
			&member.User.ID,
			&member.User.FirstName,
			&member.User.LastName,
			&member.User.Email,
			&member.User.Role,
			&member.User.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		members = append(members, member)
	}
	return members, rows.Err()
}

func (r *postgresMembershipRepository) IsAcceptedMember(ctx context.Context, teamID, userID int) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM team_members
			WHERE team_id = $1 AND user_id = $2 AND status = $3
		)`

	var accepted bool
	err := r.db.QueryRowContext(ctx, query, teamID, userID, models.MemberStatusAccepted).Scan(&accepted)
	if err != nil {
		return false, fmt.Errorf("failed to check team membership: %w", err)
	}
	return accepted, nil
}
