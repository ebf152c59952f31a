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
	ErrTeamNotFound     = errors.New("team not found")
	ErrTeamSlugConflict = errors.New("team slug conflict")
	ErrTeamNameConflict = errors.New("team name conflict")
	ErrTeamEventInvalid = errors.New("team event conflict or invalid")
)

type TeamRepository interface {
	// CreateWithLeader inserts the team and the leader's accepted membership
	// row in a single transaction. On success the team's ID and CreatedAt
	// are populated.
	CreateWithLeader(ctx context.Context, team *models.Team) error

	GetByID(ctx context.Context, id int) (*models.Team, error)
	GetBySlug(ctx context.Context, slug string) (*models.Team, error)
	GetByIDs(ctx context.Context, ids []int) (map[int]*models.Team, error)

	// DeleteCascade removes the team's registrations and memberships ahead of
	// the team row itself, all inside one transaction. The team delete is the
	// authoritative success signal.
	DeleteCascade(ctx context.Context, teamID int) error

	Count(ctx context.Context) (int, error)
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) CreateWithLeader(ctx context.Context, team *models.Team) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin team create transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO teams (name, slug, leader_id, event_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err = tx.QueryRowContext(ctx, query,
		team.Name,
		team.Slug,
		team.LeaderID,
		team.EventID,
	).Scan(&team.ID, &team.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505":
				if pqErr.Constraint == "teams_slug_key" {
					return ErrTeamSlugConflict
				}
				return ErrTeamNameConflict
			case "23503":
				if pqErr.Constraint == "teams_event_id_fkey" {
					return ErrTeamEventInvalid
				}
			}
		}
		return fmt.Errorf("failed to create team: %w", err)
	}

	memberQuery := `
		INSERT INTO team_members (team_id, user_id, role, status)
		VALUES ($1, $2, $3, $4)`
	if _, err = tx.ExecContext(ctx, memberQuery,
		team.ID,
		team.LeaderID,
		models.MemberRoleLeader,
		models.MemberStatusAccepted,
	); err != nil {
		return fmt.Errorf("failed to create leader membership for team %d: %w", team.ID, err)
	}

	return tx.Commit()
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `
		SELECT id, name, slug, leader_id, event_id, created_at
		FROM teams
		WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresTeamRepository) GetBySlug(ctx context.Context, slug string) (*models.Team, error) {
	query := `
		SELECT id, name, slug, leader_id, event_id, created_at
		FROM teams
		WHERE slug = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, slug))
}

func (r *postgresTeamRepository) scanOne(row *sql.Row) (*models.Team, error) {
	team := &models.Team{}
	err := row.Scan(
		&team.ID,
		&team.Name,
		&team.Slug,
		&team.LeaderID,
		&team.EventID,
		&team.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to scan team: %w", err)
	}
	return team, nil
}

func (r *postgresTeamRepository) GetByIDs(ctx context.Context, ids []int) (map[int]*models.Team, error) {
	teams := make(map[int]*models.Team, len(ids))
	if len(ids) == 0 {
		return teams, nil
	}

	query := `
		SELECT id, name, slug, leader_id, event_id, created_at
		FROM teams
		WHERE id = ANY($1)`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to query teams by ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		team := &models.Team{}
		if scanErr := rows.Scan(
			&team.ID,
			&team.Name,
			&team.Slug,
			&team.LeaderID,
			&team.EventID,
			&team.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		teams[team.ID] = team
	}
	return teams, rows.Err()
}

func (r *postgresTeamRepository) DeleteCascade(ctx context.Context, teamID int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin team delete transaction: %w", err)
	}
	defer tx.Rollback()

	// Children first so foreign keys hold even without ON DELETE CASCADE.
	if _, err = tx.ExecContext(ctx, `DELETE FROM event_registrations WHERE team_id = $1`, teamID); err != nil {
		return fmt.Errorf("failed to delete registrations for team %d: %w", teamID, err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM team_members WHERE team_id = $1`, teamID); err != nil {
		return fmt.Errorf("failed to delete memberships for team %d: %w", teamID, err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, teamID)
	if err != nil {
		return fmt.Errorf("failed to delete team %d: %w", teamID, err)
	}
	if err = checkAffectedRows(result, ErrTeamNotFound); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *postgresTeamRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM teams`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count teams: %w", err)
	}
	return count, nil
}
