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
	ErrResultEventInvalid = errors.New("result event conflict or invalid")
	ErrResultTeamInvalid  = errors.New("result team conflict or invalid")
)

type ResultRepository interface {
	// Upsert declares or amends a team's result for an event, keyed on
	// (event_id, team_id).
	Upsert(ctx context.Context, result *models.EventResult) error

	// ListByEvent returns results for the event ordered by rank ascending.
	ListByEvent(ctx context.Context, eventID int) ([]*models.EventResult, error)
}

type postgresResultRepository struct {
	db *sql.DB
}

func NewPostgresResultRepository(db *sql.DB) ResultRepository {
	return &postgresResultRepository{db: db}
}

func (r *postgresResultRepository) Upsert(ctx context.Context, result *models.EventResult) error {
	query := `
		INSERT INTO event_results (event_id, team_id, rank, marks)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (event_id, team_id)
		DO UPDATE SET rank = EXCLUDED.rank, marks = EXCLUDED.marks, declared_at = NOW()
		RETURNING declared_at`

	err := r.db.QueryRowContext(ctx, query,
		result.EventID,
		result.TeamID,
		result.Rank,
		result.Marks,
	).Scan(&result.DeclaredAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			switch pqErr.Constraint {
			case "event_results_event_id_fkey":
				return ErrResultEventInvalid
			case "event_results_team_id_fkey":
				return ErrResultTeamInvalid
			}
		}
		return fmt.Errorf("failed to upsert event result: %w", err)
	}
	return nil
}

func (r *postgresResultRepository) ListByEvent(ctx context.Context, eventID int) ([]*models.EventResult, error) {
	query := `
		SELECT event_id, team_id, rank, marks, declared_at
		FROM event_results
		WHERE event_id = $1
		ORDER BY rank ASC`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list results for event %d: %w", eventID, err)
	}
	defer rows.Close()

	results := make([]*models.EventResult, 0)
	for rows.Next() {
		result := &models.EventResult{}
		if scanErr := rows.Scan(
			&result.EventID,
			&result.TeamID,
			&result.Rank,
			&result.Marks,
			&result.DeclaredAt,
		); scanErr != nil {
			return nil, scanErr
		}
		results = append(results, result)
	}
	return results, rows.Err()
}
