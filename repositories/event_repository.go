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
	ErrEventNotFound     = errors.New("event not found")
	ErrEventNameConflict = errors.New("event name conflict")
)

type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id int) (*models.Event, error)
	List(ctx context.Context, statusFilter *models.EventStatus) ([]*models.Event, error)
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context) (int, error)

	// MarkOngoingByDates / MarkCompletedByDates move events through their
	// lifecycle based on start and end dates. Both return the affected ids.
	MarkOngoingByDates(ctx context.Context) ([]int, error)
	MarkCompletedByDates(ctx context.Context) ([]int, error)
}

type postgresEventRepository struct {
	db *sql.DB
}

func NewPostgresEventRepository(db *sql.DB) EventRepository {
	return &postgresEventRepository{db: db}
}

const eventColumns = `id, name, category, description, min_team_size, max_team_size, status, start_date, end_date, created_at`

func (r *postgresEventRepository) Create(ctx context.Context, event *models.Event) error {
	query := `
		INSERT INTO events (name, category, description, min_team_size, max_team_size, status, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		event.Name,
		event.Category,
		event.Description,
		event.MinTeamSize,
		event.MaxTeamSize,
		event.Status,
		event.StartDate,
		event.EndDate,
	).Scan(&event.ID, &event.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrEventNameConflict
		}
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

func (r *postgresEventRepository) GetByID(ctx context.Context, id int) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	event := &models.Event{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&event.ID,
		&event.Name,
		&event.Category,
		&event.Description,
		&event.MinTeamSize,
		&event.MaxTeamSize,
		&event.Status,
		&event.StartDate,
		&event.EndDate,
		&event.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event %d: %w", id, err)
	}
	return event, nil
}

func (r *postgresEventRepository) List(ctx context.Context, statusFilter *models.EventStatus) ([]*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events`
	args := []interface{}{}
	if statusFilter != nil {
		query += ` WHERE status = $1`
		args = append(args, *statusFilter)
	}
	query += ` ORDER BY start_date ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	events := make([]*models.Event, 0)
	for rows.Next() {
		event := &models.Event{}
		if scanErr := rows.Scan(
			&event.ID,
			&event.Name,
			&event.Category,
			&event.Description,
			&event.MinTeamSize,
			&event.MaxTeamSize,
			&event.Status,
			&event.StartDate,
			&event.EndDate,
			&event.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

func (r *postgresEventRepository) Update(ctx context.Context, event *models.Event) error {
	query := `
		UPDATE events
		SET name = $1, category = $2, description = $3, min_team_size = $4,
		    max_team_size = $5, status = $6, start_date = $7, end_date = $8
		WHERE id = $9`

	result, err := r.db.ExecContext(ctx, query,
		event.Name,
		event.Category,
		event.Description,
		event.MinTeamSize,
		event.MaxTeamSize,
		event.Status,
		event.StartDate,
		event.EndDate,
		event.ID,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrEventNameConflict
		}
		return fmt.Errorf("failed to update event %d: %w", event.ID, err)
	}
	return checkAffectedRows(result, ErrEventNotFound)
}

func (r *postgresEventRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete event %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrEventNotFound)
}

func (r *postgresEventRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return count, nil
}

func (r *postgresEventRepository) MarkOngoingByDates(ctx context.Context) ([]int, error) {
	query := `
		UPDATE events
		SET status = $1
		WHERE status = $2 AND start_date <= NOW() AND end_date > NOW()
		RETURNING id`
	return r.collectIDs(ctx, query, models.EventStatusOngoing, models.EventStatusUpcoming)
}

func (r *postgresEventRepository) MarkCompletedByDates(ctx context.Context) ([]int, error) {
	query := `
		UPDATE events
		SET status = $1
		WHERE status = $2 AND end_date <= NOW()
		RETURNING id`
	return r.collectIDs(ctx, query, models.EventStatusCompleted, models.EventStatusOngoing)
}

func (r *postgresEventRepository) collectIDs(ctx context.Context, query string, args ...interface{}) ([]int, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update event statuses: %w", err)
	}
	defer rows.Close()

	ids := make([]int, 0)
	for rows.Next() {
		var id int
		if scanErr := rows.Scan(&id); scanErr != nil {
			return nil, scanErr
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
