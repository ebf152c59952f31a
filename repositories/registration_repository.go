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
	ErrRegistrationNotFound     = errors.New("event registration not found")
	ErrRegistrationConflict     = errors.New("team is already registered for this event")
	ErrRegistrationEventInvalid = errors.New("registration event conflict or invalid")
	ErrRegistrationTeamInvalid  = errors.New("registration team conflict or invalid")
	ErrRegistrationUserInvalid  = errors.New("registration user conflict or invalid")
)

type RegistrationRepository interface {
	Create(ctx context.Context, reg *models.EventRegistration) error
	FindByEventAndTeam(ctx context.Context, eventID, teamID int) (*models.EventRegistration, error)
	ListByEvent(ctx context.Context, eventID int) ([]*models.EventRegistration, error)
	Count(ctx context.Context) (int, error)
}

type postgresRegistrationRepository struct {
	db *sql.DB
}

func NewPostgresRegistrationRepository(db *sql.DB) RegistrationRepository {
	return &postgresRegistrationRepository{db: db}
}

const registrationColumns = `id, event_id, team_id, user_id, status, presentation_url, product_photos_url, achievements, video_link, fault_lines_pdf, registered_at`

func (r *postgresRegistrationRepository) Create(ctx context.Context, reg *models.EventRegistration) error {
	query := `
		INSERT INTO event_registrations
		    (event_id, team_id, user_id, status, presentation_url, product_photos_url, achievements, video_link, fault_lines_pdf)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, registered_at`

	err := r.db.QueryRowContext(ctx, query,
		reg.EventID,
		reg.TeamID,
		reg.UserID,
		reg.Status,
		reg.PresentationURL,
		reg.ProductPhotos,
		reg.Achievements,
		reg.VideoLink,
		reg.FaultLinesPDF,
	).Scan(&reg.ID, &reg.RegisteredAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505":
				// The (event_id, team_id) unique index is the authoritative
				// at-most-once guarantee for registrations.
				if pqErr.Constraint == "event_registrations_event_id_team_id_key" {
					return ErrRegistrationConflict
				}
			case "23503":
				switch pqErr.Constraint {
				case "event_registrations_event_id_fkey":
					return ErrRegistrationEventInvalid
				case "event_registrations_team_id_fkey":
					return ErrRegistrationTeamInvalid
				case "event_registrations_user_id_fkey":
					return ErrRegistrationUserInvalid
				}
			}
		}
		return fmt.Errorf("failed to create event registration: %w", err)
	}
	return nil
}

func (r *postgresRegistrationRepository) FindByEventAndTeam(ctx context.Context, eventID, teamID int) (*models.EventRegistration, error) {
	query := `SELECT ` + registrationColumns + ` FROM event_registrations WHERE event_id = $1 AND team_id = $2`

	reg := &models.EventRegistration{}
	err := r.scanRegistration(r.db.QueryRowContext(ctx, query, eventID, teamID), reg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to find registration: %w", err)
	}
	return reg, nil
}

func (r *postgresRegistrationRepository) scanRegistration(rowScanner interface {
	Scan(dest ...interface{}) error
}, reg *models.EventRegistration) error {
	return rowScanner.Scan(
		&reg.ID,
		&reg.EventID,
		&reg.TeamID,
		&reg.UserID,
		&reg.Status,
		&reg.PresentationURL,
		&reg.ProductPhotos,
		&reg.Achievements,
		&reg.VideoLink,
		&reg.FaultLinesPDF,
		&reg.RegisteredAt,
	)
}

func (r *postgresRegistrationRepository) ListByEvent(ctx context.Context, eventID int) ([]*models.EventRegistration, error) {
	query := `SELECT ` + registrationColumns + ` FROM event_registrations WHERE event_id = $1 ORDER BY registered_at ASC`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations for event %d: %w", eventID, err)
	}
	defer rows.Close()

	regs := make([]*models.EventRegistration, 0)
	for rows.Next() {
		reg := &models.EventRegistration{}
		if scanErr := r.scanRegistration(rows, reg); scanErr != nil {
			return nil, scanErr
		}
		regs = append(regs, reg)
	}
	return regs, rows.Err()
}

func (r *postgresRegistrationRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM event_registrations`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count registrations: %w", err)
	}
	return count, nil
}
