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
	ErrMessageEventInvalid = errors.New("message event conflict or invalid")
	ErrMessageUserInvalid  = errors.New("message user conflict or invalid")
)

type MessageRepository interface {
	Create(ctx context.Context, msg *models.Message) error

	// ListRecentByEvent returns up to limit of the newest messages for the
	// event in chronological order.
	ListRecentByEvent(ctx context.Context, eventID, limit int) ([]*models.Message, error)
}

type postgresMessageRepository struct {
	db *sql.DB
}

func NewPostgresMessageRepository(db *sql.DB) MessageRepository {
	return &postgresMessageRepository{db: db}
}

func (r *postgresMessageRepository) Create(ctx context.Context, msg *models.Message) error {
	query := `
		INSERT INTO messages (event_id, user_id, body)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		msg.EventID,
		msg.UserID,
		msg.Body,
	).Scan(&msg.ID, &msg.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			switch pqErr.Constraint {
			case "messages_event_id_fkey":
				return ErrMessageEventInvalid
			case "messages_user_id_fkey":
				return ErrMessageUserInvalid
			}
		}
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

func (r *postgresMessageRepository) ListRecentByEvent(ctx context.Context, eventID, limit int) ([]*models.Message, error) {
	query := `
		SELECT m.id, m.event_id, m.user_id, m.body, m.created_at,
		       u.id, u.first_name, u.last_name, u.email, u.role, u.created_at
		FROM (
			SELECT id, event_id, user_id, body, created_at
			FROM messages
			WHERE event_id = $1
			ORDER BY created_at DESC
			LIMIT $2
		) m
		JOIN users u ON u.id = m.user_id
		ORDER BY m.created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, eventID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages for event %d: %w", eventID, err)
	}
	defer rows.Close()

	messages := make([]*models.Message, 0)
	for rows.Next() {
		msg := &models.Message{Sender: &models.User{}}
		if scanErr := rows.Scan(
			&msg.ID,
			&msg.EventID,
			&msg.UserID,
			&msg.Body,
			&msg.CreatedAt,
			&msg.Sender.ID,
			&msg.Sender.FirstName,
			&msg.Sender.LastName,
			&msg.Sender.Email,
			&msg.Sender.Role,
			&msg.Sender.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}
