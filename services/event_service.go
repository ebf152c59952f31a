package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/salillakra/e-summit26-sub001/models"
	"github.com/salillakra/e-summit26-sub001/repositories"
)

type EventService interface {
	GetEventByID(ctx context.Context, id int) (*models.Event, error)
	ListEvents(ctx context.Context, statusFilter *models.EventStatus) ([]*models.Event, error)

	// AutoUpdateEventStatusesByDates advances events through their lifecycle
	// (upcoming -> ongoing -> completed) based on their dates. Called by the
	// background scheduler.
	AutoUpdateEventStatusesByDates(ctx context.Context) error
}

type eventService struct {
	eventRepo repositories.EventRepository
	logger    *slog.Logger
}

func NewEventService(eventRepo repositories.EventRepository, logger *slog.Logger) EventService {
	return &eventService{
		eventRepo: eventRepo,
		logger:    logger,
	}
}

func (s *eventService) GetEventByID(ctx context.Context, id int) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event %d: %w", id, err)
	}
	return event, nil
}

func (s *eventService) ListEvents(ctx context.Context, statusFilter *models.EventStatus) ([]*models.Event, error) {
	events, err := s.eventRepo.List(ctx, statusFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

func (s *eventService) AutoUpdateEventStatusesByDates(ctx context.Context) error {
	started, err := s.eventRepo.MarkOngoingByDates(ctx)
	if err != nil {
		return fmt.Errorf("failed to mark events ongoing: %w", err)
	}
	if len(started) > 0 {
		s.logger.Info("events moved to ongoing", slog.Any("event_ids", started))
	}

	completed, err := s.eventRepo.MarkCompletedByDates(ctx)
	if err != nil {
		return fmt.Errorf("failed to mark events completed: %w", err)
	}
	if len(completed) > 0 {
		s.logger.Info("events moved to completed", slog.Any("event_ids", completed))
	}
	return nil
}
