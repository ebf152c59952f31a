package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/salillakra/e-summit26-sub001/models"
	"github.com/salillakra/e-summit26-sub001/repositories"
)

type CreateEventInput struct {
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Description *string   `json:"description"`
	MinTeamSize int       `json:"min_team_size"`
	MaxTeamSize int       `json:"max_team_size"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
}

type DeclareResultInput struct {
	EventID int `json:"event_id"`
	TeamID  int `json:"team_id"`
	Rank    int `json:"rank"`
	Marks   int `json:"marks"`
}

// AdminService backs the organizer dashboard: user and registration listings,
// event management and result declaration.
type AdminService interface {
	GetDashboardStats(ctx context.Context) (*models.DashboardStats, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	ListEventRegistrations(ctx context.Context, eventID int) ([]*models.EventRegistration, error)
	CreateEvent(ctx context.Context, input CreateEventInput) (*models.Event, error)
	UpdateEvent(ctx context.Context, event *models.Event) error
	DeleteEvent(ctx context.Context, eventID int) error
	DeclareResult(ctx context.Context, input DeclareResultInput) (*models.EventResult, error)
}

type adminService struct {
	userRepo   repositories.UserRepository
	teamRepo   repositories.TeamRepository
	eventRepo  repositories.EventRepository
	regRepo    repositories.RegistrationRepository
	resultRepo repositories.ResultRepository
}

func NewAdminService(
	userRepo repositories.UserRepository,
	teamRepo repositories.TeamRepository,
	eventRepo repositories.EventRepository,
	regRepo repositories.RegistrationRepository,
	resultRepo repositories.ResultRepository,
) AdminService {
	return &adminService{
		userRepo:   userRepo,
		teamRepo:   teamRepo,
		eventRepo:  eventRepo,
		regRepo:    regRepo,
		resultRepo: resultRepo,
	}
}

func (s *adminService) GetDashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	stats := &models.DashboardStats{}
	var err error

	if stats.TotalUsers, err = s.userRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if stats.TotalTeams, err = s.teamRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count teams: %w", err)
	}
	if stats.TotalEvents, err = s.eventRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count events: %w", err)
	}
	if stats.TotalRegistrations, err = s.regRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count registrations: %w", err)
	}
	return stats, nil
}

func (s *adminService) ListUsers(ctx context.Context) ([]*models.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	for _, user := range users {
		user.PasswordHash = ""
	}
	return users, nil
}

func (s *adminService) ListEventRegistrations(ctx context.Context, eventID int) ([]*models.EventRegistration, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event %d: %w", eventID, err)
	}

	regs, err := s.regRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations for event %d: %w", eventID, err)
	}
	return regs, nil
}

func (s *adminService) CreateEvent(ctx context.Context, input CreateEventInput) (*models.Event, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: event name is required", ErrValidationFailed)
	}
	if !input.EndDate.After(input.StartDate) {
		return nil, fmt.Errorf("%w: event end date must be after start date", ErrValidationFailed)
	}
	if input.MinTeamSize > input.MaxTeamSize && input.MaxTeamSize > 0 {
		return nil, fmt.Errorf("%w: min team size must not exceed max team size", ErrValidationFailed)
	}

	event := &models.Event{
		Name:        name,
		Category:    strings.TrimSpace(input.Category),
		Description: input.Description,
		MinTeamSize: input.MinTeamSize,
		MaxTeamSize: input.MaxTeamSize,
		Status:      models.EventStatusUpcoming,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
	}
	if event.MinTeamSize <= 0 {
		event.MinTeamSize = models.DefaultMinTeamSize
	}
	if event.MaxTeamSize <= 0 {
		event.MaxTeamSize = models.DefaultMaxTeamSize
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		if errors.Is(err, repositories.ErrEventNameConflict) {
			return nil, ErrEventNameConflict
		}
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return event, nil
}

func (s *adminService) UpdateEvent(ctx context.Context, event *models.Event) error {
	if err := s.eventRepo.Update(ctx, event); err != nil {
		switch {
		case errors.Is(err, repositories.ErrEventNotFound):
			return ErrEventNotFound
		case errors.Is(err, repositories.ErrEventNameConflict):
			return ErrEventNameConflict
		}
		return fmt.Errorf("failed to update event %d: %w", event.ID, err)
	}
	return nil
}

func (s *adminService) DeleteEvent(ctx context.Context, eventID int) error {
	if err := s.eventRepo.Delete(ctx, eventID); err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return ErrEventNotFound
		}
		return fmt.Errorf("failed to delete event %d: %w", eventID, err)
	}
	return nil
}

func (s *adminService) DeclareResult(ctx context.Context, input DeclareResultInput) (*models.EventResult, error) {
	if input.EventID <= 0 || input.TeamID <= 0 {
		return nil, ErrMissingFields
	}
	if input.Rank <= 0 {
		return nil, fmt.Errorf("%w: rank must be positive", ErrValidationFailed)
	}

	result := &models.EventResult{
		EventID: input.EventID,
		TeamID:  input.TeamID,
		Rank:    input.Rank,
		Marks:   input.Marks,
	}

	if err := s.resultRepo.Upsert(ctx, result); err != nil {
		switch {
		case errors.Is(err, repositories.ErrResultEventInvalid):
			return nil, ErrEventNotFound
		case errors.Is(err, repositories.ErrResultTeamInvalid):
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to declare result: %w", err)
	}
	return result, nil
}
