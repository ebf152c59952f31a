package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/google/uuid"
	"github.com/salillakra/e-summit26-sub001/models"
	"github.com/salillakra/e-summit26-sub001/repositories"
	"github.com/salillakra/e-summit26-sub001/storage"
)

type RegisterTeamInput struct {
	EventID         int     `json:"event_id"`
	TeamID          int     `json:"team_id"`
	PresentationURL *string `json:"presentation_url"`
	ProductPhotos   *string `json:"product_photos_url"`
	Achievements    *string `json:"achievements"`
	VideoLink       *string `json:"video_link"`
	FaultLinesPDF   *string `json:"fault_lines_pdf"`
}

type RegistrationService interface {
	RegisterTeamForEvent(ctx context.Context, input RegisterTeamInput, currentUserID int) (*models.EventRegistration, error)

	// UploadSubmissionAsset streams a submission artifact to object storage
	// and returns its public URL for inclusion in the registration payload.
	UploadSubmissionAsset(ctx context.Context, filename, contentType string, reader io.Reader) (string, error)
}

type registrationService struct {
	regRepo    repositories.RegistrationRepository
	teamRepo   repositories.TeamRepository
	memberRepo repositories.MembershipRepository
	eventRepo  repositories.EventRepository
	uploader   storage.FileUploader
}

func NewRegistrationService(
	regRepo repositories.RegistrationRepository,
	teamRepo repositories.TeamRepository,
	memberRepo repositories.MembershipRepository,
	eventRepo repositories.EventRepository,
	uploader storage.FileUploader,
) RegistrationService {
	return &registrationService{
		regRepo:    regRepo,
		teamRepo:   teamRepo,
		memberRepo: memberRepo,
		eventRepo:  eventRepo,
		uploader:   uploader,
	}
}

// RegisterTeamForEvent runs the eligibility checks in order and records the
// registration. The pre-checks are advisory; the unique index on
// (event_id, team_id) is what actually prevents a duplicate under a race.
func (s *registrationService) RegisterTeamForEvent(ctx context.Context, input RegisterTeamInput, currentUserID int) (*models.EventRegistration, error) {
	if input.EventID <= 0 || input.TeamID <= 0 {
		return nil, ErrMissingFields
	}

	team, err := s.teamRepo.GetByID(ctx, input.TeamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %d: %w", input.TeamID, err)
	}

	if team.EventID != nil && *team.EventID != input.EventID {
		return nil, ErrEventMismatch
	}

	accepted, err := s.memberRepo.IsAcceptedMember(ctx, input.TeamID, currentUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership for user %d: %w", currentUserID, err)
	}
	if !accepted {
		return nil, ErrNotTeamMember
	}

	event, err := s.eventRepo.GetByID(ctx, input.EventID)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event %d: %w", input.EventID, err)
	}

	minSize, maxSize := event.SizeBounds()
	memberCount, err := s.memberRepo.CountAccepted(ctx, input.TeamID)
	if err != nil {
		return nil, fmt.Errorf("failed to count members of team %d: %w", input.TeamID, err)
	}
	if memberCount < minSize || memberCount > maxSize {
		if minSize == maxSize {
			return nil, fmt.Errorf("%w: event requires exactly %d accepted members, team has %d",
				ErrTeamSizeInvalid, minSize, memberCount)
		}
		return nil, fmt.Errorf("%w: event requires between %d and %d accepted members, team has %d",
			ErrTeamSizeInvalid, minSize, maxSize, memberCount)
	}

	reg := &models.EventRegistration{
		EventID:         input.EventID,
		TeamID:          input.TeamID,
		UserID:          currentUserID,
		Status:          models.RegistrationStatusConfirmed,
		PresentationURL: input.PresentationURL,
		ProductPhotos:   input.ProductPhotos,
		Achievements:    input.Achievements,
		VideoLink:       input.VideoLink,
		FaultLinesPDF:   input.FaultLinesPDF,
	}

	if err := s.regRepo.Create(ctx, reg); err != nil {
		if errors.Is(err, repositories.ErrRegistrationConflict) {
			return nil, ErrDuplicateRegistration
		}
		if errors.Is(err, repositories.ErrRegistrationEventInvalid) {
			return nil, ErrEventNotFound
		}
		if errors.Is(err, repositories.ErrRegistrationTeamInvalid) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to create registration: %w", err)
	}
	return reg, nil
}

func (s *registrationService) UploadSubmissionAsset(ctx context.Context, filename, contentType string, reader io.Reader) (string, error) {
	key := fmt.Sprintf("submissions/%s%s", uuid.NewString(), path.Ext(filename))
	result, err := s.uploader.Upload(ctx, key, contentType, reader)
	if err != nil {
		return "", fmt.Errorf("failed to upload submission asset: %w", err)
	}
	return result.Location, nil
}
