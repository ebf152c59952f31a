package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/salillakra/e-summit26-sub001/models"
	"github.com/salillakra/e-summit26-sub001/repositories"
)

// Leaderboard is the public projection of an event's declared results.
type Leaderboard struct {
	Event   *models.Event         `json:"event"`
	Results []*models.EventResult `json:"results"`
	Meta    LeaderboardMeta       `json:"meta"`
}

type LeaderboardMeta struct {
	RanksPresent []int `json:"ranksPresent"`
}

type LeaderboardService interface {
	GetLeaderboard(ctx context.Context, eventID int, includeMembers bool) (*Leaderboard, error)
}

type leaderboardService struct {
	resultRepo repositories.ResultRepository
	eventRepo  repositories.EventRepository
	teamRepo   repositories.TeamRepository
	memberRepo repositories.MembershipRepository
}

func NewLeaderboardService(
	resultRepo repositories.ResultRepository,
	eventRepo repositories.EventRepository,
	teamRepo repositories.TeamRepository,
	memberRepo repositories.MembershipRepository,
) LeaderboardService {
	return &leaderboardService{
		resultRepo: resultRepo,
		eventRepo:  eventRepo,
		teamRepo:   teamRepo,
		memberRepo: memberRepo,
	}
}

// GetLeaderboard joins the event's results with their teams, ordered by rank
// ascending. A result whose team row is missing keeps a nil team rather than
// being dropped. This is a snapshot read with no stronger consistency
// requirement; the handler advertises short-lived cacheability.
func (s *leaderboardService) GetLeaderboard(ctx context.Context, eventID int, includeMembers bool) (*Leaderboard, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event %d: %w", eventID, err)
	}

	results, err := s.resultRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list results for event %d: %w", eventID, err)
	}

	teamIDs := make([]int, 0, len(results))
	for _, res := range results {
		teamIDs = append(teamIDs, res.TeamID)
	}

	var (
		teams  map[int]*models.Team
		counts map[int]int
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var fetchErr error
		teams, fetchErr = s.teamRepo.GetByIDs(gCtx, teamIDs)
		if fetchErr != nil {
			return fmt.Errorf("failed to fetch teams for leaderboard: %w", fetchErr)
		}
		return nil
	})
	if includeMembers {
		g.Go(func() error {
			var countErr error
			counts, countErr = s.memberRepo.CountAcceptedByTeams(gCtx, teamIDs)
			if countErr != nil {
				return fmt.Errorf("failed to fetch member counts for leaderboard: %w", countErr)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ranks := make([]int, 0, len(results))
	for _, res := range results {
		res.Team = teams[res.TeamID] // nil when the team row is gone
		if includeMembers {
			count := counts[res.TeamID] // zero value when none found
			res.MemberCount = &count
		}
		ranks = append(ranks, res.Rank)
	}

	return &Leaderboard{
		Event:   event,
		Results: results,
		Meta:    LeaderboardMeta{RanksPresent: ranks},
	}, nil
}
