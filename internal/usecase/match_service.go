package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/quinielago/quiniela-api/internal/domain/league"
	"github.com/quinielago/quiniela-api/internal/domain/match"
)

// MatchService exposes a league's fixture list to its members.
type MatchService struct {
	leagueRepo league.Repository
	matchRepo  match.Repository
}

func NewMatchService(leagueRepo league.Repository, matchRepo match.Repository) *MatchService {
	return &MatchService{
		leagueRepo: leagueRepo,
		matchRepo:  matchRepo,
	}
}

// ListLeagueMatches returns the fixtures of the league's competition,
// kickoff ascending. Membership is required; existence is checked
// first.
func (s *MatchService) ListLeagueMatches(ctx context.Context, callerID, leagueID string) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "MatchService.ListLeagueMatches")
	defer span.End()

	callerID = strings.TrimSpace(callerID)
	leagueID = strings.TrimSpace(leagueID)
	if callerID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrUnauthorized)
	}
	if leagueID == "" {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	item, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("get league by id: %w", err)
	}
	if !exists || !item.IsActive {
		return nil, fmt.Errorf("%w: league not found", ErrNotFound)
	}
	if !item.IsParticipant(callerID) {
		return nil, fmt.Errorf("%w: not a member of this league", ErrForbidden)
	}

	matches, err := s.matchRepo.ListByCompetition(ctx, string(item.CompetitionID))
	if err != nil {
		return nil, fmt.Errorf("list matches by competition: %w", err)
	}
	return matches, nil
}
