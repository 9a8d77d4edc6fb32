package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/quinielago/quiniela-api/internal/domain/league"
	"github.com/quinielago/quiniela-api/internal/domain/match"
	leaguemock "github.com/quinielago/quiniela-api/internal/mocks/domain/league"
	matchmock "github.com/quinielago/quiniela-api/internal/mocks/domain/match"
)

func TestMatchService_ListLeagueMatches_SuccessUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	leagueRepo := leaguemock.NewRepository(t)
	matchRepo := matchmock.NewRepository(t)

	service := NewMatchService(leagueRepo, matchRepo)
	leagueID := "league-1"
	expectedMatches := []match.Match{
		{ID: "m1", CompetitionID: "premier-league", HomeTeam: "Arsenal", AwayTeam: "Chelsea", KickoffAt: time.Now().Add(time.Hour)},
		{ID: "m2", CompetitionID: "premier-league", HomeTeam: "Liverpool", AwayTeam: "Everton", KickoffAt: time.Now().Add(2 * time.Hour)},
	}

	leagueRepo.
		On("GetByID", mock.Anything, leagueID).
		Return(league.League{
			ID:            leagueID,
			CompetitionID: league.CompetitionPremierLeague,
			IsActive:      true,
			Participants:  []league.Participant{{UserID: "u1"}},
		}, true, nil).
		Once()
	matchRepo.
		On("ListByCompetition", mock.Anything, "premier-league").
		Return(expectedMatches, nil).
		Once()

	got, err := service.ListLeagueMatches(ctx, "u1", leagueID)
	if err != nil {
		t.Fatalf("list league matches: %v", err)
	}
	if len(got) != len(expectedMatches) {
		t.Fatalf("unexpected match count: got=%d want=%d", len(got), len(expectedMatches))
	}
	if got[0].ID != expectedMatches[0].ID {
		t.Fatalf("unexpected match id: got=%s want=%s", got[0].ID, expectedMatches[0].ID)
	}
}

func TestMatchService_ListLeagueMatches_LeagueNotFoundUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	leagueRepo := leaguemock.NewRepository(t)
	matchRepo := matchmock.NewRepository(t)

	service := NewMatchService(leagueRepo, matchRepo)

	leagueRepo.
		On("GetByID", mock.Anything, "missing-league").
		Return(league.League{}, false, nil).
		Once()

	_, err := service.ListLeagueMatches(ctx, "u1", "missing-league")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
