package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/quinielago/quiniela-api/internal/domain/match"
	"github.com/quinielago/quiniela-api/internal/infrastructure/repository/memory"
	"github.com/quinielago/quiniela-api/internal/platform/id"
)

type predictionFixture struct {
	svc       *PredictionService
	leagues   *LeagueService
	matchRepo *memory.MatchRepository
	leagueID  string
	matchID   string
	now       time.Time
}

func newPredictionFixture(t *testing.T) *predictionFixture {
	t.Helper()

	leagueRepo := memory.NewLeagueRepository()
	userRepo := memory.NewUserRepository()
	matchRepo := memory.NewMatchRepository()
	predictionRepo := memory.NewPredictionRepository()

	leagues := NewLeagueService(leagueRepo, userRepo, stubCodeGen{}, id.NewRandomGenerator(), testFrontendURL)
	svc := NewPredictionService(leagueRepo, matchRepo, predictionRepo, id.NewRandomGenerator())

	now := time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	seedUser(t, userRepo, "u1", "Ana", "ana@example.com")
	created, err := leagues.CreateLeague(context.Background(), "u1", CreateLeagueInput{
		Name:          "Prediction League",
		CompetitionID: "premier-league",
		TeamName:      "Ana FC",
	})
	if err != nil {
		t.Fatalf("CreateLeague returned error: %v", err)
	}

	m := match.Match{
		ID:            "m1",
		CompetitionID: "premier-league",
		Season:        "2025-26",
		Round:         "30",
		HomeTeam:      "Arsenal",
		AwayTeam:      "Chelsea",
		Status:        match.StatusScheduled,
		KickoffAt:     now.Add(2 * time.Hour),
	}
	if err := matchRepo.Upsert(context.Background(), m); err != nil {
		t.Fatalf("seed match: %v", err)
	}

	return &predictionFixture{
		svc:       svc,
		leagues:   leagues,
		matchRepo: matchRepo,
		leagueID:  created.League.ID,
		matchID:   "m1",
		now:       now,
	}
}

type stubCodeGen struct{}

func (stubCodeGen) Generate(context.Context) (string, error) { return "CODE01", nil }

func TestCreatePrediction(t *testing.T) {
	f := newPredictionFixture(t)

	p, err := f.svc.CreatePrediction(context.Background(), "u1", CreatePredictionInput{
		LeagueID:  f.leagueID,
		MatchID:   f.matchID,
		HomeGoals: 2,
		AwayGoals: 1,
	})
	if err != nil {
		t.Fatalf("CreatePrediction returned error: %v", err)
	}
	if p.HomeGoals != 2 || p.AwayGoals != 1 || p.Scored() {
		t.Fatalf("prediction = %+v", p)
	}
}

func TestCreatePredictionRequiresMembership(t *testing.T) {
	f := newPredictionFixture(t)

	_, err := f.svc.CreatePrediction(context.Background(), "outsider", CreatePredictionInput{
		LeagueID: f.leagueID,
		MatchID:  f.matchID,
	})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("error = %v, want ErrForbidden", err)
	}
}

func TestCreatePredictionUnknownLeagueAndMatch(t *testing.T) {
	f := newPredictionFixture(t)

	_, err := f.svc.CreatePrediction(context.Background(), "u1", CreatePredictionInput{
		LeagueID: "ghost",
		MatchID:  f.matchID,
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown league error = %v, want ErrNotFound", err)
	}

	_, err = f.svc.CreatePrediction(context.Background(), "u1", CreatePredictionInput{
		LeagueID: f.leagueID,
		MatchID:  "ghost",
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown match error = %v, want ErrNotFound", err)
	}
}

func TestCreatePredictionWrongCompetition(t *testing.T) {
	f := newPredictionFixture(t)

	other := match.Match{
		ID:            "m2",
		CompetitionID: "la-liga",
		Status:        match.StatusScheduled,
		KickoffAt:     f.now.Add(time.Hour),
	}
	if err := f.matchRepo.Upsert(context.Background(), other); err != nil {
		t.Fatalf("seed match: %v", err)
	}

	_, err := f.svc.CreatePrediction(context.Background(), "u1", CreatePredictionInput{
		LeagueID: f.leagueID,
		MatchID:  "m2",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("error = %v, want ErrInvalidInput", err)
	}
}

func TestCreatePredictionClosedMatch(t *testing.T) {
	f := newPredictionFixture(t)

	cases := []struct {
		name   string
		mutate func(*match.Match)
	}{
		{"kickoff passed", func(m *match.Match) { m.KickoffAt = f.now.Add(-time.Minute) }},
		{"live", func(m *match.Match) { m.Status = match.StatusLive }},
		{"postponed", func(m *match.Match) { m.Status = match.StatusPostponed }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m, _, err := f.matchRepo.GetByID(context.Background(), f.matchID)
			if err != nil {
				t.Fatalf("GetByID returned error: %v", err)
			}
			tc.mutate(&m)
			m.ID = "closed-" + tc.name
			if err := f.matchRepo.Upsert(context.Background(), m); err != nil {
				t.Fatalf("seed match: %v", err)
			}

			_, err = f.svc.CreatePrediction(context.Background(), "u1", CreatePredictionInput{
				LeagueID: f.leagueID,
				MatchID:  m.ID,
			})
			if !errors.Is(err, ErrConflict) {
				t.Fatalf("error = %v, want ErrConflict", err)
			}
		})
	}
}

func TestCreatePredictionDuplicate(t *testing.T) {
	f := newPredictionFixture(t)

	input := CreatePredictionInput{LeagueID: f.leagueID, MatchID: f.matchID, HomeGoals: 1, AwayGoals: 1}
	if _, err := f.svc.CreatePrediction(context.Background(), "u1", input); err != nil {
		t.Fatalf("first CreatePrediction returned error: %v", err)
	}
	_, err := f.svc.CreatePrediction(context.Background(), "u1", input)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("duplicate error = %v, want ErrConflict", err)
	}
}

func TestUpdatePrediction(t *testing.T) {
	f := newPredictionFixture(t)

	p, err := f.svc.CreatePrediction(context.Background(), "u1", CreatePredictionInput{
		LeagueID:  f.leagueID,
		MatchID:   f.matchID,
		HomeGoals: 0,
		AwayGoals: 0,
	})
	if err != nil {
		t.Fatalf("CreatePrediction returned error: %v", err)
	}

	updated, err := f.svc.UpdatePrediction(context.Background(), "u1", UpdatePredictionInput{
		LeagueID:     f.leagueID,
		PredictionID: p.ID,
		HomeGoals:    3,
		AwayGoals:    2,
	})
	if err != nil {
		t.Fatalf("UpdatePrediction returned error: %v", err)
	}
	if updated.HomeGoals != 3 || updated.AwayGoals != 2 {
		t.Fatalf("updated = %+v", updated)
	}
}

func TestUpdatePredictionOwnership(t *testing.T) {
	f := newPredictionFixture(t)

	p, err := f.svc.CreatePrediction(context.Background(), "u1", CreatePredictionInput{
		LeagueID: f.leagueID,
		MatchID:  f.matchID,
	})
	if err != nil {
		t.Fatalf("CreatePrediction returned error: %v", err)
	}

	_, err = f.svc.UpdatePrediction(context.Background(), "rival", UpdatePredictionInput{
		LeagueID:     f.leagueID,
		PredictionID: p.ID,
	})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("error = %v, want ErrForbidden", err)
	}

	_, err = f.svc.UpdatePrediction(context.Background(), "u1", UpdatePredictionInput{
		LeagueID:     f.leagueID,
		PredictionID: "ghost",
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown id error = %v, want ErrNotFound", err)
	}
}

func TestUpdatePredictionAfterKickoff(t *testing.T) {
	f := newPredictionFixture(t)

	p, err := f.svc.CreatePrediction(context.Background(), "u1", CreatePredictionInput{
		LeagueID: f.leagueID,
		MatchID:  f.matchID,
	})
	if err != nil {
		t.Fatalf("CreatePrediction returned error: %v", err)
	}

	f.svc.now = func() time.Time { return f.now.Add(3 * time.Hour) }

	_, err = f.svc.UpdatePrediction(context.Background(), "u1", UpdatePredictionInput{
		LeagueID:     f.leagueID,
		PredictionID: p.ID,
		HomeGoals:    5,
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("error = %v, want ErrConflict", err)
	}
}

func TestListMyPredictions(t *testing.T) {
	f := newPredictionFixture(t)

	if _, err := f.svc.CreatePrediction(context.Background(), "u1", CreatePredictionInput{
		LeagueID:  f.leagueID,
		MatchID:   f.matchID,
		HomeGoals: 1,
		AwayGoals: 0,
	}); err != nil {
		t.Fatalf("CreatePrediction returned error: %v", err)
	}

	items, err := f.svc.ListMyPredictions(context.Background(), "u1", f.leagueID)
	if err != nil {
		t.Fatalf("ListMyPredictions returned error: %v", err)
	}
	if len(items) != 1 || items[0].MatchID != f.matchID {
		t.Fatalf("items = %+v", items)
	}

	if _, err := f.svc.ListMyPredictions(context.Background(), "outsider", f.leagueID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("outsider error = %v, want ErrForbidden", err)
	}
}
