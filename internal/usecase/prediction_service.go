package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/quinielago/quiniela-api/internal/domain/league"
	"github.com/quinielago/quiniela-api/internal/domain/match"
	"github.com/quinielago/quiniela-api/internal/domain/prediction"
	idgen "github.com/quinielago/quiniela-api/internal/platform/id"
)

const maxPredictedGoals = 99

type CreatePredictionInput struct {
	LeagueID  string
	MatchID   string
	HomeGoals int
	AwayGoals int
}

type UpdatePredictionInput struct {
	LeagueID     string
	PredictionID string
	HomeGoals    int
	AwayGoals    int
}

type PredictionService struct {
	leagueRepo     league.Repository
	matchRepo      match.Repository
	predictionRepo prediction.Repository
	idGen          idgen.Generator
	now            func() time.Time
}

func NewPredictionService(
	leagueRepo league.Repository,
	matchRepo match.Repository,
	predictionRepo prediction.Repository,
	idGen idgen.Generator,
) *PredictionService {
	return &PredictionService{
		leagueRepo:     leagueRepo,
		matchRepo:      matchRepo,
		predictionRepo: predictionRepo,
		idGen:          idGen,
		now:            time.Now,
	}
}

// CreatePrediction stores the caller's score pick for a match in one of
// their leagues. The match must belong to the league's competition and
// still be open for predictions.
func (s *PredictionService) CreatePrediction(ctx context.Context, callerID string, input CreatePredictionInput) (prediction.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "PredictionService.CreatePrediction")
	defer span.End()

	callerID = strings.TrimSpace(callerID)
	if callerID == "" {
		return prediction.Prediction{}, fmt.Errorf("%w: user id is required", ErrUnauthorized)
	}

	input.LeagueID = strings.TrimSpace(input.LeagueID)
	input.MatchID = strings.TrimSpace(input.MatchID)

	var v violations
	if input.LeagueID == "" {
		v.add("leagueId", "is required")
	}
	if input.MatchID == "" {
		v.add("matchId", "is required")
	}
	if reason, ok := goalsViolation(input.HomeGoals); !ok {
		v.add("homeGoals", reason)
	}
	if reason, ok := goalsViolation(input.AwayGoals); !ok {
		v.add("awayGoals", reason)
	}
	if err := v.err(); err != nil {
		return prediction.Prediction{}, err
	}

	_, m, err := s.leagueAndMatch(ctx, callerID, input.LeagueID, input.MatchID)
	if err != nil {
		return prediction.Prediction{}, err
	}

	if !m.OpenForPredictions(s.now().UTC()) {
		return prediction.Prediction{}, fmt.Errorf("%w: match is closed for predictions", ErrConflict)
	}

	predictionID, err := s.idGen.NewID()
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("generate prediction id: %w", err)
	}

	now := s.now().UTC()
	p := prediction.Prediction{
		ID:        predictionID,
		LeagueID:  input.LeagueID,
		UserID:    callerID,
		MatchID:   input.MatchID,
		HomeGoals: input.HomeGoals,
		AwayGoals: input.AwayGoals,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.predictionRepo.Create(ctx, p); err != nil {
		if errors.Is(err, prediction.ErrDuplicatePrediction) {
			return prediction.Prediction{}, fmt.Errorf("%w: prediction already exists for this match", ErrConflict)
		}
		return prediction.Prediction{}, fmt.Errorf("create prediction: %w", err)
	}
	return p, nil
}

// UpdatePrediction changes the caller's own pick while the match is
// still open and the prediction has not been scored.
func (s *PredictionService) UpdatePrediction(ctx context.Context, callerID string, input UpdatePredictionInput) (prediction.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "PredictionService.UpdatePrediction")
	defer span.End()

	callerID = strings.TrimSpace(callerID)
	if callerID == "" {
		return prediction.Prediction{}, fmt.Errorf("%w: user id is required", ErrUnauthorized)
	}

	input.LeagueID = strings.TrimSpace(input.LeagueID)
	input.PredictionID = strings.TrimSpace(input.PredictionID)

	var v violations
	if input.LeagueID == "" {
		v.add("leagueId", "is required")
	}
	if input.PredictionID == "" {
		v.add("predictionId", "is required")
	}
	if reason, ok := goalsViolation(input.HomeGoals); !ok {
		v.add("homeGoals", reason)
	}
	if reason, ok := goalsViolation(input.AwayGoals); !ok {
		v.add("awayGoals", reason)
	}
	if err := v.err(); err != nil {
		return prediction.Prediction{}, err
	}

	p, exists, err := s.predictionRepo.GetByID(ctx, input.PredictionID)
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("get prediction by id: %w", err)
	}
	if !exists || p.LeagueID != input.LeagueID {
		return prediction.Prediction{}, fmt.Errorf("%w: prediction not found", ErrNotFound)
	}
	if p.UserID != callerID {
		return prediction.Prediction{}, fmt.Errorf("%w: not your prediction", ErrForbidden)
	}
	if p.Scored() {
		return prediction.Prediction{}, fmt.Errorf("%w: prediction has already been scored", ErrConflict)
	}

	m, exists, err := s.matchRepo.GetByID(ctx, p.MatchID)
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("get match by id: %w", err)
	}
	if !exists {
		return prediction.Prediction{}, fmt.Errorf("%w: match not found", ErrNotFound)
	}
	if !m.OpenForPredictions(s.now().UTC()) {
		return prediction.Prediction{}, fmt.Errorf("%w: match is closed for predictions", ErrConflict)
	}

	p.HomeGoals = input.HomeGoals
	p.AwayGoals = input.AwayGoals
	p.UpdatedAt = s.now().UTC()

	if err := s.predictionRepo.Update(ctx, p); err != nil {
		return prediction.Prediction{}, fmt.Errorf("update prediction: %w", err)
	}
	return p, nil
}

// ListMyPredictions returns the caller's predictions in a league.
func (s *PredictionService) ListMyPredictions(ctx context.Context, callerID, leagueID string) ([]prediction.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "PredictionService.ListMyPredictions")
	defer span.End()

	callerID = strings.TrimSpace(callerID)
	leagueID = strings.TrimSpace(leagueID)
	if callerID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrUnauthorized)
	}
	if leagueID == "" {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	if _, err := s.memberLeague(ctx, callerID, leagueID); err != nil {
		return nil, err
	}

	items, err := s.predictionRepo.ListByLeagueAndUser(ctx, leagueID, callerID)
	if err != nil {
		return nil, fmt.Errorf("list predictions by league and user: %w", err)
	}
	return items, nil
}

func (s *PredictionService) leagueAndMatch(ctx context.Context, callerID, leagueID, matchID string) (league.League, match.Match, error) {
	item, err := s.memberLeague(ctx, callerID, leagueID)
	if err != nil {
		return league.League{}, match.Match{}, err
	}

	m, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return league.League{}, match.Match{}, fmt.Errorf("get match by id: %w", err)
	}
	if !exists {
		return league.League{}, match.Match{}, fmt.Errorf("%w: match not found", ErrNotFound)
	}
	if m.CompetitionID != string(item.CompetitionID) {
		return league.League{}, match.Match{}, fmt.Errorf("%w: match is not part of this league's competition", ErrInvalidInput)
	}
	return item, m, nil
}

func (s *PredictionService) memberLeague(ctx context.Context, callerID, leagueID string) (league.League, error) {
	item, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return league.League{}, fmt.Errorf("get league by id: %w", err)
	}
	if !exists || !item.IsActive {
		return league.League{}, fmt.Errorf("%w: league not found", ErrNotFound)
	}
	if !item.IsParticipant(callerID) {
		return league.League{}, fmt.Errorf("%w: not a member of this league", ErrForbidden)
	}
	return item, nil
}

func goalsViolation(goals int) (string, bool) {
	if goals < 0 || goals > maxPredictedGoals {
		return fmt.Sprintf("must be between 0 and %d", maxPredictedGoals), false
	}
	return "", true
}
