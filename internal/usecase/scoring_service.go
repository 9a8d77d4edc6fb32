package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/quinielago/quiniela-api/internal/domain/league"
	"github.com/quinielago/quiniela-api/internal/domain/match"
	"github.com/quinielago/quiniela-api/internal/domain/prediction"
	"github.com/quinielago/quiniela-api/internal/platform/logging"
)

const defaultScoringWorkers = 4

// ScoringResult summarizes one scoring run.
type ScoringResult struct {
	MatchesProcessed  int
	PredictionsScored int
	PointsAwarded     int
	Failed            int
}

// ScoringService awards points for predictions on finished matches and
// rolls them up into the participants' league totals. Runs are
// idempotent: a prediction is only ever scored once.
type ScoringService struct {
	leagueRepo     league.Repository
	matchRepo      match.Repository
	predictionRepo prediction.Repository
	logger         *logging.Logger
	workers        int
	now            func() time.Time
}

func NewScoringService(
	leagueRepo league.Repository,
	matchRepo match.Repository,
	predictionRepo prediction.Repository,
	logger *logging.Logger,
	workers int,
) *ScoringService {
	if logger == nil {
		logger = logging.Default()
	}
	if workers < 1 {
		workers = defaultScoringWorkers
	}
	return &ScoringService{
		leagueRepo:     leagueRepo,
		matchRepo:      matchRepo,
		predictionRepo: predictionRepo,
		logger:         logger,
		workers:        workers,
		now:            time.Now,
	}
}

// ScoreFinishedMatches walks every finished match of every supported
// competition and scores its pending predictions, fanning the matches
// out over a bounded worker pool.
func (s *ScoringService) ScoreFinishedMatches(ctx context.Context) (ScoringResult, error) {
	ctx, span := startUsecaseSpan(ctx, "ScoringService.ScoreFinishedMatches")
	defer span.End()

	var finished []match.Match
	for _, competition := range league.SupportedCompetitions() {
		items, err := s.matchRepo.ListFinished(ctx, string(competition))
		if err != nil {
			return ScoringResult{}, fmt.Errorf("list finished matches for %s: %w", competition, err)
		}
		finished = append(finished, items...)
	}
	if len(finished) == 0 {
		return ScoringResult{}, nil
	}

	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return ScoringResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var scored, awarded, failed atomic.Int64

	var workers sync.WaitGroup
	for _, m := range finished {
		m := m
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			count, points, taskErr := s.scoreMatch(ctx, m)
			scored.Add(int64(count))
			awarded.Add(int64(points))
			if taskErr != nil {
				failed.Add(1)
				s.logger.ErrorContext(ctx, "score match failed",
					"match_id", m.ID,
					"competition_id", m.CompetitionID,
					"error", taskErr,
				)
			}
		}); err != nil {
			workers.Done()
			failed.Add(1)
		}
	}
	workers.Wait()

	result := ScoringResult{
		MatchesProcessed:  len(finished),
		PredictionsScored: int(scored.Load()),
		PointsAwarded:     int(awarded.Load()),
		Failed:            int(failed.Load()),
	}
	s.logger.InfoContext(ctx, "scoring run finished",
		"matches_processed", result.MatchesProcessed,
		"predictions_scored", result.PredictionsScored,
		"points_awarded", result.PointsAwarded,
		"failed", result.Failed,
	)
	return result, nil
}

func (s *ScoringService) scoreMatch(ctx context.Context, m match.Match) (int, int, error) {
	if !m.HasResult() {
		return 0, 0, nil
	}

	pending, err := s.predictionRepo.ListUnscoredByMatch(ctx, m.ID)
	if err != nil {
		return 0, 0, fmt.Errorf("list unscored predictions: %w", err)
	}

	leagues := make(map[string]*league.League)
	scored := 0
	awarded := 0
	for _, p := range pending {
		item, ok := leagues[p.LeagueID]
		if !ok {
			loaded, exists, loadErr := s.leagueRepo.GetByID(ctx, p.LeagueID)
			if loadErr != nil {
				return scored, awarded, fmt.Errorf("get league %s: %w", p.LeagueID, loadErr)
			}
			if !exists || !loaded.IsActive {
				leagues[p.LeagueID] = nil
				continue
			}
			item = &loaded
			leagues[p.LeagueID] = item
		}
		if item == nil {
			continue
		}

		points := awardPoints(p, m, item.Settings)
		now := s.now().UTC()
		p.Points = &points
		p.ScoredAt = &now
		p.UpdatedAt = now

		if err := s.predictionRepo.Update(ctx, p); err != nil {
			return scored, awarded, fmt.Errorf("mark prediction %s scored: %w", p.ID, err)
		}
		scored++

		if points > 0 {
			if err := s.leagueRepo.UpdateParticipantPoints(ctx, p.LeagueID, p.UserID, points); err != nil {
				return scored, awarded, fmt.Errorf("add points for user %s in league %s: %w", p.UserID, p.LeagueID, err)
			}
			awarded += points
		}
	}
	return scored, awarded, nil
}

// awardPoints applies the league's scoring settings: exact score beats
// correct outcome, anything else earns nothing.
func awardPoints(p prediction.Prediction, m match.Match, settings league.Settings) int {
	home, away := *m.HomeScore, *m.AwayScore
	if p.HomeGoals == home && p.AwayGoals == away {
		return settings.PointsPerExactScore
	}
	if sign(p.HomeGoals-p.AwayGoals) == sign(home-away) {
		return settings.PointsPerCorrectResult
	}
	return 0
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	default:
		return 0
	}
}
