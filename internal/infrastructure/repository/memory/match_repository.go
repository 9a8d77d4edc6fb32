package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/quinielago/quiniela-api/internal/domain/match"
)

type MatchRepository struct {
	mu      sync.RWMutex
	matches map[string]match.Match
}

func NewMatchRepository() *MatchRepository {
	return &MatchRepository{matches: make(map[string]match.Match)}
}

func (r *MatchRepository) GetByID(_ context.Context, matchID string) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.matches[matchID]
	return m, ok, nil
}

func (r *MatchRepository) ListByCompetition(_ context.Context, competitionID string) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []match.Match
	for _, m := range r.matches {
		if m.CompetitionID == competitionID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].KickoffAt.Before(out[j].KickoffAt)
	})
	return out, nil
}

func (r *MatchRepository) ListByIDs(_ context.Context, matchIDs []string) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0, len(matchIDs))
	for _, id := range matchIDs {
		if m, ok := r.matches[id]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *MatchRepository) ListFinished(_ context.Context, competitionID string) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []match.Match
	for _, m := range r.matches {
		if m.CompetitionID == competitionID && m.HasResult() {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].KickoffAt.Before(out[j].KickoffAt)
	})
	return out, nil
}

func (r *MatchRepository) Upsert(_ context.Context, m match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.matches[m.ID] = m
	return nil
}
