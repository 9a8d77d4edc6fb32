package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/quinielago/quiniela-api/internal/domain/prediction"
)

type PredictionRepository struct {
	mu          sync.RWMutex
	predictions map[string]prediction.Prediction
}

func NewPredictionRepository() *PredictionRepository {
	return &PredictionRepository{predictions: make(map[string]prediction.Prediction)}
}

func (r *PredictionRepository) Create(_ context.Context, p prediction.Prediction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.predictions {
		if existing.LeagueID == p.LeagueID && existing.UserID == p.UserID && existing.MatchID == p.MatchID {
			return prediction.ErrDuplicatePrediction
		}
	}
	r.predictions[p.ID] = p
	return nil
}

func (r *PredictionRepository) GetByID(_ context.Context, predictionID string) (prediction.Prediction, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.predictions[predictionID]
	return p, ok, nil
}

func (r *PredictionRepository) Update(_ context.Context, p prediction.Prediction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.predictions[p.ID]; !ok {
		return nil
	}
	r.predictions[p.ID] = p
	return nil
}

func (r *PredictionRepository) ListByLeagueAndUser(_ context.Context, leagueID, userID string) ([]prediction.Prediction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []prediction.Prediction
	for _, p := range r.predictions {
		if p.LeagueID == leagueID && p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *PredictionRepository) ListUnscoredByMatch(_ context.Context, matchID string) ([]prediction.Prediction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []prediction.Prediction
	for _, p := range r.predictions {
		if p.MatchID == matchID && !p.Scored() {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
