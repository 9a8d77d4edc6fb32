package prediction

import (
	"context"

	"github.com/cockroachdb/errors"
)

// ErrDuplicatePrediction is returned when a member already has a
// prediction for the same match in the same league.
var ErrDuplicatePrediction = errors.New("prediction already exists for match")

type Repository interface {
	Create(ctx context.Context, p Prediction) error
	GetByID(ctx context.Context, predictionID string) (Prediction, bool, error)
	Update(ctx context.Context, p Prediction) error
	ListByLeagueAndUser(ctx context.Context, leagueID, userID string) ([]Prediction, error)
	// ListUnscoredByMatch returns predictions for a match that have not
	// been awarded points yet, across every league.
	ListUnscoredByMatch(ctx context.Context, matchID string) ([]Prediction, error)
}
