package match

import "context"

type Repository interface {
	GetByID(ctx context.Context, matchID string) (Match, bool, error)
	// ListByCompetition returns the fixtures for a competition ordered
	// by kickoff time ascending.
	ListByCompetition(ctx context.Context, competitionID string) ([]Match, error)
	ListByIDs(ctx context.Context, matchIDs []string) ([]Match, error)
	// ListFinished returns finished matches with a recorded score for a
	// competition. Used by the scoring job.
	ListFinished(ctx context.Context, competitionID string) ([]Match, error)
	Upsert(ctx context.Context, m Match) error
}
