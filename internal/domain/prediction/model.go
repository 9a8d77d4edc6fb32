// Package prediction models score predictions placed by league members.
package prediction

import "time"

// Prediction is one member's predicted score for a match within a
// league. Points and ScoredAt stay nil until the scoring job has
// processed the match result.
type Prediction struct {
	ID        string
	LeagueID  string
	UserID    string
	MatchID   string
	HomeGoals int
	AwayGoals int
	Points    *int
	ScoredAt  *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Scored reports whether the prediction has already been awarded points.
func (p Prediction) Scored() bool {
	return p.ScoredAt != nil
}
