// Package match holds fixture data for the supported competitions.
package match

import "time"

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusLive      Status = "live"
	StatusFinished  Status = "finished"
	StatusPostponed Status = "postponed"
	StatusCancelled Status = "cancelled"
)

// Match is a single fixture. HomeScore and AwayScore are nil until the
// match has a result.
type Match struct {
	ID            string
	ExternalID    string
	CompetitionID string
	Season        string
	Round         string
	HomeTeam      string
	AwayTeam      string
	HomeScore     *int
	AwayScore     *int
	Status        Status
	KickoffAt     time.Time
	Venue         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// OpenForPredictions reports whether predictions may still be placed on
// the match. A match closes at kickoff or as soon as it leaves the
// scheduled state, whichever comes first.
func (m Match) OpenForPredictions(now time.Time) bool {
	return m.Status == StatusScheduled && now.Before(m.KickoffAt)
}

// HasResult reports whether the match has a final score.
func (m Match) HasResult() bool {
	return m.Status == StatusFinished && m.HomeScore != nil && m.AwayScore != nil
}
