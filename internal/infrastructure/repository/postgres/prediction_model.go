package postgres

import (
	"database/sql"
	"time"

	"github.com/quinielago/quiniela-api/internal/domain/prediction"
)

type predictionTableModel struct {
	ID             int64         `db:"id"`
	PublicID       string        `db:"public_id"`
	LeaguePublicID string        `db:"league_public_id"`
	UserID         string        `db:"user_id"`
	MatchPublicID  string        `db:"match_public_id"`
	HomeGoals      int           `db:"home_goals"`
	AwayGoals      int           `db:"away_goals"`
	Points         sql.NullInt64 `db:"points"`
	ScoredAt       *time.Time    `db:"scored_at"`
	CreatedAt      time.Time     `db:"created_at"`
	UpdatedAt      time.Time     `db:"updated_at"`
}

type predictionInsertModel struct {
	PublicID       string    `db:"public_id"`
	LeaguePublicID string    `db:"league_public_id"`
	UserID         string    `db:"user_id"`
	MatchPublicID  string    `db:"match_public_id"`
	HomeGoals      int       `db:"home_goals"`
	AwayGoals      int       `db:"away_goals"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func predictionFromRow(row predictionTableModel) prediction.Prediction {
	return prediction.Prediction{
		ID:        row.PublicID,
		LeagueID:  row.LeaguePublicID,
		UserID:    row.UserID,
		MatchID:   row.MatchPublicID,
		HomeGoals: row.HomeGoals,
		AwayGoals: row.AwayGoals,
		Points:    nullInt64ToIntPtr(row.Points),
		ScoredAt:  row.ScoredAt,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
