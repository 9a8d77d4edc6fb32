package postgres

import (
	"database/sql"
	"time"

	"github.com/quinielago/quiniela-api/internal/domain/match"
)

type matchTableModel struct {
	ID            int64         `db:"id"`
	PublicID      string        `db:"public_id"`
	ExternalID    string        `db:"external_id"`
	CompetitionID string        `db:"competition_id"`
	Season        string        `db:"season"`
	Round         string        `db:"round"`
	HomeTeam      string        `db:"home_team"`
	AwayTeam      string        `db:"away_team"`
	HomeScore     sql.NullInt64 `db:"home_score"`
	AwayScore     sql.NullInt64 `db:"away_score"`
	Status        string        `db:"status"`
	KickoffAt     time.Time     `db:"kickoff_at"`
	Venue         string        `db:"venue"`
	CreatedAt     time.Time     `db:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at"`
}

type matchInsertModel struct {
	PublicID      string    `db:"public_id"`
	ExternalID    string    `db:"external_id"`
	CompetitionID string    `db:"competition_id"`
	Season        string    `db:"season"`
	Round         string    `db:"round"`
	HomeTeam      string    `db:"home_team"`
	AwayTeam      string    `db:"away_team"`
	HomeScore     *int      `db:"home_score"`
	AwayScore     *int      `db:"away_score"`
	Status        string    `db:"status"`
	KickoffAt     time.Time `db:"kickoff_at"`
	Venue         string    `db:"venue"`
}

func matchFromRow(row matchTableModel) match.Match {
	return match.Match{
		ID:            row.PublicID,
		ExternalID:    row.ExternalID,
		CompetitionID: row.CompetitionID,
		Season:        row.Season,
		Round:         row.Round,
		HomeTeam:      row.HomeTeam,
		AwayTeam:      row.AwayTeam,
		HomeScore:     nullInt64ToIntPtr(row.HomeScore),
		AwayScore:     nullInt64ToIntPtr(row.AwayScore),
		Status:        match.Status(row.Status),
		KickoffAt:     row.KickoffAt,
		Venue:         row.Venue,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}

func nullInt64ToIntPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	out := int(v.Int64)
	return &out
}
