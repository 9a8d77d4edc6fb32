package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/quinielago/quiniela-api/internal/domain/match"
	qb "github.com/quinielago/quiniela-api/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID string) (match.Match, bool, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(qb.Eq("public_id", matchID)).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build get match by id query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match by id: %w", err)
	}

	return matchFromRow(row), true, nil
}

func (r *MatchRepository) ListByCompetition(ctx context.Context, competitionID string) ([]match.Match, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(qb.Eq("competition_id", competitionID)).
		OrderBy("kickoff_at ASC", "id ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list matches by competition query: %w", err)
	}

	return r.selectMatches(ctx, query, args, "list matches by competition")
}

func (r *MatchRepository) ListByIDs(ctx context.Context, matchIDs []string) ([]match.Match, error) {
	if len(matchIDs) == 0 {
		return nil, nil
	}

	query, args, err := qb.Select("*").From("matches").
		Where(qb.Expr("public_id = ANY(?)", pq.Array(matchIDs))).
		OrderBy("kickoff_at ASC", "id ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list matches by ids query: %w", err)
	}

	return r.selectMatches(ctx, query, args, "list matches by ids")
}

func (r *MatchRepository) ListFinished(ctx context.Context, competitionID string) ([]match.Match, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(
			qb.Eq("competition_id", competitionID),
			qb.Eq("status", string(match.StatusFinished)),
			qb.NotNull("home_score"),
			qb.NotNull("away_score"),
		).
		OrderBy("kickoff_at ASC", "id ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list finished matches query: %w", err)
	}

	return r.selectMatches(ctx, query, args, "list finished matches")
}

func (r *MatchRepository) Upsert(ctx context.Context, m match.Match) error {
	insertModel := matchInsertModel{
		PublicID:      m.ID,
		ExternalID:    m.ExternalID,
		CompetitionID: m.CompetitionID,
		Season:        m.Season,
		Round:         m.Round,
		HomeTeam:      m.HomeTeam,
		AwayTeam:      m.AwayTeam,
		HomeScore:     m.HomeScore,
		AwayScore:     m.AwayScore,
		Status:        string(m.Status),
		KickoffAt:     m.KickoffAt,
		Venue:         m.Venue,
	}
	query, args, err := qb.InsertModel("matches", insertModel, `ON CONFLICT (public_id)
DO UPDATE SET
    home_score = EXCLUDED.home_score,
    away_score = EXCLUDED.away_score,
    status = EXCLUDED.status,
    kickoff_at = EXCLUDED.kickoff_at,
    venue = EXCLUDED.venue,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert match query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert match: %w", err)
	}

	return nil
}

func (r *MatchRepository) selectMatches(ctx context.Context, query string, args []any, op string) ([]match.Match, error) {
	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchFromRow(row))
	}
	return out, nil
}
