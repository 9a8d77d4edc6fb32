package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/quinielago/quiniela-api/internal/domain/prediction"
	qb "github.com/quinielago/quiniela-api/internal/platform/querybuilder"
)

const predictionsUniqueConstraint = "predictions_league_public_id_user_id_match_public_id_key"

type PredictionRepository struct {
	db *sqlx.DB
}

func NewPredictionRepository(db *sqlx.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

func (r *PredictionRepository) Create(ctx context.Context, p prediction.Prediction) error {
	insertModel := predictionInsertModel{
		PublicID:       p.ID,
		LeaguePublicID: p.LeagueID,
		UserID:         p.UserID,
		MatchPublicID:  p.MatchID,
		HomeGoals:      p.HomeGoals,
		AwayGoals:      p.AwayGoals,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	query, args, err := qb.InsertModel("predictions", insertModel, "")
	if err != nil {
		return fmt.Errorf("build create prediction query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err, predictionsUniqueConstraint) {
			return prediction.ErrDuplicatePrediction
		}
		return fmt.Errorf("create prediction: %w", err)
	}

	return nil
}

func (r *PredictionRepository) GetByID(ctx context.Context, predictionID string) (prediction.Prediction, bool, error) {
	query, args, err := qb.Select("*").From("predictions").
		Where(qb.Eq("public_id", predictionID)).
		ToSQL()
	if err != nil {
		return prediction.Prediction{}, false, fmt.Errorf("build get prediction by id query: %w", err)
	}

	var row predictionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return prediction.Prediction{}, false, nil
		}
		return prediction.Prediction{}, false, fmt.Errorf("get prediction by id: %w", err)
	}

	return predictionFromRow(row), true, nil
}

func (r *PredictionRepository) Update(ctx context.Context, p prediction.Prediction) error {
	builder := qb.Update("predictions").
		Set("home_goals", p.HomeGoals).
		Set("away_goals", p.AwayGoals).
		Set("updated_at", p.UpdatedAt)
	if p.Points != nil {
		builder = builder.Set("points", *p.Points)
	}
	if p.ScoredAt != nil {
		builder = builder.Set("scored_at", *p.ScoredAt)
	}
	query, args, err := builder.
		Where(qb.Eq("public_id", p.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update prediction query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update prediction: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected update prediction: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update prediction: not found")
	}

	return nil
}

func (r *PredictionRepository) ListByLeagueAndUser(ctx context.Context, leagueID, userID string) ([]prediction.Prediction, error) {
	query, args, err := qb.Select("*").From("predictions").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.Eq("user_id", userID),
		).
		OrderBy("created_at ASC", "id ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list predictions by league and user query: %w", err)
	}

	var rows []predictionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list predictions by league and user: %w", err)
	}

	out := make([]prediction.Prediction, 0, len(rows))
	for _, row := range rows {
		out = append(out, predictionFromRow(row))
	}
	return out, nil
}

func (r *PredictionRepository) ListUnscoredByMatch(ctx context.Context, matchID string) ([]prediction.Prediction, error) {
	query, args, err := qb.Select("*").From("predictions").
		Where(
			qb.Eq("match_public_id", matchID),
			qb.IsNull("scored_at"),
		).
		OrderBy("id ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list unscored predictions query: %w", err)
	}

	var rows []predictionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list unscored predictions: %w", err)
	}

	out := make([]prediction.Prediction, 0, len(rows))
	for _, row := range rows {
		out = append(out, predictionFromRow(row))
	}
	return out, nil
}
