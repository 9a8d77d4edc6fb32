package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/quinielago/quiniela-api/internal/domain/league"
	qb "github.com/quinielago/quiniela-api/internal/platform/querybuilder"
)

const (
	leaguesInviteCodeConstraint      = "leagues_invite_code_key"
	leagueParticipantsUserConstraint = "league_participants_league_public_id_user_id_key"
)

// lockLeagueForJoinQuery serializes joins on the league row. Under read
// committed a bare COUNT cannot see a concurrent join's uncommitted
// row, so the count below only holds once this lock has drained every
// earlier joiner.
const lockLeagueForJoinQuery = `
SELECT max_participants
FROM leagues
WHERE public_id = $1
  AND is_active
FOR UPDATE
`

const countParticipantsQuery = `
SELECT COUNT(*)
FROM league_participants
WHERE league_public_id = $1
`

type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func (r *LeagueRepository) Create(ctx context.Context, l league.League) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx create league: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	insertModel := leagueInsertModel{
		PublicID:               l.ID,
		Name:                   l.Name,
		Description:            l.Description,
		CompetitionID:          string(l.CompetitionID),
		Visibility:             string(l.Visibility),
		InviteCode:             strings.ToUpper(l.InviteCode),
		AdminUserID:            l.AdminUserID,
		MaxParticipants:        l.Settings.MaxParticipants,
		PointsPerExactScore:    l.Settings.PointsPerExactScore,
		PointsPerCorrectResult: l.Settings.PointsPerCorrectResult,
		IsActive:               l.IsActive,
		CreatedAt:              l.CreatedAt,
		UpdatedAt:              l.UpdatedAt,
	}
	query, args, err := qb.InsertModel("leagues", insertModel, "")
	if err != nil {
		return fmt.Errorf("build create league query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err, leaguesInviteCodeConstraint) {
			return league.ErrDuplicateCode
		}
		return fmt.Errorf("create league: %w", err)
	}

	for _, p := range l.Participants {
		participantQuery, participantArgs, err := qb.InsertInto("league_participants").
			Columns("league_public_id", "user_id", "team_name", "points", "joined_at").
			Values(l.ID, p.UserID, p.TeamName, p.Points, p.JoinedAt).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build create league participant query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, participantQuery, participantArgs...); err != nil {
			return fmt.Errorf("create league participant: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create league tx: %w", err)
	}

	return nil
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID string) (league.League, bool, error) {
	return r.getOne(ctx, qb.Eq("public_id", leagueID), qb.Eq("is_active", true))
}

func (r *LeagueRepository) GetByInviteCode(ctx context.Context, inviteCode string) (league.League, bool, error) {
	code := strings.ToUpper(strings.TrimSpace(inviteCode))
	return r.getOne(ctx, qb.Eq("invite_code", code), qb.Eq("is_active", true))
}

func (r *LeagueRepository) CodeExists(ctx context.Context, inviteCode string) (bool, error) {
	code := strings.ToUpper(strings.TrimSpace(inviteCode))
	query, args, err := qb.Select("1").From("leagues").
		Where(qb.Eq("invite_code", code)).
		Limit(1).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build code exists query: %w", err)
	}

	var one int
	if err := r.db.GetContext(ctx, &one, query, args...); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("code exists: %w", err)
	}

	return true, nil
}

func (r *LeagueRepository) ListByParticipant(ctx context.Context, userID string) ([]league.League, error) {
	query, args, err := qb.Select("l.*").
		From("leagues l JOIN league_participants lp ON lp.league_public_id = l.public_id").
		Where(
			qb.Eq("lp.user_id", userID),
			qb.Eq("l.is_active", true),
		).
		OrderBy("l.created_at DESC", "l.id DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list leagues by participant query: %w", err)
	}

	var rows []leagueTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list leagues by participant: %w", err)
	}

	out := make([]league.League, 0, len(rows))
	for _, row := range rows {
		item, err := r.hydrate(ctx, row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

// AddParticipant appends inside a transaction that locks the league row
// before counting, so at most one of N racing joins can take the last
// slot.
func (r *LeagueRepository) AddParticipant(ctx context.Context, leagueID string, p league.Participant) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx add participant: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var maxParticipants int
	if err := tx.GetContext(ctx, &maxParticipants, lockLeagueForJoinQuery, leagueID); err != nil {
		if isNotFound(err) {
			// The league is gone or inactive. Callers check existence
			// first.
			return league.ErrLeagueFull
		}
		return fmt.Errorf("lock league for join: %w", err)
	}

	var participants int
	if err := tx.GetContext(ctx, &participants, countParticipantsQuery, leagueID); err != nil {
		return fmt.Errorf("count league participants: %w", err)
	}
	if participants >= maxParticipants {
		return league.ErrLeagueFull
	}

	query, args, err := qb.InsertInto("league_participants").
		Columns("league_public_id", "user_id", "team_name", "points", "joined_at").
		Values(leagueID, p.UserID, p.TeamName, p.Points, p.JoinedAt).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build add participant query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err, leagueParticipantsUserConstraint) {
			return league.ErrAlreadyParticipant
		}
		return fmt.Errorf("add participant: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit add participant tx: %w", err)
	}

	return nil
}

func (r *LeagueRepository) SoftDelete(ctx context.Context, leagueID string) error {
	query, args, err := qb.Update("leagues").
		Set("is_active", false).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", leagueID),
			qb.Eq("is_active", true),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build soft delete league query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("soft delete league: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected soft delete league: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("soft delete league: not found")
	}

	return nil
}

func (r *LeagueRepository) UpdateParticipantPoints(ctx context.Context, leagueID, userID string, delta int) error {
	query, args, err := qb.Update("league_participants").
		SetExpr("points", "points + ?", delta).
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.Eq("user_id", userID),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update participant points query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update participant points: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected update participant points: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update participant points: participant not found")
	}

	return nil
}

func (r *LeagueRepository) getOne(ctx context.Context, conds ...qb.Condition) (league.League, bool, error) {
	query, args, err := qb.Select("*").From("leagues").
		Where(conds...).
		ToSQL()
	if err != nil {
		return league.League{}, false, fmt.Errorf("build get league query: %w", err)
	}

	var row leagueTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("get league: %w", err)
	}

	item, err := r.hydrate(ctx, row)
	if err != nil {
		return league.League{}, false, err
	}
	return item, true, nil
}

// hydrate attaches the participant list to a league row.
func (r *LeagueRepository) hydrate(ctx context.Context, row leagueTableModel) (league.League, error) {
	query, args, err := qb.Select("*").From("league_participants").
		Where(qb.Eq("league_public_id", row.PublicID)).
		OrderBy("joined_at ASC", "id ASC").
		ToSQL()
	if err != nil {
		return league.League{}, fmt.Errorf("build list league participants query: %w", err)
	}

	var participantRows []leagueParticipantTableModel
	if err := r.db.SelectContext(ctx, &participantRows, query, args...); err != nil {
		return league.League{}, fmt.Errorf("list league participants: %w", err)
	}

	participants := make([]league.Participant, 0, len(participantRows))
	for _, p := range participantRows {
		participants = append(participants, league.Participant{
			UserID:   p.UserID,
			TeamName: p.TeamName,
			JoinedAt: p.JoinedAt,
			Points:   p.Points,
		})
	}

	return league.League{
		ID:            row.PublicID,
		Name:          row.Name,
		Description:   row.Description,
		CompetitionID: league.CompetitionID(row.CompetitionID),
		Visibility:    league.Visibility(row.Visibility),
		InviteCode:    row.InviteCode,
		AdminUserID:   row.AdminUserID,
		Participants:  participants,
		Settings: league.Settings{
			MaxParticipants:        row.MaxParticipants,
			PointsPerExactScore:    row.PointsPerExactScore,
			PointsPerCorrectResult: row.PointsPerCorrectResult,
		},
		IsActive:  row.IsActive,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}
