package postgres

import "time"

type leagueTableModel struct {
	ID                     int64     `db:"id"`
	PublicID               string    `db:"public_id"`
	Name                   string    `db:"name"`
	Description            string    `db:"description"`
	CompetitionID          string    `db:"competition_id"`
	Visibility             string    `db:"visibility"`
	InviteCode             string    `db:"invite_code"`
	AdminUserID            string    `db:"admin_user_id"`
	MaxParticipants        int       `db:"max_participants"`
	PointsPerExactScore    int       `db:"points_per_exact_score"`
	PointsPerCorrectResult int       `db:"points_per_correct_result"`
	IsActive               bool      `db:"is_active"`
	CreatedAt              time.Time `db:"created_at"`
	UpdatedAt              time.Time `db:"updated_at"`
}

type leagueInsertModel struct {
	PublicID               string    `db:"public_id"`
	Name                   string    `db:"name"`
	Description            string    `db:"description"`
	CompetitionID          string    `db:"competition_id"`
	Visibility             string    `db:"visibility"`
	InviteCode             string    `db:"invite_code"`
	AdminUserID            string    `db:"admin_user_id"`
	MaxParticipants        int       `db:"max_participants"`
	PointsPerExactScore    int       `db:"points_per_exact_score"`
	PointsPerCorrectResult int       `db:"points_per_correct_result"`
	IsActive               bool      `db:"is_active"`
	CreatedAt              time.Time `db:"created_at"`
	UpdatedAt              time.Time `db:"updated_at"`
}

type leagueParticipantTableModel struct {
	ID             int64     `db:"id"`
	LeaguePublicID string    `db:"league_public_id"`
	UserID         string    `db:"user_id"`
	TeamName       string    `db:"team_name"`
	Points         int       `db:"points"`
	JoinedAt       time.Time `db:"joined_at"`
}
