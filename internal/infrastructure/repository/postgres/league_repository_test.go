package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/quinielago/quiniela-api/internal/domain/league"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	raw, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() {
		_ = raw.Close()
	})

	return sqlx.NewDb(raw, "postgres"), mock
}

const lockQueryPattern = `(?s)SELECT max_participants.*FOR UPDATE`

func TestAddParticipantLocksLeagueBeforeCounting(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	repo := NewLeagueRepository(db)
	joinedAt := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(lockQueryPattern).
		WithArgs("lg1").
		WillReturnRows(sqlmock.NewRows([]string{"max_participants"}).AddRow(5))
	mock.ExpectQuery(`SELECT COUNT\(\*\)`).
		WithArgs("lg1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectExec(`INSERT INTO league_participants`).
		WithArgs("lg1", "u9", "Los Pumas", 0, joinedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.AddParticipant(context.Background(), "lg1", league.Participant{
		UserID:   "u9",
		TeamName: "Los Pumas",
		JoinedAt: joinedAt,
	})
	if err != nil {
		t.Fatalf("AddParticipant: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestAddParticipantAtCapacityRollsBack(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	repo := NewLeagueRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(lockQueryPattern).
		WithArgs("lg1").
		WillReturnRows(sqlmock.NewRows([]string{"max_participants"}).AddRow(5))
	mock.ExpectQuery(`SELECT COUNT\(\*\)`).
		WithArgs("lg1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))
	mock.ExpectRollback()

	err := repo.AddParticipant(context.Background(), "lg1", league.Participant{UserID: "u9", TeamName: "Los Pumas"})
	if !errors.Is(err, league.ErrLeagueFull) {
		t.Fatalf("err = %v, want ErrLeagueFull", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestAddParticipantMissingLeagueReadsAsFull(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	repo := NewLeagueRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(lockQueryPattern).
		WithArgs("lg-gone").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	err := repo.AddParticipant(context.Background(), "lg-gone", league.Participant{UserID: "u9", TeamName: "Los Pumas"})
	if !errors.Is(err, league.ErrLeagueFull) {
		t.Fatalf("err = %v, want ErrLeagueFull", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestAddParticipantDuplicateMembership(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	repo := NewLeagueRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(lockQueryPattern).
		WithArgs("lg1").
		WillReturnRows(sqlmock.NewRows([]string{"max_participants"}).AddRow(5))
	mock.ExpectQuery(`SELECT COUNT\(\*\)`).
		WithArgs("lg1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectExec(`INSERT INTO league_participants`).
		WillReturnError(&pq.Error{Code: uniqueViolationCode, Constraint: leagueParticipantsUserConstraint})
	mock.ExpectRollback()

	err := repo.AddParticipant(context.Background(), "lg1", league.Participant{UserID: "u9", TeamName: "Los Pumas"})
	if !errors.Is(err, league.ErrAlreadyParticipant) {
		t.Fatalf("err = %v, want ErrAlreadyParticipant", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
