package postgres

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

func TestIsNotFound(t *testing.T) {
	if !isNotFound(sql.ErrNoRows) {
		t.Fatalf("expected true for sql.ErrNoRows")
	}
	if !isNotFound(fmt.Errorf("get user: %w", sql.ErrNoRows)) {
		t.Fatalf("expected true for wrapped sql.ErrNoRows")
	}
	if isNotFound(fmt.Errorf("connection refused")) {
		t.Fatalf("expected false for unrelated error")
	}
}

func TestIsUniqueViolation(t *testing.T) {
	uniqueErr := &pq.Error{Code: uniqueViolationCode, Constraint: usersEmailConstraint}

	t.Run("matches named constraint", func(t *testing.T) {
		if !isUniqueViolation(uniqueErr, usersEmailConstraint) {
			t.Fatalf("expected true for matching constraint")
		}
	})

	t.Run("matches any constraint when name is empty", func(t *testing.T) {
		if !isUniqueViolation(uniqueErr, "") {
			t.Fatalf("expected true for empty constraint filter")
		}
	})

	t.Run("matches wrapped error", func(t *testing.T) {
		wrapped := fmt.Errorf("create user: %w", uniqueErr)
		if !isUniqueViolation(wrapped, usersEmailConstraint) {
			t.Fatalf("expected true for wrapped pq error")
		}
	})

	t.Run("ignores other constraint", func(t *testing.T) {
		if isUniqueViolation(uniqueErr, leaguesInviteCodeConstraint) {
			t.Fatalf("expected false for different constraint")
		}
	})

	t.Run("ignores other code", func(t *testing.T) {
		fkErr := &pq.Error{Code: "23503", Constraint: usersEmailConstraint}
		if isUniqueViolation(fkErr, usersEmailConstraint) {
			t.Fatalf("expected false for non-unique violation")
		}
	})

	t.Run("ignores plain error", func(t *testing.T) {
		if isUniqueViolation(fmt.Errorf("boom"), "") {
			t.Fatalf("expected false for plain error")
		}
	})
}
