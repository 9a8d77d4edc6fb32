package jwt

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/quinielago/quiniela-api/internal/domain/user"
)

func newManager(t *testing.T, ttl time.Duration) *Manager {
	t.Helper()
	m, err := NewManager("test-secret", ttl)
	if err != nil {
		t.Fatalf("NewManager returned error: %v", err)
	}
	return m
}

func TestIssueAndVerify(t *testing.T) {
	m := newManager(t, time.Hour)

	token, err := m.Issue(user.Principal{UserID: "u1", Email: "ana@example.com"})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	principal, err := m.VerifyAccessToken(context.Background(), token)
	if err != nil {
		t.Fatalf("VerifyAccessToken returned error: %v", err)
	}
	if principal.UserID != "u1" || principal.Email != "ana@example.com" {
		t.Fatalf("principal = %+v", principal)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	m := newManager(t, time.Minute)

	issued := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return issued }

	token, err := m.Issue(user.Principal{UserID: "u1"})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	m.now = func() time.Time { return issued.Add(2 * time.Minute) }
	if _, err := m.VerifyAccessToken(context.Background(), token); err == nil {
		t.Fatal("expected expired token to fail verification")
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	m := newManager(t, time.Hour)
	other := newManager(t, time.Hour)
	other.secret = []byte("different-secret")

	token, err := m.Issue(user.Principal{UserID: "u1"})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if _, err := other.VerifyAccessToken(context.Background(), token); err == nil {
		t.Fatal("expected token signed with another secret to fail")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	m := newManager(t, time.Hour)

	for _, raw := range []string{"", "   ", "not.a.jwt", strings.Repeat("x", 64)} {
		if _, err := m.VerifyAccessToken(context.Background(), raw); err == nil {
			t.Fatalf("expected %q to fail verification", raw)
		}
	}
}

func TestNewManagerRequiresSecret(t *testing.T) {
	if _, err := NewManager("  ", time.Hour); err == nil {
		t.Fatal("expected error for empty secret")
	}
}
