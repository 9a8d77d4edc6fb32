// Package jwt issues and verifies HS256 access tokens.
package jwt

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/quinielago/quiniela-api/internal/domain/user"
)

const DefaultTTL = 7 * 24 * time.Hour

type claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Manager signs and verifies access tokens with a shared secret.
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewManager(secret string, ttl time.Duration) (*Manager, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue mints a token for the principal.
func (m *Manager) Issue(principal user.Principal) (string, error) {
	if strings.TrimSpace(principal.UserID) == "" {
		return "", fmt.Errorf("principal user id is required")
	}

	now := m.now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email: principal.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principal.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// VerifyAccessToken parses and validates a bearer token. Any defect
// (bad signature, wrong algorithm, expiry) fails verification.
func (m *Manager) VerifyAccessToken(_ context.Context, raw string) (user.Principal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return user.Principal{}, fmt.Errorf("token is required")
	}

	parsed, err := jwt.ParseWithClaims(raw, &claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(func() time.Time {
		return m.now()
	}))
	if err != nil {
		return user.Principal{}, fmt.Errorf("parse token: %w", err)
	}

	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid || strings.TrimSpace(c.Subject) == "" {
		return user.Principal{}, fmt.Errorf("invalid token claims")
	}

	return user.Principal{UserID: c.Subject, Email: c.Email}, nil
}
