package league

import (
	"context"

	"github.com/cockroachdb/errors"
)

// Typed failures of the conditional participant append. The storage
// layer serializes concurrent joins per league so that two joins
// against the last open slot cannot both succeed.
var (
	ErrAlreadyParticipant = errors.New("user is already a participant")
	ErrLeagueFull         = errors.New("league has reached max participants")
	ErrDuplicateCode      = errors.New("invite code already exists")
)

type Repository interface {
	// Create persists a new league with its initial participant list.
	// Returns ErrDuplicateCode when the invite code collides with an
	// existing league (active or soft-deleted).
	Create(ctx context.Context, l League) error

	// GetByID returns an active league. Soft-deleted leagues read as absent.
	GetByID(ctx context.Context, leagueID string) (League, bool, error)

	// GetByInviteCode looks up an active league by its (uppercase) code.
	GetByInviteCode(ctx context.Context, inviteCode string) (League, bool, error)

	// CodeExists reports whether any league, active or not, holds the code.
	CodeExists(ctx context.Context, inviteCode string) (bool, error)

	// ListByParticipant returns active leagues the user belongs to,
	// most recently created first.
	ListByParticipant(ctx context.Context, userID string) ([]League, error)

	// AddParticipant appends a participant as one atomic conditional
	// write: ErrAlreadyParticipant on duplicate membership,
	// ErrLeagueFull when the league is at capacity.
	AddParticipant(ctx context.Context, leagueID string, p Participant) error

	// SoftDelete marks the league inactive. The invite code stays reserved.
	SoftDelete(ctx context.Context, leagueID string) error

	// UpdateParticipantPoints adds delta to a participant's point total.
	UpdateParticipantPoints(ctx context.Context, leagueID, userID string, delta int) error
}
