package user

import (
	"context"

	"github.com/cockroachdb/errors"
)

var ErrDuplicateEmail = errors.New("email is already registered")

type Repository interface {
	// Create persists a new user. Returns ErrDuplicateEmail when the
	// email uniqueness constraint is violated.
	Create(ctx context.Context, u User) error
	GetByID(ctx context.Context, userID string) (User, bool, error)
	GetByEmail(ctx context.Context, email string) (User, bool, error)
	// ListByIDs returns the users for the given ids; missing ids are
	// silently skipped. Used to enrich league detail responses.
	ListByIDs(ctx context.Context, userIDs []string) ([]User, error)
	Update(ctx context.Context, u User) error
}
