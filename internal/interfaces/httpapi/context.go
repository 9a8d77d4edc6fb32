package httpapi

import (
	"context"

	"github.com/quinielago/quiniela-api/internal/domain/user"
)

// principalKey is unexported so no other package can collide with or
// forge the authenticated principal.
type principalKey struct{}

func withPrincipal(ctx context.Context, p user.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func principalFromContext(ctx context.Context) (user.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(user.Principal)
	return p, ok
}
