// Package identityctx carries the per-request resolved identity. The session
// middleware populates it once per request; guards and handlers read it
// explicitly instead of consulting any global session state.
package identityctx

import (
	"context"

	userdomain "github.com/lifepost/lifepost/internal/user/domain"
)

type contextKey struct{}

func With(ctx context.Context, user userdomain.User) context.Context {
	return context.WithValue(ctx, contextKey{}, user)
}

func From(ctx context.Context) (userdomain.User, bool) {
	user, ok := ctx.Value(contextKey{}).(userdomain.User)
	return user, ok
}
