// Package guard gates protected operations behind the resolved request
// identity and enforces per-post ownership.
package guard

import (
	"context"
	"net/http"

	"github.com/lifepost/lifepost/internal/auth/identityctx"
	commonerrors "github.com/lifepost/lifepost/internal/common/errors"
	"github.com/lifepost/lifepost/internal/observability/metrics"
	postdomain "github.com/lifepost/lifepost/internal/post/domain"
	userdomain "github.com/lifepost/lifepost/internal/user/domain"
)

var (
	ErrUnauthenticated = commonerrors.NewDomainError(
		"UNAUTHENTICATED",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"please login",
	)

	ErrForbidden = commonerrors.NewDomainError(
		"FORBIDDEN",
		commonerrors.CategoryForbidden,
		http.StatusForbidden,
		"not authorized",
	)
)

// OwnershipStrategy decides whether an identity owns a post.
type OwnershipStrategy func(user userdomain.User, post postdomain.Post) bool

// ByAuthorName compares the post's denormalized author name against the
// identity's display name. This reproduces the legacy behavior: two users
// sharing a display name can modify each other's posts. ByAuthorID is the
// correct comparison; the default stays name-based until the stored data is
// backfilled.
func ByAuthorName(user userdomain.User, post postdomain.Post) bool {
	return post.Author == user.Name
}

// ByAuthorID compares by identity id.
func ByAuthorID(user userdomain.User, post postdomain.Post) bool {
	return post.AuthorID == user.ID
}

type Guard struct {
	owns OwnershipStrategy
}

func New(strategy OwnershipStrategy) *Guard {
	if strategy == nil {
		strategy = ByAuthorName
	}
	return &Guard{owns: strategy}
}

// RequireAuthenticated fails when no resolved identity is present on the
// request context. Success is silent and has no side effects.
func (g *Guard) RequireAuthenticated(ctx context.Context) error {
	if _, ok := identityctx.From(ctx); !ok {
		return ErrUnauthenticated
	}
	return nil
}

// Identity returns the resolved identity, failing with ErrUnauthenticated
// when none is present.
func (g *Guard) Identity(ctx context.Context) (userdomain.User, error) {
	user, ok := identityctx.From(ctx)
	if !ok {
		return userdomain.User{}, ErrUnauthenticated
	}
	return user, nil
}

// RequireOwnership fails with ErrForbidden when the current identity does not
// own the post under the configured strategy.
func (g *Guard) RequireOwnership(ctx context.Context, post postdomain.Post) error {
	user, err := g.Identity(ctx)
	if err != nil {
		return err
	}
	if !g.owns(user, post) {
		metrics.OwnershipDenied.Inc()
		return ErrForbidden
	}
	return nil
}
