package guard

import (
	"context"
	"errors"
	"testing"

	"github.com/lifepost/lifepost/internal/auth/identityctx"
	postdomain "github.com/lifepost/lifepost/internal/post/domain"
	userdomain "github.com/lifepost/lifepost/internal/user/domain"
)

func authedCtx(user userdomain.User) context.Context {
	return identityctx.With(context.Background(), user)
}

func TestGuard_RequireAuthenticated(t *testing.T) {
	g := New(nil)

	if err := g.RequireAuthenticated(context.Background()); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for anonymous context, got %v", err)
	}

	ctx := authedCtx(userdomain.User{ID: "user-123", Name: "Alice"})

	if err := g.RequireAuthenticated(ctx); err != nil {
		t.Fatalf("expected no error for authenticated context, got %v", err)
	}

	// Repeated checks on the same context behave identically.
	if err := g.RequireAuthenticated(ctx); err != nil {
		t.Fatalf("expected second check to pass as well, got %v", err)
	}
}

func TestGuard_Identity(t *testing.T) {
	g := New(nil)

	if _, err := g.Identity(context.Background()); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}

	user := userdomain.User{ID: "user-123", Name: "Alice", Username: "alice"}
	got, err := g.Identity(authedCtx(user))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("expected id %s, got %s", user.ID, got.ID)
	}
}

func TestGuard_RequireOwnership_ByAuthorName(t *testing.T) {
	g := New(ByAuthorName)

	post := postdomain.Post{ID: "post-1", Title: "Hello", Author: "Alice", AuthorID: "user-1"}

	owner := authedCtx(userdomain.User{ID: "user-1", Name: "Alice"})
	if err := g.RequireOwnership(owner, post); err != nil {
		t.Fatalf("expected owner to pass, got %v", err)
	}

	// Name comparison: a different identity with the same display name is
	// treated as the owner.
	sameName := authedCtx(userdomain.User{ID: "user-2", Name: "Alice"})
	if err := g.RequireOwnership(sameName, post); err != nil {
		t.Fatalf("expected same-name identity to pass under name comparison, got %v", err)
	}

	other := authedCtx(userdomain.User{ID: "user-3", Name: "Bob"})
	if err := g.RequireOwnership(other, post); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-owner, got %v", err)
	}

	if err := g.RequireOwnership(context.Background(), post); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for anonymous context, got %v", err)
	}
}

func TestGuard_RequireOwnership_ByAuthorID(t *testing.T) {
	g := New(ByAuthorID)

	post := postdomain.Post{ID: "post-1", Title: "Hello", Author: "Alice", AuthorID: "user-1"}

	owner := authedCtx(userdomain.User{ID: "user-1", Name: "Renamed"})
	if err := g.RequireOwnership(owner, post); err != nil {
		t.Fatalf("expected owner to pass under id comparison, got %v", err)
	}

	sameName := authedCtx(userdomain.User{ID: "user-2", Name: "Alice"})
	if err := g.RequireOwnership(sameName, post); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for same-name non-owner, got %v", err)
	}
}

func TestGuard_DefaultStrategyIsNameBased(t *testing.T) {
	g := New(nil)

	post := postdomain.Post{ID: "post-1", Author: "Alice", AuthorID: "user-1"}
	sameName := authedCtx(userdomain.User{ID: "user-2", Name: "Alice"})

	if err := g.RequireOwnership(sameName, post); err != nil {
		t.Fatalf("expected default guard to compare by name, got %v", err)
	}
}
