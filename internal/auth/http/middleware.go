package http

import (
	"net/http"
	"strings"

	"github.com/lifepost/lifepost/internal/auth/identityctx"
	"github.com/lifepost/lifepost/internal/auth/session"
	"github.com/lifepost/lifepost/internal/common/logger"
)

const SessionCookieName = "lifepost_session"

// SessionMiddleware resolves the session token once per request and attaches
// the identity to the request context. A missing or stale token leaves the
// request anonymous; protected handlers reject it through the guard.
func SessionMiddleware(binder *session.Binder, log *logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := binder.Resolve(r.Context(), token)
			if err != nil {
				log.WithFields(r.Context(), logger.Fields{
					"path":   r.URL.Path,
					"action": "session_resolve_failed",
				}).Debugf("session resolve failed: %v", err)
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(identityctx.With(r.Context(), user)))
		})
	}
}

func tokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	raw := r.Header.Get("Authorization")
	if strings.HasPrefix(raw, "Bearer ") {
		return strings.TrimPrefix(raw, "Bearer ")
	}

	return ""
}
