// Package session binds an authenticated identity to a durable session token
// and resolves it back on every request. The token payload is the identity id
// and an opaque session id only; the user store stays the single source of
// truth for everything else.
package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	commoncrypto "github.com/lifepost/lifepost/internal/common/crypto"
	commonerrors "github.com/lifepost/lifepost/internal/common/errors"
	"github.com/lifepost/lifepost/internal/common/logger"
	"github.com/lifepost/lifepost/internal/observability/metrics"
	userdomain "github.com/lifepost/lifepost/internal/user/domain"
	userrepo "github.com/lifepost/lifepost/internal/user/repository"
)

// ErrStaleSession covers every way a presented token can fail to resolve:
// malformed, expired, or bound to an identity that no longer exists. Callers
// treat it as "not authenticated", never as a fatal error.
var ErrStaleSession = commonerrors.NewDomainError(
	"STALE_SESSION",
	commonerrors.CategoryUnauthorized,
	http.StatusUnauthorized,
	"session is no longer valid",
)

type Binder struct {
	repo        userrepo.Repository
	idGenerator commoncrypto.IDGenerator
	secret      []byte
	ttl         time.Duration
	now         func() time.Time
	log         *logger.Logger
}

func NewBinder(
	repo userrepo.Repository,
	idGenerator commoncrypto.IDGenerator,
	secret string,
	ttl time.Duration,
	log *logger.Logger,
) *Binder {
	return &Binder{
		repo:        repo,
		idGenerator: idGenerator,
		secret:      []byte(secret),
		ttl:         ttl,
		now:         time.Now,
		log:         log,
	}
}

// Bind issues a signed token whose durable payload is the identity's id
// (sub) plus an opaque session id (jti). No other identity fields are
// embedded, so the token can never carry a stale copy of a mutable field.
func (b *Binder) Bind(user userdomain.User) (string, error) {
	jti, err := b.idGenerator.NewID()
	if err != nil {
		return "", err
	}

	now := b.now()
	claims := jwt.MapClaims{
		"sub": string(user.ID),
		"jti": jti,
		"iat": now.Unix(),
		"exp": now.Add(b.ttl).Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(b.secret)
	if err != nil {
		return "", err
	}

	metrics.SessionsIssued.Inc()
	return token, nil
}

// Resolve verifies the token and performs a fresh store lookup by id on
// every call; a cached identity snapshot is never trusted.
func (b *Binder) Resolve(ctx context.Context, token string) (userdomain.User, error) {
	id, err := b.parseToken(token)
	if err != nil {
		metrics.SessionsStale.Inc()
		return userdomain.User{}, ErrStaleSession.WithCause(err)
	}

	user, err := b.repo.FindByID(ctx, userdomain.ID(id))
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			b.log.WithFields(ctx, logger.Fields{
				"user_id": id,
				"action":  "session_stale",
			}).Warn("session resolved to missing identity")
			metrics.SessionsStale.Inc()
			return userdomain.User{}, ErrStaleSession
		}
		return userdomain.User{}, err
	}

	metrics.SessionsResolved.Inc()
	return user, nil
}

func (b *Binder) parseToken(token string) (string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return b.secret, nil
	}, jwt.WithTimeFunc(b.now))
	if err != nil || !parsed.Valid {
		if err == nil {
			err = errors.New("token is not valid")
		}
		return "", err
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid claims type")
	}

	sub, _ := mapClaims["sub"].(string)
	if sub == "" {
		return "", errors.New("missing sub claim")
	}

	return sub, nil
}
