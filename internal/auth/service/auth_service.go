package service

import (
	"context"
	"errors"
	"time"

	commoncrypto "github.com/lifepost/lifepost/internal/common/crypto"
	commonerrors "github.com/lifepost/lifepost/internal/common/errors"
	"github.com/lifepost/lifepost/internal/common/logger"
	"github.com/lifepost/lifepost/internal/common/resilience"
	userdomain "github.com/lifepost/lifepost/internal/user/domain"
	userrepo "github.com/lifepost/lifepost/internal/user/repository"
)

// AuthService verifies credentials against the user store and registers new
// identities. It never mutates an existing identity.
type AuthService struct {
	repo        userrepo.Repository
	hasher      commoncrypto.PasswordHasher
	idGenerator commoncrypto.IDGenerator
	breaker     *resilience.CircuitBreaker
	now         func() time.Time
	log         *logger.Logger
}

func NewAuthService(
	repo userrepo.Repository,
	hasher commoncrypto.PasswordHasher,
	idGenerator commoncrypto.IDGenerator,
	breaker *resilience.CircuitBreaker,
	log *logger.Logger,
) *AuthService {
	return &AuthService{
		repo:        repo,
		hasher:      hasher,
		idGenerator: idGenerator,
		breaker:     breaker,
		now:         time.Now,
		log:         log,
	}
}

type RegisterInput struct {
	Name            string
	Email           string
	Username        string
	Password        string
	PasswordConfirm string
}

type LoginInput struct {
	Username string
	Password string
}

// Login verifies a (username, password) pair. An unknown username fails with
// ErrNoSuchUser, a wrong password with ErrInvalidCredentials; on success the
// full identity is returned. No state is mutated.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (userdomain.User, error) {
	s.log.WithFields(ctx, logger.Fields{
		"username": input.Username,
		"action":   "login_attempt",
	}).Info("login attempt")

	var user userdomain.User
	err := s.callStore(ctx, func(ctx context.Context) error {
		found, err := s.repo.FindByUsername(ctx, input.Username)
		if err != nil {
			if errors.Is(err, userrepo.ErrUserNotFound) {
				return ErrNoSuchUser
			}
			return ErrStorage.WithCause(err)
		}
		user = found
		return nil
	})
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "login_lookup_failed",
		}).Warnf("login failed: %v", err)
		if errors.Is(err, ErrNoSuchUser) {
			incrementLoginFailure("no_such_user")
		}
		return userdomain.User{}, err
	}

	if err := s.hasher.Compare(user.PasswordHash, input.Password); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "login_invalid_password",
		}).Warn("login failed: invalid password")
		incrementLoginFailure("invalid_password")
		return userdomain.User{}, ErrInvalidCredentials
	}

	s.log.WithFields(ctx, logger.Fields{
		"username": user.Username,
		"user_id":  string(user.ID),
		"action":   "login_success",
	}).Info("login success")

	incrementLogins()
	return user, nil
}

// Register validates the input, hashes the password and persists the new
// identity. Validation failures carry the full list of field errors.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (userdomain.User, error) {
	s.log.WithFields(ctx, logger.Fields{
		"username": input.Username,
		"action":   "register_attempt",
	}).Info("register attempt")

	if err := validateRegistration(input); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_validation_failed",
		}).Warnf("register validation failed: %v", err)
		return userdomain.User{}, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_hash_failed",
		}).Errorf("register failed: password hash error: %v", err)
		return userdomain.User{}, ErrStorage.WithCause(err)
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_id_generation_failed",
		}).Errorf("register failed: id generation error: %v", err)
		return userdomain.User{}, ErrStorage.WithCause(err)
	}

	user := userdomain.User{
		ID:           userdomain.ID(id),
		Name:         input.Name,
		Email:        input.Email,
		Username:     input.Username,
		PasswordHash: hash,
		CreatedAt:    s.now(),
	}

	err = s.callStore(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, user); err != nil {
			if errors.Is(err, userrepo.ErrUsernameAlreadyExists) {
				return ErrUsernameTaken
			}
			return ErrStorage.WithCause(err)
		}
		return nil
	})
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_create_failed",
		}).Warnf("register failed: %v", err)
		return userdomain.User{}, err
	}

	s.log.WithFields(ctx, logger.Fields{
		"username": user.Username,
		"user_id":  string(user.ID),
		"action":   "register_success",
	}).Info("register success")

	incrementRegistrations()
	return user, nil
}

// callStore routes a repository call through the circuit breaker so that an
// unreachable store degrades to a service-unavailable result.
func (s *AuthService) callStore(ctx context.Context, fn func(context.Context) error) error {
	if s.breaker == nil {
		return fn(ctx)
	}
	err := s.breaker.Call(ctx, fn)
	if errors.Is(err, commonerrors.ErrCircuitOpen) {
		return ErrServiceUnavailable.WithCause(err)
	}
	return err
}
