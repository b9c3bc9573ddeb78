package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lifepost/lifepost/internal/common/logger"
	"github.com/lifepost/lifepost/internal/common/resilience"
	userdomain "github.com/lifepost/lifepost/internal/user/domain"
	userrepo "github.com/lifepost/lifepost/internal/user/repository"
)

func TestAuthService_Login_Success(t *testing.T) {
	svc, repo, hasher, _ := setupAuthService(t)

	username := "brad"
	password := "password123"
	hashedPassword := "hashed_password123"

	repo.findByUsernameFunc = func(ctx context.Context, uname string) (userdomain.User, error) {
		if uname != username {
			t.Errorf("expected username %s, got %s", username, uname)
		}
		return userdomain.User{
			ID:           "user-123",
			Name:         "Brad Traversy",
			Username:     username,
			PasswordHash: hashedPassword,
		}, nil
	}

	hasher.compareFunc = func(hash string, pwd string) error {
		if hash != hashedPassword || pwd != password {
			return errors.New("password mismatch")
		}
		return nil
	}

	user, err := svc.Login(context.Background(), LoginInput{
		Username: username,
		Password: password,
	})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if user.ID != "user-123" {
		t.Errorf("expected user id user-123, got %s", user.ID)
	}

	if user.Username != username {
		t.Errorf("expected username %s, got %s", username, user.Username)
	}
}

func TestAuthService_Login_NoSuchUser(t *testing.T) {
	svc, repo, _, _ := setupAuthService(t)

	repo.findByUsernameFunc = func(ctx context.Context, username string) (userdomain.User, error) {
		return userdomain.User{}, userrepo.ErrUserNotFound
	}

	_, err := svc.Login(context.Background(), LoginInput{
		Username: "nobody",
		Password: "whatever",
	})

	if !errors.Is(err, ErrNoSuchUser) {
		t.Fatalf("expected ErrNoSuchUser, got %v", err)
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	svc, repo, hasher, _ := setupAuthService(t)

	repo.findByUsernameFunc = func(ctx context.Context, username string) (userdomain.User, error) {
		return userdomain.User{
			ID:           "user-123",
			Username:     username,
			PasswordHash: "stored-hash",
		}, nil
	}

	hasher.compareFunc = func(hash string, password string) error {
		return errors.New("password mismatch")
	}

	_, err := svc.Login(context.Background(), LoginInput{
		Username: "brad",
		Password: "wrong",
	})

	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_StoreError(t *testing.T) {
	svc, repo, _, _ := setupAuthService(t)

	repo.findByUsernameFunc = func(ctx context.Context, username string) (userdomain.User, error) {
		return userdomain.User{}, errors.New("connection refused")
	}

	_, err := svc.Login(context.Background(), LoginInput{
		Username: "brad",
		Password: "password123",
	})

	if !errors.Is(err, ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
}

func TestAuthService_Login_CircuitOpen(t *testing.T) {
	repo := &mockUserRepo{}
	log, err := logger.New(t.TempDir(), "test", "info")
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	breaker := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		Threshold:  1,
		Timeout:    time.Second,
		ResetAfter: time.Hour,
		Logger:     log,
	})

	svc := NewAuthService(repo, &mockHasher{}, &mockIDGenerator{}, breaker, log)

	repo.findByUsernameFunc = func(ctx context.Context, username string) (userdomain.User, error) {
		return userdomain.User{}, errors.New("connection refused")
	}

	_, err = svc.Login(context.Background(), LoginInput{Username: "brad", Password: "x"})
	if !errors.Is(err, ErrStorage) {
		t.Fatalf("expected ErrStorage on first failure, got %v", err)
	}

	_, err = svc.Login(context.Background(), LoginInput{Username: "brad", Password: "x"})
	if !errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable once circuit is open, got %v", err)
	}
}
