package service

import (
	"net/http"

	commonerrors "github.com/lifepost/lifepost/internal/common/errors"
)

var (
	ErrNoSuchUser = commonerrors.NewDomainError(
		"NO_SUCH_USER",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"no user found with that username",
	)

	ErrInvalidCredentials = commonerrors.NewDomainError(
		"INVALID_CREDENTIALS",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"password invalid",
	)

	ErrUsernameTaken = commonerrors.NewDomainError(
		"USERNAME_TAKEN",
		commonerrors.CategoryConflict,
		http.StatusConflict,
		"username already taken",
	)

	ErrValidation = commonerrors.NewDomainError(
		"VALIDATION_FAILED",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"validation failed",
	)

	ErrServiceUnavailable = commonerrors.NewDomainError(
		"SERVICE_UNAVAILABLE",
		commonerrors.CategoryExternal,
		http.StatusServiceUnavailable,
		"service temporarily unavailable",
	)

	ErrStorage = commonerrors.NewDomainError(
		"DB_ERROR",
		commonerrors.CategoryInternal,
		http.StatusInternalServerError,
		"storage operation failed",
	)
)
