package service

import (
	"net/http"

	commonerrors "github.com/lifepost/lifepost/internal/common/errors"
)

var (
	ErrPostNotFound = commonerrors.ErrPostNotFound

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
