package config

import (
	"fmt"
	"os"
	"time"

	"github.com/lifepost/lifepost/internal/common/constants"
	commonerrors "github.com/lifepost/lifepost/internal/common/errors"
)

type Config struct {
	HTTPPort                string
	DatabaseURL             string
	SessionSecret           string
	SessionTTL              time.Duration
	UploadDir               string
	RequestTimeout          time.Duration
	CircuitBreakerThreshold int32
	CircuitBreakerTimeout   time.Duration
	CircuitBreakerReset     time.Duration
}

func Load() (Config, error) {
	sessionSecret, err := mustEnv("SESSION_SECRET")
	if err != nil {
		return Config{}, err
	}

	if len(sessionSecret) < constants.SessionSecretMinLength {
		return Config{}, fmt.Errorf("%w: got %d bytes", commonerrors.ErrInvalidSessionSecret, len(sessionSecret))
	}

	databaseURL, err := mustEnv("DATABASE_URL")
	if err != nil {
		return Config{}, err
	}

	return Config{
		HTTPPort:                getEnv("HTTP_PORT", constants.DefaultHTTPPort),
		DatabaseURL:             databaseURL,
		SessionSecret:           sessionSecret,
		SessionTTL:              getDurationEnv("SESSION_TTL", constants.DefaultSessionTTL),
		UploadDir:               getEnv("UPLOAD_DIR", constants.DefaultUploadDir),
		RequestTimeout:          getDurationEnv("REQUEST_TIMEOUT", constants.DefaultRequestTimeout),
		CircuitBreakerThreshold: constants.DefaultCircuitBreakerThreshold,
		CircuitBreakerTimeout:   getDurationEnv("CIRCUIT_BREAKER_TIMEOUT", constants.DefaultCircuitBreakerTimeout),
		CircuitBreakerReset:     getDurationEnv("CIRCUIT_BREAKER_RESET", constants.DefaultCircuitBreakerReset),
	}, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func mustEnv(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", fmt.Errorf("%w: %s", commonerrors.ErrMissingRequiredEnv, key)
	}
	return v, nil
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
