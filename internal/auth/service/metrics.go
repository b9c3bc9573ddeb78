package service

import (
	"github.com/lifepost/lifepost/internal/observability/metrics"
)

func incrementRegistrations() {
	metrics.RegistrationsTotal.Inc()
}

func incrementLogins() {
	metrics.LoginsTotal.Inc()
}

func incrementLoginFailure(reason string) {
	metrics.LoginFailuresTotal.WithLabelValues(reason).Inc()
}
