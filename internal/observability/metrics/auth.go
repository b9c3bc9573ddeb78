package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RegistrationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lifepost_registrations_total",
			Help: "Total number of successful registrations",
		},
	)

	LoginsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lifepost_logins_total",
			Help: "Total number of successful logins",
		},
	)

	LoginFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lifepost_login_failures_total",
			Help: "Total number of failed logins by reason",
		},
		[]string{"reason"},
	)

	SessionsIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lifepost_sessions_issued_total",
			Help: "Total number of session tokens issued",
		},
	)

	SessionsResolved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lifepost_sessions_resolved_total",
			Help: "Total number of session tokens resolved to an identity",
		},
	)

	SessionsStale = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lifepost_sessions_stale_total",
			Help: "Total number of session tokens that failed to resolve",
		},
	)

	OwnershipDenied = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lifepost_ownership_denied_total",
			Help: "Total number of ownership checks that denied access",
		},
	)
)
