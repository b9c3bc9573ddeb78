package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PostsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lifepost_posts_created_total",
			Help: "Total number of posts created",
		},
	)

	PostsUpdated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lifepost_posts_updated_total",
			Help: "Total number of posts updated",
		},
	)

	PostsDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lifepost_posts_deleted_total",
			Help: "Total number of posts deleted",
		},
	)

	ImagesStored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lifepost_images_stored_total",
			Help: "Total number of uploaded images stored",
		},
	)

	FeedConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "lifepost_feed_connections_active",
			Help: "Number of active feed websocket connections",
		},
	)

	FeedEventsBroadcast = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lifepost_feed_events_broadcast_total",
			Help: "Total number of feed events broadcast by type",
		},
		[]string{"type"},
	)
)
