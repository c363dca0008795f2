package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studio_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "studio_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "path"},
	)

	// Business metrics
	MessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "studio_messages_sent_total",
			Help: "Total direct messages sent",
		},
	)

	MessagesBlocked = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "studio_messages_blocked_total",
			Help: "Total message operations denied by the mutual-follow gate",
		},
	)

	ConversationsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "studio_conversations_created_total",
			Help: "Total dm conversations created",
		},
	)

	PhotosUploaded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "studio_photos_uploaded_total",
			Help: "Total photos uploaded",
		},
	)

	UsersRegistered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "studio_users_registered_total",
			Help: "Total user accounts registered",
		},
	)
)
