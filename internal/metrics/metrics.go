package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ParameterUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wellness_parameter_updates_total",
			Help: "Total number of scenario parameter updates",
		},
		[]string{"scenario", "parameter"},
	)

	ParameterRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wellness_parameter_rejections_total",
			Help: "Total number of rejected scenario parameter updates",
		},
		[]string{"reason"},
	)

	SnapshotSaves = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wellness_snapshot_saves_total",
			Help: "Total number of scenario snapshot saves",
		},
		[]string{"status"},
	)

	DigestEmails = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wellness_digest_emails_total",
			Help: "Total number of scenario digest emails sent",
		},
		[]string{"status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "wellness_http_request_duration_seconds",
			Help: "Duration of HTTP requests in seconds",
		},
		[]string{"route", "method", "status"},
	)
)
