// Package metrics provides Prometheus metrics for the dashboard and collector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "maritime_desk"

// Upstream fetch outcomes.
const (
	StatusOK    = "ok"
	StatusEmpty = "empty"
	StatusError = "error"
)

var (
	// UpstreamFetchTotal counts upstream fetches by feed and outcome.
	UpstreamFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_fetch_total",
			Help:      "Total number of upstream fetches",
		},
		[]string{"feed", "status"},
	)

	// UpstreamFetchDuration measures upstream fetch duration.
	UpstreamFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_fetch_duration_seconds",
			Help:      "Duration of upstream fetches in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"feed"},
	)

	// ArticlesPublishedTotal counts articles handed to the publisher fanout.
	ArticlesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "articles_published_total",
			Help:      "Total number of articles published by the collector",
		},
		[]string{"watch", "status"},
	)

	// SinkDeliveriesTotal counts article deliveries per downstream publisher.
	SinkDeliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sink_deliveries_total",
			Help:      "Total number of article deliveries by publisher and outcome",
		},
		[]string{"watch", "publisher", "type", "status"},
	)

	// ArticlesSkippedTotal counts articles dropped as already seen.
	ArticlesSkippedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "articles_skipped_total",
			Help:      "Total number of articles skipped because they were already published",
		},
		[]string{"watch"},
	)
)

// RecordFetch records one upstream fetch.
func RecordFetch(feed, status string, started time.Time) {
	UpstreamFetchTotal.WithLabelValues(feed, status).Inc()
	UpstreamFetchDuration.WithLabelValues(feed).Observe(time.Since(started).Seconds())
}

// RecordPublish records the outcome of publishing one article.
func RecordPublish(watch, status string) {
	ArticlesPublishedTotal.WithLabelValues(watch, status).Inc()
}

// RecordDelivery records one article handed to a single publisher.
func RecordDelivery(watch, publisher, typ string, err error) {
	status := StatusOK
	if err != nil {
		status = StatusError
	}
	SinkDeliveriesTotal.WithLabelValues(watch, publisher, typ, status).Inc()
}

// RecordSkipped records articles dropped by dedupe.
func RecordSkipped(watch string, n int) {
	if n <= 0 {
		return
	}
	ArticlesSkippedTotal.WithLabelValues(watch).Add(float64(n))
}
