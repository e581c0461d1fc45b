// Package metrics provides Prometheus metrics for the meeple league service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Feed metrics - CSV feed fetching and normalization
	feedFetches       *prometheus.CounterVec
	feedFetchDuration *prometheus.HistogramVec
	feedRowsLoaded    *prometheus.GaugeVec
	rowsDropped       *prometheus.CounterVec

	// Snapshot metrics - full reload of all feeds
	snapshotRefreshes       prometheus.Counter
	snapshotRefreshDuration prometheus.Histogram
	snapshotLastRefreshUnix prometheus.Gauge

	// Leaderboard metrics
	matchesScored      prometheus.Counter
	leaderboardPlayers prometheus.Gauge
	eligiblePlayers    prometheus.Gauge
	sessionCount       prometheus.Gauge

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error metrics
	errorsByComponent *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "meeple",
		subsystem:        "league",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.feedFetches = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "feed_fetches_total",
		Help:      "Total CSV feed fetch attempts by feed and status",
	}, []string{"feed", "status"})

	m.feedFetchDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "feed_fetch_duration_milliseconds",
		Help:      "Histogram of CSV feed fetch duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"feed"})

	m.feedRowsLoaded = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "feed_rows_loaded",
		Help:      "Rows loaded from each feed in the latest snapshot",
	}, []string{"feed"})

	m.rowsDropped = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rows_dropped_total",
		Help:      "Rows dropped during normalization by feed and reason",
	}, []string{"feed", "reason"})

	m.snapshotRefreshes = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_refreshes_total",
		Help:      "Total snapshot refreshes performed",
	})

	m.snapshotRefreshDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_refresh_duration_milliseconds",
		Help:      "Histogram of full snapshot refresh duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.snapshotLastRefreshUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_last_refresh_unixtime",
		Help:      "Unix timestamp of the last successful snapshot refresh",
	})

	m.matchesScored = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "matches_scored_total",
		Help:      "Total matches folded into leaderboard computations",
	})

	m.leaderboardPlayers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "leaderboard_players",
		Help:      "Players on the current leaderboard",
	})

	m.eligiblePlayers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "leaderboard_eligible_players",
		Help:      "Players meeting the minimum-matches threshold",
	})

	m.sessionCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "session_count",
		Help:      "Distinct session dates in the current snapshot",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total HTTP requests by endpoint, method and status code",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "Histogram of HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.errorsByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "errors_total",
		Help:      "Errors by component and kind",
	}, []string{"component", "kind"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "Current allocated memory in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Current number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_milliseconds",
		Help:      "Histogram of GC pause time in milliseconds",
		Buckets:   m.histogramBuckets,
	})
}

// Package-level helpers on the global manager.

// RecordFeedFetch counts a feed fetch attempt with its outcome status.
func RecordFeedFetch(feed, status string) {
	globalManager.feedFetches.WithLabelValues(feed, status).Inc()
}

// RecordFeedFetchDuration observes how long a feed fetch took.
func RecordFeedFetchDuration(feed string, durationMs float64) {
	globalManager.feedFetchDuration.WithLabelValues(feed).Observe(durationMs)
}

// UpdateFeedRowsLoaded sets the row count loaded from a feed.
func UpdateFeedRowsLoaded(feed string, rows int) {
	globalManager.feedRowsLoaded.WithLabelValues(feed).Set(float64(rows))
}

// RecordRowDropped counts a normalization drop with its reason.
func RecordRowDropped(feed, reason string) {
	globalManager.rowsDropped.WithLabelValues(feed, reason).Inc()
}

// RecordRowsDropped counts n normalization drops with the same reason.
func RecordRowsDropped(feed, reason string, n int) {
	if n <= 0 {
		return
	}
	globalManager.rowsDropped.WithLabelValues(feed, reason).Add(float64(n))
}

// RecordSnapshotRefresh counts a snapshot refresh and observes its duration.
func RecordSnapshotRefresh(durationMs float64) {
	globalManager.snapshotRefreshes.Inc()
	globalManager.snapshotRefreshDuration.Observe(durationMs)
}

// UpdateSnapshotLastRefresh sets the last successful refresh timestamp.
func UpdateSnapshotLastRefresh(unix int64) {
	globalManager.snapshotLastRefreshUnix.Set(float64(unix))
}

// RecordMatchesScored counts matches folded into a leaderboard pass.
func RecordMatchesScored(n int) {
	globalManager.matchesScored.Add(float64(n))
}

// UpdateLeaderboardSize sets the player counts of the current leaderboard.
func UpdateLeaderboardSize(all, eligible int) {
	globalManager.leaderboardPlayers.Set(float64(all))
	globalManager.eligiblePlayers.Set(float64(eligible))
}

// UpdateSessionCount sets the distinct session-date count.
func UpdateSessionCount(n int) {
	globalManager.sessionCount.Set(float64(n))
}

// RecordHTTPRequest counts an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration observes HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordError counts an error by component and kind.
func RecordError(component, kind string) {
	globalManager.errorsByComponent.WithLabelValues(component, kind).Inc()
}

// UpdateSystemMemoryUsage sets the current allocated memory.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the current goroutine count.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime observes a GC pause duration.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom registry used by the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
