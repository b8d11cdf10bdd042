package providers

import (
	"guessd/internal/structures"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	ObservePersistenceDuration(duration time.Duration)
	IncSessionsStarted()
	IncSessionsFinished(outcome string)
	AddPointsAwarded(points int)
	IncGuesses()
	SetActiveSessions(count int)
	SetParticipantsTotal(count int)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	persistenceDuration prometheus.Histogram
	sessionsStarted     prometheus.Counter
	sessionsFinished    *prometheus.CounterVec
	pointsAwarded       prometheus.Counter
	guesses             prometheus.Counter
	activeSessions      prometheus.Gauge
	participantsTotal   prometheus.Gauge
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) IncSessionsStarted() {
	m.sessionsStarted.Inc()
}

func (m *MetricsProvider) IncSessionsFinished(outcome string) {
	m.sessionsFinished.WithLabelValues(outcome).Inc()
}

func (m *MetricsProvider) AddPointsAwarded(points int) {
	if points > 0 {
		m.pointsAwarded.Add(float64(points))
	}
}

func (m *MetricsProvider) IncGuesses() {
	m.guesses.Inc()
}

func (m *MetricsProvider) SetActiveSessions(count int) {
	m.activeSessions.Set(float64(count))
}

func (m *MetricsProvider) SetParticipantsTotal(count int) {
	m.participantsTotal.Set(float64(count))
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "guessd_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "guessd_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "guessd_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "guessd_cache_misses_total",
			Help: "Total number of cache misses",
		}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "guessd_persistence_duration_seconds",
			Help:    "Duration of score file writes in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		sessionsStarted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "guessd_sessions_started_total",
			Help: "Total number of rounds started",
		}),

		sessionsFinished: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "guessd_sessions_finished_total",
			Help: "Total number of rounds finished, by outcome",
		}, []string{"outcome"}),

		pointsAwarded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "guessd_points_awarded_total",
			Help: "Total points awarded to round winners",
		}),

		guesses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "guessd_guesses_total",
			Help: "Total number of guess candidates evaluated",
		}),

		activeSessions: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "guessd_active_sessions",
			Help: "Number of channels with a running round",
		}),

		participantsTotal: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "guessd_participants_total",
			Help: "Number of participants in the score store",
		}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (n *noopMetrics) IncSessionsStarted()                              {}
func (n *noopMetrics) IncSessionsFinished(_ string)                     {}
func (n *noopMetrics) AddPointsAwarded(_ int)                           {}
func (n *noopMetrics) IncGuesses()                                      {}
func (n *noopMetrics) SetActiveSessions(_ int)                          {}
func (n *noopMetrics) SetParticipantsTotal(_ int)                       {}
