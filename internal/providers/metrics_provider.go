package providers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"streamwatch/internal/structures"
	"time"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	ObservePersistenceDuration(duration time.Duration)
	ObserveCycleDuration(duration time.Duration)
	IncChannelResult(channel, result string)
	IncNotifications(channel string)
	IncSinkResult(sink, outcome string)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	persistenceDuration prometheus.Histogram
	cycleDuration       prometheus.Histogram
	channelResults      *prometheus.CounterVec
	notifications       *prometheus.CounterVec
	sinkResults         *prometheus.CounterVec
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

func (m *MetricsProvider) ObserveCycleDuration(duration time.Duration) {
	m.cycleDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) IncChannelResult(channel, result string) {
	m.channelResults.WithLabelValues(channel, result).Inc()
}

func (m *MetricsProvider) IncNotifications(channel string) {
	m.notifications.WithLabelValues(channel).Inc()
}

func (m *MetricsProvider) IncSinkResult(sink, outcome string) {
	m.sinkResults.WithLabelValues(sink, outcome).Inc()
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

	m := &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "streamwatch_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "streamwatch_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "streamwatch_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "streamwatch_cache_misses_total",
			Help: "Total number of cache misses",
		}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "streamwatch_persistence_duration_seconds",
			Help:    "Duration of state snapshot persistence in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		cycleDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "streamwatch_cycle_duration_seconds",
			Help:    "Duration of one reconciliation pass over the roster",
			Buckets: []float64{.5, 1, 2.5, 5, 10, 20, 30, 60},
		}),

		channelResults: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "streamwatch_channel_results_total",
			Help: "Reconciliation outcomes per channel (unchanged, changed, failed)",
		}, []string{"channel", "result"}),

		notifications: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "streamwatch_notifications_total",
			Help: "Notification-worthy decisions per channel",
		}, []string{"channel"}),

		sinkResults: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "streamwatch_sink_results_total",
			Help: "Delivery outcomes per sink",
		}, []string{"sink", "outcome"}),
	}

	channels := len(conf.Channels)
	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "streamwatch_channels_total",
		Help: "Number of monitored channels in the roster",
	}, func() float64 {
		return float64(channels)
	})

	return m
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (n *noopMetrics) ObserveCycleDuration(_ time.Duration)             {}
func (n *noopMetrics) IncChannelResult(_, _ string)                     {}
func (n *noopMetrics) IncNotifications(_ string)                        {}
func (n *noopMetrics) IncSinkResult(_, _ string)                        {}
