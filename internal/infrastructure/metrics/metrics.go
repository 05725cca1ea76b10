package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the relay service
type Metrics struct {
	// Relay pipeline metrics
	EventsDropped     *prometheus.CounterVec
	CommandsTotal     *prometheus.CounterVec
	RepliesFailed     prometheus.Counter
	RequestsForwarded prometheus.Counter
	ResponsesRouted   prometheus.Counter
	RequestErrors     *prometheus.CounterVec

	// Router metrics
	RouterState prometheus.Gauge
	TaskExits   *prometheus.CounterVec

	// Post sync metrics
	PostsStored    prometheus.Counter
	SyncErrors     prometheus.Counter
	SyncDuration   prometheus.Histogram
	PostsPublished prometheus.Counter
	PublishErrors  prometheus.Counter
}

var (
	// DefaultMetrics is the default metrics instance
	DefaultMetrics *Metrics
	once           sync.Once
)

// GetDefaultMetrics returns the singleton metrics instance
func GetDefaultMetrics() *Metrics {
	once.Do(func() {
		DefaultMetrics = NewMetrics()
	})
	return DefaultMetrics
}

// NewMetrics creates a new Metrics instance registered in the default registry
func NewMetrics() *Metrics {
	return &Metrics{
		EventsDropped: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "relay_service_events_dropped_total",
				Help: "Total number of normalized events dropped before reaching an actor",
			},
			[]string{"source", "reason"},
		),
		CommandsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "relay_service_commands_total",
				Help: "Total number of classified bot commands",
			},
			[]string{"command"},
		),
		RepliesFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "relay_service_replies_failed_total",
			Help: "Total number of bot replies that could not be sent",
		}),
		RequestsForwarded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "relay_service_requests_forwarded_total",
			Help: "Total number of requests forwarded from the bot to the application",
		}),
		ResponsesRouted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "relay_service_responses_routed_total",
			Help: "Total number of responses forwarded from the application to the bot",
		}),
		RequestErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "relay_service_request_errors_total",
				Help: "Total number of requests the application failed to apply",
			},
			[]string{"error_type"},
		),
		RouterState: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "relay_service_router_state",
			Help: "Router lifecycle state (0 not started, 1 starting, 2 running, 3 stopped)",
		}),
		TaskExits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "relay_service_task_exits_total",
				Help: "Total number of router task exits",
			},
			[]string{"task", "abnormal"},
		),
		PostsStored: promauto.NewCounter(prometheus.CounterOpts{
			Name: "relay_service_posts_stored_total",
			Help: "Total number of channel posts persisted",
		}),
		SyncErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "relay_service_sync_errors_total",
			Help: "Total number of channel history sync failures",
		}),
		SyncDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "relay_service_sync_duration_seconds",
			Help:    "Duration of channel history sync cycles in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}),
		PostsPublished: promauto.NewCounter(prometheus.CounterOpts{
			Name: "relay_service_posts_published_total",
			Help: "Total number of post events acknowledged by Kafka",
		}),
		PublishErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "relay_service_publish_errors_total",
			Help: "Total number of post events Kafka failed to accept",
		}),
	}
}

// RecordDropped records an event dropped by a normalizer
func (m *Metrics) RecordDropped(source, reason string) {
	m.EventsDropped.WithLabelValues(source, reason).Inc()
}

// RecordCommand records a classified command
func (m *Metrics) RecordCommand(command string) {
	m.CommandsTotal.WithLabelValues(command).Inc()
}

// RecordReplyFailed records a failed bot reply
func (m *Metrics) RecordReplyFailed() {
	m.RepliesFailed.Inc()
}

// RecordRequestError records a request the application could not apply
func (m *Metrics) RecordRequestError(errorType string) {
	if errorType == "" {
		errorType = "unknown"
	}
	m.RequestErrors.WithLabelValues(errorType).Inc()
}

// RecordTaskExit records a router task exit
func (m *Metrics) RecordTaskExit(task string, abnormal bool) {
	label := "false"
	if abnormal {
		label = "true"
	}
	m.TaskExits.WithLabelValues(task, label).Inc()
}

// SetRouterState records the router lifecycle state
func (m *Metrics) SetRouterState(state int) {
	m.RouterState.Set(float64(state))
}

// RecordPostStored records a post stored from the live update stream
func (m *Metrics) RecordPostStored() {
	m.PostsStored.Inc()
}

// RecordSync records a sync cycle with the number of stored posts
func (m *Metrics) RecordSync(stored int, durationSeconds float64) {
	if stored > 0 {
		m.PostsStored.Add(float64(stored))
	}
	m.SyncDuration.Observe(durationSeconds)
}

// RecordPublish records the Kafka acknowledgement of a post event
func (m *Metrics) RecordPublish(err error) {
	if err != nil {
		m.PublishErrors.Inc()
		return
	}
	m.PostsPublished.Inc()
}
