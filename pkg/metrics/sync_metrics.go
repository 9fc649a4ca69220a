package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// SyncRunCounter counts resource sync runs by outcome
	SyncRunCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_runs_total",
			Help: "Total number of resource sync runs",
		},
		[]string{"service", "resource", "outcome"},
	)

	// SyncDurationHistogram records resource sync duration in seconds
	SyncDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sync_duration_seconds",
			Help:    "Duration of resource sync runs in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "resource"},
	)

	// PendingQueueGauge tracks the number of queued offline operations
	PendingQueueGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pending_operations",
			Help: "Number of queued offline operations awaiting replay",
		},
		[]string{"service", "resource"},
	)

	// ReplayFailureCounter counts failed replays of queued offline operations
	ReplayFailureCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "replay_failures_total",
			Help: "Total number of failed replays of queued offline operations",
		},
		[]string{"service", "resource", "action"},
	)

	// ReplayDroppedCounter counts queued operations dropped after exhausting retries
	ReplayDroppedCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "replay_dropped_total",
			Help: "Total number of queued operations dropped after exhausting retries",
		},
		[]string{"service", "resource", "action"},
	)
)

var registerSyncMetrics sync.Once

// SyncMetrics holds configuration and state for sync metrics collection
type SyncMetrics struct {
	ServiceName string
}

// NewSyncMetrics creates a new sync metrics collector for a specific service.
// The underlying collectors are shared; constructing several collectors for
// different service names is safe.
func NewSyncMetrics(serviceName string) *SyncMetrics {
	registerSyncMetrics.Do(func() {
		prometheus.MustRegister(SyncRunCounter)
		prometheus.MustRegister(SyncDurationHistogram)
		prometheus.MustRegister(PendingQueueGauge)
		prometheus.MustRegister(ReplayFailureCounter)
		prometheus.MustRegister(ReplayDroppedCounter)
	})
	return &SyncMetrics{ServiceName: serviceName}
}

// ObserveSync records one completed sync run for a resource
func (m *SyncMetrics) ObserveSync(resource string, seconds float64, ok bool) {
	outcome := "success"
	if !ok {
		outcome = "error"
	}
	SyncRunCounter.WithLabelValues(m.ServiceName, resource, outcome).Inc()
	SyncDurationHistogram.WithLabelValues(m.ServiceName, resource).Observe(seconds)
}

// SetPending records the current depth of a resource's pending queue
func (m *SyncMetrics) SetPending(resource string, depth int) {
	PendingQueueGauge.WithLabelValues(m.ServiceName, resource).Set(float64(depth))
}

// ObserveReplayFailure records one failed replay attempt
func (m *SyncMetrics) ObserveReplayFailure(resource, action string) {
	ReplayFailureCounter.WithLabelValues(m.ServiceName, resource, action).Inc()
}

// ObserveReplayDropped records one queued operation dropped after max retries
func (m *SyncMetrics) ObserveReplayDropped(resource, action string) {
	ReplayDroppedCounter.WithLabelValues(m.ServiceName, resource, action).Inc()
}
