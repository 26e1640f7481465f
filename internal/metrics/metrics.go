// Package metrics is the board engine's Prometheus surface: InitRegistry/
// IsEnabled/GetRegistry gate every metric behind an explicit opt-in, so a
// deployment that never calls InitRegistry pays zero instrumentation
// overhead — every Set/Inc/Observe method below is nil-receiver-safe and a
// nil *Metrics is what callers get back when metrics are disabled.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mu       sync.Mutex
	enabled  bool
	registry *prometheus.Registry
)

// InitRegistry enables metrics collection and creates the registry that
// subsequent New calls register against. Safe to call more than
// once; later calls are no-ops once a registry already exists.
func InitRegistry() *prometheus.Registry {
	mu.Lock()
	defer mu.Unlock()
	if registry == nil {
		registry = prometheus.NewRegistry()
		enabled = true
	}
	return registry
}

// IsEnabled reports whether InitRegistry has been called.
func IsEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

// GetRegistry returns the registry created by InitRegistry, or nil if
// metrics are disabled.
func GetRegistry() *prometheus.Registry {
	mu.Lock()
	defer mu.Unlock()
	return registry
}

// Metrics holds every board-engine gauge/counter/histogram named in the
// metrics surface. A nil *Metrics is valid: every method below guards on it
// and becomes a no-op, so callers never need to branch on whether metrics
// are enabled.
type Metrics struct {
	queueDepth     *prometheus.GaugeVec
	messagesTotal  *prometheus.CounterVec
	itemsTotal     *prometheus.GaugeVec
	activePaths    *prometheus.GaugeVec
	methodDuration *prometheus.HistogramVec
	rejectsTotal   *prometheus.CounterVec
}

// New creates a Prometheus-backed Metrics instance. Returns nil if metrics
// are not enabled (InitRegistry not called), so callers can pass the result
// straight through to dispatch.Launch/boardstate.New without an extra
// enabled check.
func New() *Metrics {
	if !IsEnabled() {
		return nil
	}
	reg := GetRegistry()

	return &Metrics{
		queueDepth: promauto.With(reg).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "board_dispatcher_queue_depth",
				Help: "Number of messages currently buffered in a board's dispatcher queue",
			},
			[]string{"board"},
		),
		messagesTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "board_dispatcher_messages_total",
				Help: "Total number of messages processed by a board's dispatcher",
			},
			[]string{"board", "kind"},
		),
		itemsTotal: promauto.With(reg).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "board_items_total",
				Help: "Current number of items on a board's canvas",
			},
			[]string{"board"},
		),
		activePaths: promauto.With(reg).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "board_active_paths",
				Help: "Current number of in-progress freehand paths on a board",
			},
			[]string{"board"},
		),
		methodDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "board_method_duration_seconds",
				Help:    "Handler latency for a Method request, by method name",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		rejectsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "board_rejects_total",
				Help: "Total number of Reject responses sent, by reason kind and level",
			},
			[]string{"reason", "level"},
		),
	}
}

// SetQueueDepth records board's current dispatcher queue length.
func (m *Metrics) SetQueueDepth(board string, depth int) {
	if m == nil {
		return
	}
	m.queueDepth.WithLabelValues(board).Set(float64(depth))
}

// IncMessage records one dispatched message of kind on board.
func (m *Metrics) IncMessage(board, kind string) {
	if m == nil {
		return
	}
	m.messagesTotal.WithLabelValues(board, kind).Inc()
}

// SetItemCount records board's current canvas population.
func (m *Metrics) SetItemCount(board string, count int) {
	if m == nil {
		return
	}
	m.itemsTotal.WithLabelValues(board).Set(float64(count))
}

// SetActivePaths records board's current number of in-progress paths.
func (m *Metrics) SetActivePaths(board string, count int) {
	if m == nil {
		return
	}
	m.activePaths.WithLabelValues(board).Set(float64(count))
}

// ObserveMethodDuration records how long handling method took.
func (m *Metrics) ObserveMethodDuration(method string, d time.Duration) {
	if m == nil {
		return
	}
	m.methodDuration.WithLabelValues(method).Observe(d.Seconds())
}

// IncReject records one Reject response of the given reason kind and level.
func (m *Metrics) IncReject(reason, level string) {
	if m == nil {
		return
	}
	m.rejectsTotal.WithLabelValues(reason, level).Inc()
}
