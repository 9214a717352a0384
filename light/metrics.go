package light

import (
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"

	prometheus "github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
)

const (
	// MetricsSubsystem is a subsystem shared by all metrics exposed by this
	// package.
	MetricsSubsystem = "light"
)

// Metrics contains metrics exposed by this package.
type Metrics struct {
	// Whether the event loop currently holds a live connection.
	Connected metrics.Gauge

	// Number of times the loop moved on from a node after a dial,
	// handshake, or connection failure.
	Failovers metrics.Counter

	// Number of times the candidate list was exhausted and reshuffled for
	// a fresh pass.
	PassResets metrics.Counter

	// Number of commands processed by the event loop.
	CommandsProcessed metrics.Counter

	// Number of events published to the event bus.
	EventsPublished metrics.Counter

	// Number of events dropped from lagging subscribers' buffers.
	EventsDropped metrics.Counter
}

// PrometheusMetrics returns Metrics built using Prometheus client library.
// Optionally, labels can be provided along with their values ("foo",
// "fooValue").
func PrometheusMetrics(namespace string, labelsAndValues ...string) *Metrics {
	labels := []string{}
	for i := 0; i < len(labelsAndValues); i += 2 {
		labels = append(labels, labelsAndValues[i])
	}
	return &Metrics{
		Connected: prometheus.NewGaugeFrom(stdprometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "connected",
			Help:      "Whether the event loop currently holds a live connection.",
		}, labels).With(labelsAndValues...),
		Failovers: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "failovers_total",
			Help:      "Number of times the loop moved on from a candidate node.",
		}, labels).With(labelsAndValues...),
		PassResets: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "pass_resets_total",
			Help:      "Number of reshuffled fresh failover passes.",
		}, labels).With(labelsAndValues...),
		CommandsProcessed: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "commands_processed_total",
			Help:      "Number of commands processed by the event loop.",
		}, labels).With(labelsAndValues...),
		EventsPublished: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "events_published_total",
			Help:      "Number of events published to the event bus.",
		}, labels).With(labelsAndValues...),
		EventsDropped: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "events_dropped_total",
			Help:      "Number of events dropped from lagging subscribers.",
		}, labels).With(labelsAndValues...),
	}
}

// NopMetrics returns no-op Metrics.
func NopMetrics() *Metrics {
	return &Metrics{
		Connected:         discard.NewGauge(),
		Failovers:         discard.NewCounter(),
		PassResets:        discard.NewCounter(),
		CommandsProcessed: discard.NewCounter(),
		EventsPublished:   discard.NewCounter(),
		EventsDropped:     discard.NewCounter(),
	}
}
