package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"staffing/internal/ports"
)

// OutcomeAttribute is the Record attribute copied into the outcome label.
// Other attributes are dropped to keep label cardinality bounded.
const OutcomeAttribute = "outcome"

// PromTelemetry counts service events and observes operation latency.
type PromTelemetry struct {
	events   *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var _ ports.Telemetry = (*PromTelemetry)(nil)

// NewPromTelemetry registers the collectors on reg, or on the default
// registerer when reg is nil. Collectors registered earlier are reused.
func NewPromTelemetry(reg prometheus.Registerer) (*PromTelemetry, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "staffing_events_total",
		Help: "Total number of staffing service events",
	}, []string{"event", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "staffing_operation_duration_seconds",
		Help:    "Duration of availability and forecast computations",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	if err := reg.Register(events); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			events = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(duration); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			duration = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}

	return &PromTelemetry{events: events, duration: duration}, nil
}

func (p *PromTelemetry) Record(name string, attributes map[string]string) {
	outcome := attributes[OutcomeAttribute]
	if outcome == "" {
		outcome = "ok"
	}
	p.events.WithLabelValues(name, outcome).Inc()
}

func (p *PromTelemetry) Observe(name string, elapsed time.Duration) {
	p.duration.WithLabelValues(name).Observe(elapsed.Seconds())
}
