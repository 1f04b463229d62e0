package handler

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vsinha/bomcost/pkg/infrastructure/events"
)

// Calculation outcomes used as the outcome label
const (
	OutcomeSuccess = "success"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

// Metrics holds the collectors the API updates
type Metrics struct {
	// calculations counts calculate requests by outcome
	calculations *prometheus.CounterVec

	// calculationDuration tracks successful calculation latency
	calculationDuration prometheus.Histogram

	// stepDuration tracks each pipeline step, labelled by step name
	stepDuration *prometheus.HistogramVec
}

// NewMetrics registers the API collectors with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		calculations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bomcost_calculations_total",
			Help: "Total BOM calculations by outcome",
		}, []string{"outcome"}),
		calculationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "bomcost_calculation_duration_seconds",
			Help:    "BOM calculation duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~8s
		}),
		stepDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bomcost_step_duration_seconds",
			Help:    "Duration of each BOM calculation step in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 16),
		}, []string{"step"}),
	}
}

// stepObserver turns step events into step histogram observations
func (m *Metrics) stepObserver() events.EventHandler {
	return stepObserver{histogram: m.stepDuration}
}

type stepObserver struct {
	histogram *prometheus.HistogramVec
}

func (o stepObserver) CanHandle(eventType string) bool {
	return eventType == events.StepCompletedEvent
}

func (o stepObserver) Handle(event events.Event) error {
	step, ok := event.Data().(events.StepCompleted)
	if !ok {
		return fmt.Errorf("unexpected step event payload %T", event.Data())
	}
	o.histogram.WithLabelValues(step.Step).Observe(step.Duration.Seconds())
	return nil
}

func (m *Metrics) observe(outcome string, seconds float64) {
	m.calculations.WithLabelValues(outcome).Inc()
	if outcome == OutcomeSuccess {
		m.calculationDuration.Observe(seconds)
	}
}
