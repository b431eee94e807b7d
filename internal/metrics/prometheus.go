package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/san-kum/tiwire/internal/transport"
)

// Collector exposes sweep progress as Prometheus metrics.
type Collector struct {
	gatherer prometheus.Gatherer

	Evaluations *prometheus.CounterVec
	Failures    *prometheus.CounterVec
	Slices      prometheus.Counter
	Duration    *prometheus.HistogramVec
	InFlight    prometheus.Gauge
}

// NewCollector registers the sweep metrics against reg, defaulting to the
// global registry when nil. Registering twice reuses the existing metrics.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	evals, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tiwire_evaluations_total",
		Help: "Completed evaluation points, labeled by kind (conductance or bands).",
	}, []string{"kind"}))
	if err != nil {
		return nil, err
	}
	failures, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tiwire_failures_total",
		Help: "Failed evaluation points, labeled by kind and reason.",
	}, []string{"kind", "reason"}))
	if err != nil {
		return nil, err
	}
	slices, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tiwire_slices_total",
		Help: "Slice scattering matrices composed across all conductance evaluations.",
	}))
	if err != nil {
		return nil, err
	}
	duration, err := register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tiwire_evaluation_duration_seconds",
		Help:    "Wall time of a single evaluation point.",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}, []string{"kind"}))
	if err != nil {
		return nil, err
	}
	inFlight, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "tiwire_evaluations_in_flight",
		Help: "Evaluation points currently being computed.",
	}))
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:    gatherer,
		Evaluations: evals,
		Failures:    failures,
		Slices:      slices,
		Duration:    duration,
		InFlight:    inFlight,
	}, nil
}

// Start marks an evaluation as in flight.
func (c *Collector) Start() {
	if c == nil {
		return
	}
	c.InFlight.Inc()
}

// Observe records one finished evaluation point.
func (c *Collector) Observe(kind string, slices int, d time.Duration, err error) {
	if c == nil {
		return
	}
	c.InFlight.Dec()
	c.Duration.WithLabelValues(kind).Observe(d.Seconds())
	if err != nil {
		c.Failures.WithLabelValues(kind, Reason(err)).Inc()
		return
	}
	c.Evaluations.WithLabelValues(kind).Inc()
	c.Slices.Add(float64(slices))
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Reason is a low-cardinality label for err.
func Reason(err error) string {
	switch {
	case errors.Is(err, transport.ErrNeedsDiscretization):
		return "needs_discretization"
	case errors.Is(err, transport.ErrSingular):
		return "singular"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "other"
	}
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
			var zero C
			return zero, fmt.Errorf("metrics: collector already registered with incompatible type: %w", err)
		}
		var zero C
		return zero, err
	}
	return c, nil
}
