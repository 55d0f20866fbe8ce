package observability

import (
	"context"

	"github.com/aretw0/marginalia/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "marginalia"

// Metrics holds the engine collectors.
type Metrics struct {
	Mutations    prometheus.Counter
	Augmented    *prometheus.CounterVec
	Passes       *prometheus.CounterVec
	PassDuration prometheus.Histogram
	Turns        prometheus.Gauge
	Copies       *prometheus.CounterVec
	CopyBytes    prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Mutations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutation_batches_total",
			Help:      "Host change notifications that carried at least one foreign node.",
		}),
		Augmented: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tables_augmented_total",
			Help:      "Tables that received an export affordance.",
		}, []string{"path"}),
		Passes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "passes_total",
			Help:      "Completed reconciliation passes by winning discovery strategy.",
		}, []string{"strategy"}),
		PassDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pass_duration_seconds",
			Help:      "Duration of reconciliation passes.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
		Turns: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "indexed_turns",
			Help:      "Turns listed by the index after the latest pass.",
		}),
		Copies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "copies_total",
			Help:      "Export activations by outcome.",
		}, []string{"state"}),
		CopyBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "copy_bytes",
			Help:      "Size of exported Markdown tables.",
			Buckets:   prometheus.ExponentialBuckets(64, 4, 8),
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Mutations, m.Augmented, m.Passes, m.PassDuration, m.Turns, m.Copies, m.CopyBytes)
	}
	return m
}

// Hooks returns lifecycle hooks that record into the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnMutation: func(_ context.Context, _ *domain.MutationEvent) {
			m.Mutations.Inc()
		},
		OnAugment: func(_ context.Context, _ *domain.AugmentEvent) {
			m.Augmented.WithLabelValues("fast").Inc()
		},
		OnPass: func(_ context.Context, e *domain.PassEvent) {
			strategy := e.Strategy
			if strategy == "" {
				strategy = "none"
			}
			m.Passes.WithLabelValues(strategy).Inc()
			m.PassDuration.Observe(e.Duration.Seconds())
			m.Turns.Set(float64(e.Turns))
			if e.Augmented > 0 {
				m.Augmented.WithLabelValues("pass").Add(float64(e.Augmented))
			}
		},
		OnCopy: func(_ context.Context, e *domain.CopyEvent) {
			m.Copies.WithLabelValues(e.State.String()).Inc()
			if e.Err == nil {
				m.CopyBytes.Observe(float64(e.Bytes))
			}
		},
	}
}
