package observability

import (
	"context"

	"github.com/aretw0/botforge/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values.
const (
	OutcomeOK     = "ok"
	OutcomeFailed = "failed"
)

// Metrics holds the generator collectors.
type Metrics struct {
	Generations *prometheus.CounterVec
	Duration    prometheus.Histogram
	Nodes       prometheus.Counter
	CacheHits   prometheus.Counter
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg leaves them unregistered, which is handy in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Generations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "botforge_generations_total",
				Help: "Total number of generation passes by outcome",
			},
			[]string{"outcome", "code"},
		),
		Duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "botforge_generation_duration_seconds",
				Help:    "Duration of generation passes",
				Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
			},
		),
		Nodes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "botforge_nodes_compiled_total",
				Help: "Total number of node blocks emitted",
			},
		),
		CacheHits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "botforge_cache_hits_total",
				Help: "Generation passes served from the cache",
			},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Generations, m.Duration, m.Nodes, m.CacheHits)
	}
	return m
}

// Hooks returns GenerationHooks that record every finished pass.
func (m *Metrics) Hooks() domain.GenerationHooks {
	return domain.GenerationHooks{
		OnGenerationDone: m.observe,
	}
}

func (m *Metrics) observe(_ context.Context, e *domain.GenerationEvent) {
	if e.Err != nil {
		m.Generations.WithLabelValues(OutcomeFailed, domain.ErrorCode(e.Err)).Inc()
		return
	}
	m.Generations.WithLabelValues(OutcomeOK, "").Inc()
	m.Duration.Observe(e.Duration.Seconds())
	if e.Cached {
		m.CacheHits.Inc()
		return
	}
	m.Nodes.Add(float64(e.Nodes))
}

// Chain combines hooks so that each callback runs in order.
func Chain(hooks ...domain.GenerationHooks) domain.GenerationHooks {
	var out domain.GenerationHooks
	for _, h := range hooks {
		h := h
		if h.OnGenerationStart != nil {
			prev := out.OnGenerationStart
			out.OnGenerationStart = func(ctx context.Context, e *domain.GenerationEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				h.OnGenerationStart(ctx, e)
			}
		}
		if h.OnGenerationDone != nil {
			prev := out.OnGenerationDone
			out.OnGenerationDone = func(ctx context.Context, e *domain.GenerationEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				h.OnGenerationDone(ctx, e)
			}
		}
	}
	return out
}
