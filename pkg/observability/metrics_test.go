package observability_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/botforge/internal/assembler"
	"github.com/aretw0/botforge/pkg/domain"
	"github.com/aretw0/botforge/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)
	hooks := m.Hooks()
	ctx := context.Background()

	hooks.OnGenerationDone(ctx, &domain.GenerationEvent{Nodes: 3, Duration: time.Millisecond})
	hooks.OnGenerationDone(ctx, &domain.GenerationEvent{Nodes: 3, Cached: true})
	hooks.OnGenerationDone(ctx, &domain.GenerationEvent{
		Err: &assembler.AggregateError{Errors: []*assembler.NodeError{{NodeID: "a", Err: errors.New("boom")}}},
	})
	hooks.OnGenerationDone(ctx, &domain.GenerationEvent{Err: domain.ErrDuplicateNodeID})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Generations.WithLabelValues(observability.OutcomeOK, "")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Generations.WithLabelValues(observability.OutcomeFailed, domain.CodeDuplicateNodeID)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Generations.WithLabelValues(observability.OutcomeFailed, domain.CodeGenerationFailed)))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Nodes), "cached passes compile nothing")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheHits))
	assert.Equal(t, 4, testutil.CollectAndCount(m.Generations))
}

func TestChain(t *testing.T) {
	var calls []string
	record := func(name string) domain.GenerationHooks {
		return domain.GenerationHooks{
			OnGenerationDone: func(context.Context, *domain.GenerationEvent) { calls = append(calls, name) },
		}
	}

	hooks := observability.Chain(record("a"), domain.GenerationHooks{}, record("b"))
	assert.Nil(t, hooks.OnGenerationStart)
	hooks.OnGenerationDone(context.Background(), &domain.GenerationEvent{})

	assert.Equal(t, []string{"a", "b"}, calls)
}
