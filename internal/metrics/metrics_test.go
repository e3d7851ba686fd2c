package metrics_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/stylebot/internal/metrics"
	"github.com/aretw0/stylebot/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_CountsRunsAndCommits(t *testing.T) {
	reg := prometheus.NewRegistry()
	hooks := metrics.NewRecorder(reg).Hooks()
	ctx := context.Background()

	hooks.OnStepFinish(ctx, &domain.StepEvent{Step: "checkout", Status: domain.StepOK, Duration: time.Second})
	hooks.OnRunFinish(ctx, &domain.RunEvent{Status: domain.RunSucceeded, Commits: 2})
	hooks.OnRunFinish(ctx, &domain.RunEvent{Status: domain.RunFailed})

	families, err := reg.Gather()
	require.NoError(t, err)

	byName := make(map[string]float64)
	for _, f := range families {
		for _, m := range f.GetMetric() {
			key := f.GetName()
			for _, l := range m.GetLabel() {
				key += "{" + l.GetName() + "=" + l.GetValue() + "}"
			}
			if m.GetCounter() != nil {
				byName[key] = m.GetCounter().GetValue()
			}
		}
	}

	assert.Equal(t, 1.0, byName["stylebot_runs_total{status=succeeded}"])
	assert.Equal(t, 1.0, byName["stylebot_runs_total{status=failed}"])
	assert.Equal(t, 2.0, byName["stylebot_commits_total"])
}

func TestRecorder_DoubleRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.NewRecorder(reg)
	assert.Panics(t, func() { metrics.NewRecorder(reg) })
}
