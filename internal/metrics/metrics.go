// Package metrics exposes pipeline activity as Prometheus collectors,
// wired into the engine through lifecycle hooks.
package metrics

import (
	"context"

	"github.com/aretw0/stylebot/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder holds the pipeline collectors.
type Recorder struct {
	runsTotal    *prometheus.CounterVec
	stepDuration *prometheus.HistogramVec
	commitsTotal prometheus.Counter
}

// NewRecorder creates and registers the collectors.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stylebot_runs_total",
				Help: "Total number of finished runs by outcome",
			},
			[]string{"status"},
		),
		stepDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "stylebot_step_duration_seconds",
				Help: "Duration of pipeline steps",
			},
			[]string{"step", "status"},
		),
		commitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "stylebot_commits_total",
				Help: "Total number of auto-fix commits produced",
			},
		),
	}
	reg.MustRegister(r.runsTotal, r.stepDuration, r.commitsTotal)
	return r
}

// Hooks returns lifecycle hooks that feed the collectors.
func (r *Recorder) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStepFinish: func(ctx context.Context, e *domain.StepEvent) {
			r.stepDuration.WithLabelValues(e.Step, string(e.Status)).Observe(e.Duration.Seconds())
		},
		OnRunFinish: func(ctx context.Context, e *domain.RunEvent) {
			r.runsTotal.WithLabelValues(string(e.Status)).Inc()
			r.commitsTotal.Add(float64(e.Commits))
		},
	}
}
