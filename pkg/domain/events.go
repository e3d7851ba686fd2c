package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventStepStart  EventType = "step_start"
	EventStepFinish EventType = "step_finish"
	EventRunFinish  EventType = "run_finish"
)

// StepEvent describes entry into or completion of a pipeline step.
type StepEvent struct {
	Timestamp time.Time  `json:"timestamp"`
	Type      EventType  `json:"type"`
	RunID     string     `json:"run_id"`
	Step      string     `json:"step"`
	Status    StepStatus `json:"status,omitempty"`
	Duration  time.Duration
}

// RunEvent describes the completion of a run.
type RunEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	RunID     string    `json:"run_id"`
	Status    RunStatus `json:"status"`
	Commits   int       `json:"commits"`
}

// LifecycleHooks defines callbacks for pipeline observability.
type LifecycleHooks struct {
	OnStepStart  func(context.Context, *StepEvent)
	OnStepFinish func(context.Context, *StepEvent)
	OnRunFinish  func(context.Context, *RunEvent)
}

// JoinHooks chains multiple hook sets; every non-nil callback fires in order.
func JoinHooks(hooks ...LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnStepStart: func(ctx context.Context, e *StepEvent) {
			for _, h := range hooks {
				if h.OnStepStart != nil {
					h.OnStepStart(ctx, e)
				}
			}
		},
		OnStepFinish: func(ctx context.Context, e *StepEvent) {
			for _, h := range hooks {
				if h.OnStepFinish != nil {
					h.OnStepFinish(ctx, e)
				}
			}
		},
		OnRunFinish: func(ctx context.Context, e *RunEvent) {
			for _, h := range hooks {
				if h.OnRunFinish != nil {
					h.OnRunFinish(ctx, e)
				}
			}
		},
	}
}
