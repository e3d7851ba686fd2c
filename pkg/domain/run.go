package domain

import (
	"fmt"
	"time"
)

// RunStatus defines the phase of a run's linear lifecycle.
type RunStatus string

const (
	RunPending      RunStatus = "pending"
	RunCheckingOut  RunStatus = "checking_out"
	RunProvisioning RunStatus = "provisioning"
	RunInstalling   RunStatus = "installing"
	RunLinting      RunStatus = "linting"
	RunCommitting   RunStatus = "committing"
	RunSucceeded    RunStatus = "succeeded"
	RunFailed       RunStatus = "failed"
)

// transitions maps each status to the statuses reachable from it.
// The pipeline is strictly forward; failure is reachable from every
// non-terminal phase.
var transitions = map[RunStatus][]RunStatus{
	RunPending:      {RunCheckingOut},
	RunCheckingOut:  {RunProvisioning},
	RunProvisioning: {RunInstalling},
	RunInstalling:   {RunLinting},
	RunLinting:      {RunCommitting, RunSucceeded},
	RunCommitting:   {RunSucceeded},
}

// StepStatus describes the outcome of a single pipeline step.
type StepStatus string

const (
	StepOK      StepStatus = "ok"      // Step completed, nothing to change
	StepFixed   StepStatus = "fixed"   // Step completed and modified the working tree
	StepFailed  StepStatus = "failed"  // Step aborted the run
	StepSkipped StepStatus = "skipped" // Step not applicable (e.g. tool disabled)
)

// StepResult records one executed pipeline step.
type StepResult struct {
	Name         string     `json:"name"`
	Status       StepStatus `json:"status"`
	StartedAt    time.Time  `json:"started_at"`
	FinishedAt   time.Time  `json:"finished_at"`
	FilesChanged []string   `json:"files_changed,omitempty"`
	Violations   int        `json:"violations,omitempty"`
	Output       string     `json:"output,omitempty"`
	Error        string     `json:"error,omitempty"`
}

// Duration returns the wall time the step took.
func (s StepResult) Duration() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}

// Run represents one dispatched execution of a workflow against a repository.
type Run struct {
	ID         string       `json:"id"`
	Workflow   string       `json:"workflow"`
	Repo       string       `json:"repo"`
	Ref        string       `json:"ref,omitempty"`
	Status     RunStatus    `json:"status"`
	Steps      []StepResult `json:"steps,omitempty"`
	Commits    []string     `json:"commits,omitempty"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at,omitempty"`
	Error      string       `json:"error,omitempty"`
}

// NewRun creates a pending run for the given workflow and target.
func NewRun(id, workflow, repo, ref string) *Run {
	return &Run{
		ID:        id,
		Workflow:  workflow,
		Repo:      repo,
		Ref:       ref,
		Status:    RunPending,
		StartedAt: time.Now().UTC(),
	}
}

// Transition advances the run to the next phase.
// Backward or skipping transitions are programming errors and rejected.
func (r *Run) Transition(next RunStatus) error {
	for _, allowed := range transitions[r.Status] {
		if allowed == next {
			r.Status = next
			return nil
		}
	}
	return fmt.Errorf("invalid transition: %s -> %s", r.Status, next)
}

// Fail moves the run to its terminal failed state.
func (r *Run) Fail(err error) {
	r.Status = RunFailed
	r.FinishedAt = time.Now().UTC()
	if err != nil {
		r.Error = err.Error()
	}
}

// Finish moves the run to its terminal succeeded state.
func (r *Run) Finish() {
	r.Status = RunSucceeded
	r.FinishedAt = time.Now().UTC()
}

// Terminal reports whether the run has reached a sink state.
func (r *Run) Terminal() bool {
	return r.Status == RunSucceeded || r.Status == RunFailed
}

// AddStep appends a step result to the run history.
func (r *Run) AddStep(step StepResult) {
	r.Steps = append(r.Steps, step)
}

// Clone returns a deep copy so stores and callers cannot mutate each
// other through shared slices.
func (r *Run) Clone() *Run {
	clone := *r
	clone.Steps = make([]StepResult, len(r.Steps))
	for i, s := range r.Steps {
		s.FilesChanged = append([]string(nil), s.FilesChanged...)
		clone.Steps[i] = s
	}
	clone.Commits = append([]string(nil), r.Commits...)
	return &clone
}

// Fixed reports whether any step modified the working tree.
func (r *Run) Fixed() bool {
	for _, s := range r.Steps {
		if s.Status == StepFixed {
			return true
		}
	}
	return false
}
