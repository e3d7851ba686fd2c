package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/stylebot/internal/logging"
	"github.com/aretw0/stylebot/pkg/domain"
	"github.com/aretw0/stylebot/pkg/ports"
)

// Engine executes the lint-and-autofix pipeline: checkout, toolchain
// provisioning, tool installation, linting, then commit and push of any
// fixes. Steps run strictly in order and the first infrastructure
// failure aborts the run. There are no retries and no rollback; commits
// that were pushed before a failure stay pushed.
type Engine struct {
	fetcher   ports.SourceFetcher
	toolchain ports.Toolchain
	publisher ports.Publisher
	linters   map[string]ports.Linter
	store     ports.RunStore
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
}

// EngineOption defines a functional option for configuring the Engine.
type EngineOption func(*Engine)

// WithLinters registers the available tool runners.
func WithLinters(linters ...ports.Linter) EngineOption {
	return func(e *Engine) {
		for _, l := range linters {
			e.linters[l.Name()] = l
		}
	}
}

// WithStore persists run progress after every phase change.
func WithStore(store ports.RunStore) EngineOption {
	return func(e *Engine) {
		e.store = store
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates a pipeline engine around the three external surfaces
// every run needs.
func NewEngine(fetcher ports.SourceFetcher, toolchain ports.Toolchain, publisher ports.Publisher, opts ...EngineOption) *Engine {
	e := &Engine{
		fetcher:   fetcher,
		toolchain: toolchain,
		publisher: publisher,
		linters:   make(map[string]ports.Linter),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs the full pipeline for the given run. The returned error is
// also recorded on the run itself; callers that only care about the
// outcome can inspect run.Status.
func (e *Engine) Execute(ctx context.Context, wf *domain.Workflow, run *domain.Run) error {
	err := e.execute(ctx, wf, run)
	if err != nil {
		run.Fail(err)
	} else {
		run.Finish()
	}
	e.persist(ctx, run)

	if e.hooks.OnRunFinish != nil {
		e.hooks.OnRunFinish(ctx, &domain.RunEvent{
			Timestamp: time.Now().UTC(),
			Type:      domain.EventRunFinish,
			RunID:     run.ID,
			Status:    run.Status,
			Commits:   len(run.Commits),
		})
	}
	e.logger.Info("run finished", "run_id", run.ID, "status", run.Status, "commits", len(run.Commits))
	return err
}

func (e *Engine) execute(ctx context.Context, wf *domain.Workflow, run *domain.Run) error {
	// 1. Checkout
	if err := e.transition(ctx, run, domain.RunCheckingOut); err != nil {
		return err
	}
	var dir string
	err := e.step(ctx, run, "checkout", func(ctx context.Context) (domain.StepResult, error) {
		var err error
		dir, err = e.fetcher.Fetch(ctx, run.Repo, run.Ref)
		return domain.StepResult{Output: dir}, err
	})
	if err != nil {
		return fmt.Errorf("checkout failed: %w", err)
	}

	// 2. Toolchain
	if err := e.transition(ctx, run, domain.RunProvisioning); err != nil {
		return err
	}
	var interp domain.Interpreter
	err = e.step(ctx, run, "setup-python", func(ctx context.Context) (domain.StepResult, error) {
		var err error
		interp, err = e.toolchain.Provision(ctx, wf.Python.Version)
		return domain.StepResult{Output: interp.Version}, err
	})
	if err != nil {
		return fmt.Errorf("toolchain setup failed: %w", err)
	}

	// 3. Install
	if err := e.transition(ctx, run, domain.RunInstalling); err != nil {
		return err
	}
	err = e.step(ctx, run, "install", func(ctx context.Context) (domain.StepResult, error) {
		return domain.StepResult{}, e.toolchain.Install(ctx, interp, wf.Requirements())
	})
	if err != nil {
		return fmt.Errorf("tool install failed: %w", err)
	}

	// 4. Lint
	if err := e.transition(ctx, run, domain.RunLinting); err != nil {
		return err
	}
	changedBy, unfixable, err := e.lint(ctx, wf, run, dir, interp)
	if err != nil {
		return err
	}

	// 5. Commit & push
	if wf.Commit.Enabled && len(changedBy) > 0 {
		if err := e.transition(ctx, run, domain.RunCommitting); err != nil {
			return err
		}
		if err := e.publish(ctx, wf, run, dir, changedBy); err != nil {
			return err
		}
	}

	// Violations the tools could not repair fail the run, but only after
	// every applied fix has been committed and pushed.
	if unfixable > 0 {
		return fmt.Errorf("%w: %d violation(s)", domain.ErrUnfixableViolations, unfixable)
	}
	return nil
}

// toolChanges pairs a tool with the working-tree paths attributed to it.
type toolChanges struct {
	tool  string
	paths []string
}

// lint runs every enabled tool in order and attributes working-tree
// changes to the tool that introduced them. A file rewritten by two
// tools is attributed to the first.
func (e *Engine) lint(ctx context.Context, wf *domain.Workflow, run *domain.Run, dir string, interp domain.Interpreter) ([]toolChanges, int, error) {
	var changes []toolChanges
	attributed := make(map[string]bool)
	unfixable := 0

	for _, name := range wf.EnabledTools() {
		linter, ok := e.linters[name]
		if !ok {
			err := e.step(ctx, run, name, func(ctx context.Context) (domain.StepResult, error) {
				return domain.StepResult{}, fmt.Errorf("no runner registered for tool %q", name)
			})
			return nil, 0, err
		}

		var report domain.LintReport
		err := e.step(ctx, run, name, func(ctx context.Context) (domain.StepResult, error) {
			var err error
			report, err = linter.Run(ctx, dir, interp, wf.AutoFix)
			if err != nil {
				return domain.StepResult{Output: report.Output}, err
			}

			res := domain.StepResult{
				Violations: report.Violations,
				Output:     report.Output,
			}

			if wf.AutoFix {
				// The working tree is the source of truth for what the
				// tool actually changed; tool output is advisory.
				dirty, err := e.publisher.Changes(ctx, dir)
				if err != nil {
					return res, fmt.Errorf("failed to inspect working tree: %w", err)
				}
				var delta []string
				for _, p := range dirty {
					if !attributed[p] {
						attributed[p] = true
						delta = append(delta, p)
					}
				}
				if len(delta) > 0 {
					changes = append(changes, toolChanges{tool: name, paths: delta})
					res.Status = domain.StepFixed
					res.FilesChanged = delta
				}
			}
			return res, nil
		})
		if err != nil {
			return nil, 0, fmt.Errorf("%s failed: %w", name, err)
		}
		unfixable += report.Violations
	}

	return changes, unfixable, nil
}

// publish creates one commit per fixing tool, message rendered from the
// workflow template, then pushes everything in a single operation.
func (e *Engine) publish(ctx context.Context, wf *domain.Workflow, run *domain.Run, dir string, changes []toolChanges) error {
	for _, c := range changes {
		c := c
		err := e.step(ctx, run, "commit:"+c.tool, func(ctx context.Context) (domain.StepResult, error) {
			sha, err := e.publisher.Commit(ctx, dir, wf.Commit.RenderMessage(c.tool), c.paths, wf.Commit.Identity())
			if err != nil {
				return domain.StepResult{}, err
			}
			if sha != "" {
				run.Commits = append(run.Commits, sha)
			}
			return domain.StepResult{Output: sha, FilesChanged: c.paths}, nil
		})
		if err != nil {
			return fmt.Errorf("commit for %s failed: %w", c.tool, err)
		}
	}

	if !wf.Push.Enabled || len(run.Commits) == 0 {
		return nil
	}
	err := e.step(ctx, run, "push", func(ctx context.Context) (domain.StepResult, error) {
		return domain.StepResult{}, e.publisher.Push(ctx, dir, wf.Push.Remote, run.Ref)
	})
	if err != nil {
		return fmt.Errorf("push failed: %w", err)
	}
	return nil
}

// step executes one pipeline step, recording timing, outcome and hooks.
func (e *Engine) step(ctx context.Context, run *domain.Run, name string, fn func(context.Context) (domain.StepResult, error)) error {
	start := time.Now().UTC()
	if e.hooks.OnStepStart != nil {
		e.hooks.OnStepStart(ctx, &domain.StepEvent{
			Timestamp: start,
			Type:      domain.EventStepStart,
			RunID:     run.ID,
			Step:      name,
		})
	}
	e.logger.Debug("step start", "run_id", run.ID, "step", name)

	res, err := fn(ctx)
	res.Name = name
	res.StartedAt = start
	res.FinishedAt = time.Now().UTC()
	if err != nil {
		res.Status = domain.StepFailed
		res.Error = err.Error()
	} else if res.Status == "" {
		res.Status = domain.StepOK
	}
	run.AddStep(res)
	e.persist(ctx, run)

	if e.hooks.OnStepFinish != nil {
		e.hooks.OnStepFinish(ctx, &domain.StepEvent{
			Timestamp: res.FinishedAt,
			Type:      domain.EventStepFinish,
			RunID:     run.ID,
			Step:      name,
			Status:    res.Status,
			Duration:  res.Duration(),
		})
	}
	e.logger.Info("step finished", "run_id", run.ID, "step", name, "status", res.Status, "duration", res.Duration())
	return err
}

func (e *Engine) transition(ctx context.Context, run *domain.Run, next domain.RunStatus) error {
	if err := run.Transition(next); err != nil {
		return err
	}
	e.persist(ctx, run)
	return nil
}

// persist saves progress when a store is configured. Persistence is best
// effort; a store outage must not fail the pipeline.
func (e *Engine) persist(ctx context.Context, run *domain.Run) {
	if e.store == nil {
		return
	}
	if err := e.store.Save(ctx, run); err != nil {
		e.logger.Warn("failed to persist run", "run_id", run.ID, "err", err)
	}
}
