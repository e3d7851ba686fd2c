package stylebot

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/aretw0/stylebot/internal/adapters/git"
	"github.com/aretw0/stylebot/internal/adapters/lint"
	"github.com/aretw0/stylebot/internal/adapters/memory"
	"github.com/aretw0/stylebot/internal/adapters/python"
	"github.com/aretw0/stylebot/internal/logging"
	"github.com/aretw0/stylebot/internal/runtime"
	"github.com/aretw0/stylebot/internal/workflow"
	"github.com/aretw0/stylebot/pkg/domain"
	"github.com/aretw0/stylebot/pkg/ports"
)

// lockTTL bounds how long a crashed holder can block a repository.
const lockTTL = 30 * time.Minute

// Engine is the high-level entry point for the stylebot library.
// It wraps the internal pipeline runtime and provides a simplified API
// for consumers: load a workflow once, dispatch runs against targets.
type Engine struct {
	runtime   *runtime.Engine
	workflow  *domain.Workflow
	store     ports.RunStore
	locker    ports.Locker
	fetcher   ports.SourceFetcher
	toolchain ports.Toolchain
	publisher ports.Publisher
	linters   []ports.Linter
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	token     string
	tokenSet  bool
	Name      string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithStore sets the run store (default: in-memory).
func WithStore(store ports.RunStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithLocker sets the run locker (default: in-process).
func WithLocker(locker ports.Locker) Option {
	return func(e *Engine) {
		e.locker = locker
	}
}

// WithFetcher injects a custom source fetcher, bypassing the default
// git client.
func WithFetcher(f ports.SourceFetcher) Option {
	return func(e *Engine) {
		e.fetcher = f
	}
}

// WithToolchain injects a custom toolchain provisioner.
func WithToolchain(t ports.Toolchain) Option {
	return func(e *Engine) {
		e.toolchain = t
	}
}

// WithPublisher injects a custom publisher.
func WithPublisher(p ports.Publisher) Option {
	return func(e *Engine) {
		e.publisher = p
	}
}

// WithLinters overrides the tool runners built from the workflow.
func WithLinters(linters ...ports.Linter) Option {
	return func(e *Engine) {
		e.linters = linters
	}
}

// WithToken overrides the push credential instead of reading it from
// the environment variable the workflow names.
func WithToken(token string) Option {
	return func(e *Engine) {
		e.token = token
		e.tokenSet = true
	}
}

// New initializes an Engine from a workflow file.
func New(workflowPath string, opts ...Option) (*Engine, error) {
	wf, err := workflow.Load(workflowPath)
	if err != nil {
		return nil, err
	}
	return NewWithWorkflow(wf, opts...)
}

// NewWithWorkflow initializes an Engine from an already-parsed workflow.
func NewWithWorkflow(wf *domain.Workflow, opts ...Option) (*Engine, error) {
	if err := workflow.Validate(wf); err != nil {
		return nil, err
	}

	eng := &Engine{workflow: wf, Name: wf.Name}
	for _, opt := range opts {
		opt(eng)
	}

	// Ensure logger is initialized so adapters never receive nil.
	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	if eng.Name != "" {
		eng.logger = eng.logger.With("workflow", eng.Name)
	}

	if !eng.tokenSet {
		eng.token = os.Getenv(wf.Push.TokenEnv)
	}

	if eng.fetcher == nil || eng.publisher == nil {
		client := git.NewClient(
			git.WithLogger(eng.logger),
			git.WithToken(eng.token),
		)
		if eng.fetcher == nil {
			eng.fetcher = client
		}
		if eng.publisher == nil {
			eng.publisher = client
		}
	}
	if eng.toolchain == nil {
		eng.toolchain = python.New(python.WithLogger(eng.logger))
	}
	if eng.linters == nil {
		linters, err := buildLinters(wf)
		if err != nil {
			return nil, err
		}
		eng.linters = linters
	}
	if eng.store == nil {
		eng.store = memory.NewStore()
	}
	if eng.locker == nil {
		eng.locker = memory.NewLocker()
	}

	eng.runtime = runtime.NewEngine(
		eng.fetcher,
		eng.toolchain,
		eng.publisher,
		runtime.WithLinters(eng.linters...),
		runtime.WithStore(eng.store),
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
	)

	return eng, nil
}

// buildLinters maps enabled workflow tools to their runners.
func buildLinters(wf *domain.Workflow) ([]ports.Linter, error) {
	var linters []ports.Linter
	for _, name := range wf.EnabledTools() {
		cfg := wf.Tools[name]
		switch name {
		case "black":
			linters = append(linters, lint.NewBlack(cfg))
		case "flake8":
			linters = append(linters, lint.NewFlake8(cfg))
		default:
			return nil, fmt.Errorf("unsupported tool %q", name)
		}
	}
	return linters, nil
}

// Dispatch starts one run against the target and blocks until it
// finishes. Runs against the same target are serialized through the
// locker. The returned run is always non-nil once dispatch begins; the
// error mirrors run.Status for convenience.
func (e *Engine) Dispatch(ctx context.Context, repo, ref string) (*domain.Run, error) {
	unlock, err := e.locker.Lock(ctx, repo, lockTTL)
	if err != nil {
		return nil, fmt.Errorf("could not acquire run lock: %w", err)
	}
	defer func() {
		if err := unlock(context.WithoutCancel(ctx)); err != nil {
			e.logger.Warn("failed to release run lock", "repo", repo, "err", err)
		}
	}()

	run := domain.NewRun(newRunID(), e.workflow.Name, repo, ref)
	e.logger.Info("run dispatched", "run_id", run.ID, "repo", repo, "ref", ref)

	err = e.runtime.Execute(ctx, e.workflow, run)
	return run, err
}

// DispatchAsync registers a pending run and executes it in the
// background. The returned snapshot carries the run ID; callers poll
// the store for progress.
func (e *Engine) DispatchAsync(ctx context.Context, repo, ref string) (*domain.Run, error) {
	run := domain.NewRun(newRunID(), e.workflow.Name, repo, ref)
	if err := e.store.Save(ctx, run); err != nil {
		return nil, fmt.Errorf("could not register run: %w", err)
	}
	e.logger.Info("run dispatched", "run_id", run.ID, "repo", repo, "ref", ref)

	// Snapshot before the goroutine starts; from that point on the
	// background run owns the record and the caller polls the store.
	snap := run.Clone()

	go func() {
		// The run outlives the dispatching request.
		ctx := context.WithoutCancel(ctx)
		unlock, err := e.locker.Lock(ctx, repo, lockTTL)
		if err != nil {
			run.Fail(fmt.Errorf("could not acquire run lock: %w", err))
			if saveErr := e.store.Save(ctx, run); saveErr != nil {
				e.logger.Error("failed to persist run", "run_id", run.ID, "err", saveErr)
			}
			return
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				e.logger.Warn("failed to release run lock", "repo", repo, "err", err)
			}
		}()
		if err := e.runtime.Execute(ctx, e.workflow, run); err != nil {
			e.logger.Error("run failed", "run_id", run.ID, "err", err)
		}
	}()

	return snap, nil
}

// Workflow returns the loaded workflow definition.
func (e *Engine) Workflow() *domain.Workflow {
	return e.workflow
}

// Store returns the run store used by the engine.
func (e *Engine) Store() ports.RunStore {
	return e.store
}

// newRunID derives a sortable, collision-resistant run identifier.
func newRunID() string {
	now := time.Now().UTC()
	return fmt.Sprintf("run-%s-%06x", now.Format("20060102-150405"), now.UnixNano()&0xffffff)
}
