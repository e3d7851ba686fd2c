package stylebot_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/stylebot"
	"github.com/aretw0/stylebot/internal/adapters/memory"
	"github.com/aretw0/stylebot/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testWorkflow() *domain.Workflow {
	return &domain.Workflow{
		Name:    "lint",
		Trigger: domain.TriggerManual,
		Python:  domain.PythonConfig{Version: "3.8"},
		Tools: map[string]domain.ToolConfig{
			"black":  {Enabled: true},
			"flake8": {Enabled: true},
		},
		AutoFix: true,
		Commit: domain.CommitConfig{
			Enabled: true,
			Message: "Fix code style issues with ${linter}",
			Name:    "Lint Action",
			Email:   "lint-action@localhost",
		},
		Push: domain.PushConfig{Enabled: true, Remote: "origin", TokenEnv: "STYLEBOT_TOKEN"},
	}
}

type stubFetcher struct {
	mu        sync.Mutex
	calls     int
	active    int
	maxActive int
	delay     time.Duration
}

func (s *stubFetcher) Fetch(ctx context.Context, repo, ref string) (string, error) {
	s.mu.Lock()
	s.calls++
	s.active++
	if s.active > s.maxActive {
		s.maxActive = s.active
	}
	s.mu.Unlock()

	if s.delay > 0 {
		time.Sleep(s.delay)
	}

	s.mu.Lock()
	s.active--
	s.mu.Unlock()
	return "/tmp/checkout", nil
}

type stubToolchain struct{}

func (stubToolchain) Provision(ctx context.Context, version string) (domain.Interpreter, error) {
	return domain.Interpreter{Path: "/usr/bin/python3", Version: "3.8.19"}, nil
}

func (stubToolchain) Install(ctx context.Context, interp domain.Interpreter, requirements []string) error {
	return nil
}

type stubPublisher struct{}

func (stubPublisher) Changes(ctx context.Context, dir string) ([]string, error) { return nil, nil }
func (stubPublisher) Commit(ctx context.Context, dir, message string, paths []string, id domain.BotIdentity) (string, error) {
	return "", nil
}
func (stubPublisher) Push(ctx context.Context, dir, remote, ref string) error { return nil }

type stubLinter struct{ name string }

func (s stubLinter) Name() string { return s.name }
func (s stubLinter) Run(ctx context.Context, dir string, interp domain.Interpreter, fix bool) (domain.LintReport, error) {
	return domain.LintReport{Tool: s.name}, nil
}

func newTestEngine(t *testing.T, fetcher *stubFetcher, store *memory.Store) *stylebot.Engine {
	t.Helper()
	engine, err := stylebot.NewWithWorkflow(testWorkflow(),
		stylebot.WithFetcher(fetcher),
		stylebot.WithToolchain(stubToolchain{}),
		stylebot.WithPublisher(stubPublisher{}),
		stylebot.WithLinters(stubLinter{name: "black"}, stubLinter{name: "flake8"}),
		stylebot.WithStore(store),
	)
	require.NoError(t, err)
	return engine
}

func TestNewWithWorkflow_RejectsInvalidWorkflow(t *testing.T) {
	wf := testWorkflow()
	wf.Trigger = "push"

	_, err := stylebot.NewWithWorkflow(wf)
	assert.Error(t, err)
}

func TestNewWithWorkflow_RejectsUnsupportedTool(t *testing.T) {
	wf := testWorkflow()
	wf.Tools["pylint"] = domain.ToolConfig{Enabled: true}

	_, err := stylebot.NewWithWorkflow(wf,
		stylebot.WithFetcher(&stubFetcher{}),
		stylebot.WithToolchain(stubToolchain{}),
		stylebot.WithPublisher(stubPublisher{}),
	)
	assert.ErrorContains(t, err, "pylint")
}

func TestDispatch_CleanRunSucceeds(t *testing.T) {
	store := memory.NewStore()
	engine := newTestEngine(t, &stubFetcher{}, store)

	run, err := engine.Dispatch(context.Background(), "octo/repo", "main")
	require.NoError(t, err)
	require.NotNil(t, run)

	assert.Equal(t, domain.RunSucceeded, run.Status)
	assert.Empty(t, run.Commits)

	stored, err := store.Load(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RunSucceeded, stored.Status)
}

func TestDispatch_RunIDsAreUnique(t *testing.T) {
	engine := newTestEngine(t, &stubFetcher{}, memory.NewStore())

	a, err := engine.Dispatch(context.Background(), "octo/repo", "")
	require.NoError(t, err)
	b, err := engine.Dispatch(context.Background(), "octo/repo", "")
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
}

func TestDispatch_SerializesRunsAgainstSameRepo(t *testing.T) {
	fetcher := &stubFetcher{delay: 50 * time.Millisecond}
	engine := newTestEngine(t, fetcher, memory.NewStore())

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := engine.Dispatch(context.Background(), "octo/repo", "")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, fetcher.calls)
	assert.Equal(t, 1, fetcher.maxActive, "runs against the same repo must not overlap")
}

func TestDispatchAsync_ReturnsPendingRun(t *testing.T) {
	store := memory.NewStore()
	engine := newTestEngine(t, &stubFetcher{}, store)

	run, err := engine.DispatchAsync(context.Background(), "octo/repo", "main")
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.NotEmpty(t, run.ID)

	// The background run finishes eventually and the store reflects it.
	require.Eventually(t, func() bool {
		stored, err := store.Load(context.Background(), run.ID)
		return err == nil && stored.Terminal()
	}, 2*time.Second, 10*time.Millisecond)
}

func TestDispatchAsync_SnapshotIsolatedFromBackgroundRun(t *testing.T) {
	store := memory.NewStore()
	engine := newTestEngine(t, &stubFetcher{}, store)

	const dispatches = 50

	var wg sync.WaitGroup
	for i := 0; i < dispatches; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			run, err := engine.DispatchAsync(context.Background(), "octo/repo", "")
			if !assert.NoError(t, err) {
				return
			}
			// The returned snapshot belongs to the caller; the background
			// run must never write to it, and mutating it must not leak
			// back into the pipeline.
			assert.Equal(t, domain.RunPending, run.Status)
			assert.Empty(t, run.Steps)
			run.AddStep(domain.StepResult{Name: "local-only"})
			run.Status = domain.RunFailed
		}()
	}
	wg.Wait()

	// Drain the background runs so none outlive the test.
	require.Eventually(t, func() bool {
		ids, err := store.List(context.Background())
		if err != nil || len(ids) != dispatches {
			return false
		}
		for _, id := range ids {
			stored, err := store.Load(context.Background(), id)
			if err != nil || !stored.Terminal() {
				return false
			}
		}
		return true
	}, 5*time.Second, 10*time.Millisecond)

	ids, err := store.List(context.Background())
	require.NoError(t, err)
	for _, id := range ids {
		stored, err := store.Load(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, domain.RunSucceeded, stored.Status)
		for _, s := range stored.Steps {
			assert.NotEqual(t, "local-only", s.Name)
		}
	}
}

func TestNew_LoadsWorkflowFile(t *testing.T) {
	path := t.TempDir() + "/stylebot.yml"
	data := []byte(`
name: lint
on: manual
python:
  version: "3.8"
tools:
  black: true
  flake8: true
`)
	require.NoError(t, os.WriteFile(path, data, 0644))

	engine, err := stylebot.New(path,
		stylebot.WithFetcher(&stubFetcher{}),
		stylebot.WithToolchain(stubToolchain{}),
		stylebot.WithPublisher(stubPublisher{}),
	)
	require.NoError(t, err)
	assert.Equal(t, "lint", engine.Name)
	assert.Equal(t, []string{"black", "flake8"}, engine.Workflow().EnabledTools())
}

func TestNew_MissingFile(t *testing.T) {
	_, err := stylebot.New(t.TempDir() + "/nope.yml")
	assert.Error(t, err)
}
