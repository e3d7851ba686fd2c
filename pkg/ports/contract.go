package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/stylebot/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunRunStoreContract runs a suite of tests to verify that a RunStore
// implementation adheres to the defined interface contract.
func RunRunStoreContract(t *testing.T, store RunStore) {
	ctx := context.Background()
	runID := "contract-test-run-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		run := domain.NewRun(runID, "lint", "https://example.com/repo.git", "main")
		run.AddStep(domain.StepResult{Name: "checkout", Status: domain.StepOK})
		run.Commits = []string{"abc123"}

		err := store.Save(ctx, run)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, runID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, run.ID, loaded.ID)
		assert.Equal(t, run.Repo, loaded.Repo)
		assert.Equal(t, domain.RunPending, loaded.Status)
		require.Len(t, loaded.Steps, 1)
		assert.Equal(t, "checkout", loaded.Steps[0].Name)
		assert.Equal(t, []string{"abc123"}, loaded.Commits)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+runID)
		assert.ErrorIs(t, err, domain.ErrRunNotFound)
	})

	t.Run("Isolation", func(t *testing.T) {
		run := domain.NewRun(runID+"-iso", "lint", "repo", "")
		require.NoError(t, store.Save(ctx, run))
		defer func() { _ = store.Delete(ctx, run.ID) }()

		// Mutating the loaded copy must not leak into the store.
		loaded, err := store.Load(ctx, run.ID)
		require.NoError(t, err)
		loaded.Fail(nil)
		loaded.AddStep(domain.StepResult{Name: "rogue"})

		again, err := store.Load(ctx, run.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.RunPending, again.Status)
		assert.Empty(t, again.Steps)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, domain.NewRun(runID, "lint", "repo", "")))

		err := store.Delete(ctx, runID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, runID)
		assert.ErrorIs(t, err, domain.ErrRunNotFound, "Load after Delete should return ErrRunNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := runID + "-1"
		id2 := runID + "-2"
		_ = store.Save(ctx, domain.NewRun(id1, "lint", "repo", ""))
		_ = store.Save(ctx, domain.NewRun(id2, "lint", "repo", ""))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		runs, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, runs, id1)
		assert.Contains(t, runs, id2)
	})
}
