package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/stylebot/internal/adapters/file"
	"github.com/aretw0/stylebot/pkg/domain"
	"github.com/aretw0/stylebot/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_Contract(t *testing.T) {
	store := file.NewStore(t.TempDir())
	ports.RunRunStoreContract(t, store)
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	run := domain.NewRun("run-1", "lint", "repo", "main")
	run.Finish()
	require.NoError(t, file.NewStore(dir).Save(ctx, run))

	// A fresh store over the same directory sees the run, like a second
	// CLI invocation would.
	loaded, err := file.NewStore(dir).Load(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, domain.RunSucceeded, loaded.Status)
}

func TestFileStore_IgnoresForeignFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("x"), 0644))

	ids, err := file.NewStore(dir).List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}
