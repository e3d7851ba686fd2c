package ports

import (
	"context"

	"github.com/aretw0/stylebot/pkg/domain"
)

// RunStore defines the interface for persisting run records.
// It backs the dispatch API and the CLI run history.
type RunStore interface {
	// Save persists the run, keyed by its ID.
	Save(ctx context.Context, run *domain.Run) error

	// Load retrieves a run by ID.
	// Returns domain.ErrRunNotFound if the run does not exist.
	Load(ctx context.Context, id string) (*domain.Run, error)

	// Delete removes a run record.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of stored runs.
	List(ctx context.Context) ([]string, error)
}
