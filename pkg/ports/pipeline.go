package ports

import (
	"context"

	"github.com/aretw0/stylebot/pkg/domain"
)

// SourceFetcher acquires a working tree for the target repository at the
// triggering ref.
type SourceFetcher interface {
	// Fetch returns the path of a checked-out working tree.
	// For remote repositories this clones into a scratch directory;
	// local paths are used in place.
	Fetch(ctx context.Context, repo, ref string) (string, error)
}

// Toolchain provisions the pinned language runtime and installs the lint
// tool packages into it.
type Toolchain interface {
	// Provision locates an interpreter satisfying the version pin and
	// prepares an isolated environment around it.
	// Returns domain.ErrNoInterpreter when the pin cannot be satisfied.
	Provision(ctx context.Context, version string) (domain.Interpreter, error)

	// Install installs the given pip requirements into the environment.
	Install(ctx context.Context, interp domain.Interpreter, requirements []string) error
}

// Linter runs one external style tool against a working tree.
// The tool itself is opaque; implementations only translate its exit
// status and output into a report.
type Linter interface {
	Name() string

	// Run executes the tool. With fix enabled the tool may rewrite files;
	// otherwise it only reports. A non-nil error means the tool could not
	// run at all, not that it found violations.
	Run(ctx context.Context, dir string, interp domain.Interpreter, fix bool) (domain.LintReport, error)
}

// Publisher turns working-tree changes into commits and pushes them back
// under the configured bot identity.
type Publisher interface {
	// Changes lists paths modified in the working tree.
	Changes(ctx context.Context, dir string) ([]string, error)

	// Commit stages the given paths and commits them. Returns the commit
	// SHA, or an empty SHA if there was nothing to commit.
	Commit(ctx context.Context, dir, message string, paths []string, id domain.BotIdentity) (string, error)

	// Push publishes local commits to the remote ref.
	Push(ctx context.Context, dir, remote, ref string) error
}
