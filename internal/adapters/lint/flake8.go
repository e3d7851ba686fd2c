package lint

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/stylebot/pkg/domain"
)

// Flake8 runs the flake8 checker. flake8 never rewrites files, so every
// finding it reports is an unfixable violation regardless of fix mode.
type Flake8 struct {
	cfg domain.ToolConfig
}

// NewFlake8 creates a flake8 runner with the workflow's tool options.
func NewFlake8(cfg domain.ToolConfig) *Flake8 {
	return &Flake8{cfg: cfg}
}

func (f *Flake8) Name() string { return "flake8" }

func (f *Flake8) Run(ctx context.Context, dir string, interp domain.Interpreter, fix bool) (domain.LintReport, error) {
	args := []string{"-m", "flake8"}
	args = append(args, f.cfg.Args...)
	args = append(args, targets(f.cfg.Paths)...)

	res, err := runTool(ctx, dir, interp.Path, args...)
	if err != nil {
		return domain.LintReport{Tool: f.Name()}, fmt.Errorf("flake8 did not run: %w", err)
	}

	report := domain.LintReport{Tool: f.Name(), Output: res.combined()}

	// flake8: 0 = clean, 1 = violations found, >1 = execution error.
	switch res.exitCode {
	case 0:
	case 1:
		report.Violations = countFlake8Violations(res.stdout)
		if report.Violations == 0 {
			report.Violations = 1
		}
	default:
		return report, fmt.Errorf("flake8 failed (exit %d): %s", res.exitCode, res.combined())
	}
	return report, nil
}

// countFlake8Violations counts finding lines, formatted as
// "path:line:col: CODE message".
func countFlake8Violations(stdout string) int {
	count := 0
	for _, line := range strings.Split(stdout, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.Count(line, ":") >= 3 {
			count++
		}
	}
	return count
}
