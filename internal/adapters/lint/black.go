package lint

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/stylebot/pkg/domain"
)

// Black runs the black autoformatter.
type Black struct {
	cfg domain.ToolConfig
}

// NewBlack creates a black runner with the workflow's tool options.
func NewBlack(cfg domain.ToolConfig) *Black {
	return &Black{cfg: cfg}
}

func (b *Black) Name() string { return "black" }

// Run invokes black. In fix mode files are rewritten in place; in check
// mode every file black would rewrite counts as an unfixable violation.
func (b *Black) Run(ctx context.Context, dir string, interp domain.Interpreter, fix bool) (domain.LintReport, error) {
	args := []string{"-m", "black"}
	if !fix {
		args = append(args, "--check")
	}
	args = append(args, b.cfg.Args...)
	args = append(args, targets(b.cfg.Paths)...)

	res, err := runTool(ctx, dir, interp.Path, args...)
	if err != nil {
		return domain.LintReport{Tool: b.Name()}, fmt.Errorf("black did not run: %w", err)
	}

	report := domain.LintReport{Tool: b.Name(), Output: res.combined()}

	// black: 0 = done, 1 = --check found files to reformat,
	// anything else = the tool itself failed (e.g. unparseable source).
	switch res.exitCode {
	case 0:
		report.FilesChanged = parseBlackReformatted(res.stderr)
	case 1:
		if fix {
			return report, fmt.Errorf("black failed: %s", res.combined())
		}
		report.Violations = countBlackWouldReformat(res.stderr)
		if report.Violations == 0 {
			report.Violations = 1
		}
	default:
		return report, fmt.Errorf("black failed (exit %d): %s", res.exitCode, res.combined())
	}
	return report, nil
}

// parseBlackReformatted extracts rewritten paths from black's stderr,
// which reports one "reformatted <path>" line per file.
func parseBlackReformatted(stderr string) []string {
	var files []string
	for _, line := range strings.Split(stderr, "\n") {
		if path, ok := strings.CutPrefix(strings.TrimSpace(line), "reformatted "); ok {
			files = append(files, path)
		}
	}
	return files
}

// countBlackWouldReformat counts check-mode findings.
func countBlackWouldReformat(stderr string) int {
	count := 0
	for _, line := range strings.Split(stderr, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "would reformat ") {
			count++
		}
	}
	return count
}

// targets defaults to the whole working tree.
func targets(paths []string) []string {
	if len(paths) == 0 {
		return []string{"."}
	}
	return paths
}
