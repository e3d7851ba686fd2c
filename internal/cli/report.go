package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/aretw0/stylebot/pkg/domain"
	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

const durationPrecision = 10 * time.Millisecond

// BuildReport renders a run as a markdown document.
func BuildReport(run *domain.Run) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Run %s\n\n", run.ID)
	fmt.Fprintf(&b, "- **Repository:** %s\n", run.Repo)
	if run.Ref != "" {
		fmt.Fprintf(&b, "- **Ref:** %s\n", run.Ref)
	}
	fmt.Fprintf(&b, "- **Status:** %s\n", run.Status)
	if !run.FinishedAt.IsZero() {
		fmt.Fprintf(&b, "- **Duration:** %s\n", run.FinishedAt.Sub(run.StartedAt).Round(durationPrecision))
	}
	if run.Error != "" {
		fmt.Fprintf(&b, "- **Error:** %s\n", run.Error)
	}

	if len(run.Steps) > 0 {
		b.WriteString("\n## Steps\n\n")
		b.WriteString("| Step | Status | Violations | Files changed |\n")
		b.WriteString("| --- | --- | --- | --- |\n")
		for _, s := range run.Steps {
			files := ""
			if len(s.FilesChanged) > 0 {
				files = strings.Join(s.FilesChanged, ", ")
			}
			fmt.Fprintf(&b, "| %s | %s | %d | %s |\n", s.Name, s.Status, s.Violations, files)
		}
	}

	if len(run.Commits) > 0 {
		b.WriteString("\n## Commits\n\n")
		for _, sha := range run.Commits {
			fmt.Fprintf(&b, "- `%s`\n", sha)
		}
	}

	return b.String()
}

// RenderReport writes the run report to w. When w is a terminal the
// markdown is rendered with glamour; otherwise it is written raw so the
// output stays pipeable.
func RenderReport(w io.Writer, run *domain.Run) error {
	md := BuildReport(run)

	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		r, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
		if err == nil {
			if out, err := r.Render(md); err == nil {
				_, err = io.WriteString(w, out)
				return err
			}
		}
	}

	_, err := io.WriteString(w, md)
	return err
}
