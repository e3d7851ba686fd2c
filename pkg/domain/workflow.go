package domain

import (
	"regexp"
	"sort"
	"strings"
)

// TriggerManual is the only trigger kind a workflow may declare.
// Runs start exclusively from an explicit human or API dispatch, never
// from repository events.
const TriggerManual = "manual"

// LinterPlaceholder is substituted with the tool name when rendering
// commit messages.
const LinterPlaceholder = "${linter}"

// versionPin matches a dotted numeric interpreter pin like "3", "3.8" or "3.8.12".
var versionPin = regexp.MustCompile(`^\d+(\.\d+){0,2}$`)

// Workflow is the parsed definition of a lint-and-autofix pipeline.
type Workflow struct {
	Name    string
	Trigger string
	Python  PythonConfig
	Tools   map[string]ToolConfig
	AutoFix bool
	Commit  CommitConfig
	Push    PushConfig
}

// PythonConfig pins the interpreter the tools run under.
type PythonConfig struct {
	Version string
}

// ValidVersion reports whether the pinned version is syntactically usable.
func (p PythonConfig) ValidVersion() bool {
	return versionPin.MatchString(p.Version)
}

// ToolConfig holds the per-tool settings decoded from the workflow file.
type ToolConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Package string   `mapstructure:"package"` // pip requirement, defaults to the tool name
	Args    []string `mapstructure:"args"`
	Paths   []string `mapstructure:"paths"`
}

// CommitConfig controls the auto-commit side effect.
type CommitConfig struct {
	Enabled bool
	Message string // template containing LinterPlaceholder
	Name    string // bot display name
	Email   string
}

// RenderMessage substitutes the tool name into the commit message template.
func (c CommitConfig) RenderMessage(tool string) string {
	return strings.ReplaceAll(c.Message, LinterPlaceholder, tool)
}

// Identity returns the author identity for commits produced by the run.
func (c CommitConfig) Identity() BotIdentity {
	return BotIdentity{Name: c.Name, Email: c.Email}
}

// PushConfig controls where fixes are pushed and how they authenticate.
// The token itself is never stored in the workflow; only the name of the
// environment variable the host injects it through.
type PushConfig struct {
	Enabled  bool
	Remote   string
	TokenEnv string
}

// BotIdentity is the commit author used for automated fixes.
type BotIdentity struct {
	Name  string
	Email string
}

// ToolOrder fixes the execution order of known tools. Formatters run
// before pure checkers so the checker sees the formatted result.
var ToolOrder = []string{"black", "flake8"}

// EnabledTools returns the enabled tool names in execution order.
// Unknown tools are appended after the known ones, sorted by name so
// execution and install order stay stable across runs.
func (w *Workflow) EnabledTools() []string {
	var names []string
	seen := make(map[string]bool)
	for _, name := range ToolOrder {
		if cfg, ok := w.Tools[name]; ok && cfg.Enabled {
			names = append(names, name)
			seen[name] = true
		}
	}
	var extra []string
	for name, cfg := range w.Tools {
		if cfg.Enabled && !seen[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return append(names, extra...)
}

// Requirements returns the pip requirements for every enabled tool.
func (w *Workflow) Requirements() []string {
	var reqs []string
	for _, name := range w.EnabledTools() {
		cfg := w.Tools[name]
		if cfg.Package != "" {
			reqs = append(reqs, cfg.Package)
		} else {
			reqs = append(reqs, name)
		}
	}
	return reqs
}

// Interpreter identifies a provisioned Python runtime.
type Interpreter struct {
	Path    string // executable inside the created environment
	Version string // actual resolved version, e.g. "3.8.19"
}

// LintReport is the outcome of one tool invocation.
type LintReport struct {
	Tool         string
	FilesChanged []string // files the tool rewrote (fix mode only)
	Violations   int      // violations the tool could not fix
	Output       string   // trailing tool output for the step log
}
