// Package python implements the Toolchain port. It discovers an
// installed CPython matching the workflow's version pin, isolates it in
// a venv and installs the tool packages there. Downloading interpreters
// is deliberately out of scope; provisioning machines is the host's job.
package python

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/aretw0/stylebot/pkg/domain"
)

var versionOutput = regexp.MustCompile(`Python (\d+\.\d+\.\d+)`)

// Toolchain provisions Python environments.
type Toolchain struct {
	logger  *slog.Logger
	envRoot string // venvs are created under here
	pyenv   string // pyenv root, consulted after PATH
}

// Option configures the toolchain.
type Option func(*Toolchain)

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Toolchain) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithEnvRoot sets the directory environments are created under.
func WithEnvRoot(dir string) Option {
	return func(t *Toolchain) {
		t.envRoot = dir
	}
}

// WithPyenvRoot overrides the pyenv installation root.
func WithPyenvRoot(dir string) Option {
	return func(t *Toolchain) {
		t.pyenv = dir
	}
}

// New creates a toolchain provisioner.
func New(opts ...Option) *Toolchain {
	t := &Toolchain{
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		envRoot: os.TempDir(),
	}
	if home, err := os.UserHomeDir(); err == nil {
		t.pyenv = filepath.Join(home, ".pyenv")
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Provision finds an interpreter satisfying the pin and wraps it in a
// fresh venv so installs cannot pollute the system site-packages.
func (t *Toolchain) Provision(ctx context.Context, version string) (domain.Interpreter, error) {
	base, actual, err := t.discover(ctx, version)
	if err != nil {
		return domain.Interpreter{}, err
	}
	t.logger.Info("interpreter located", "pin", version, "version", actual, "path", base)

	envDir, err := os.MkdirTemp(t.envRoot, "stylebot-env-")
	if err != nil {
		return domain.Interpreter{}, fmt.Errorf("failed to create env directory: %w", err)
	}
	cmd := exec.CommandContext(ctx, base, "-m", "venv", envDir)
	if out, err := cmd.CombinedOutput(); err != nil {
		return domain.Interpreter{}, fmt.Errorf("venv creation failed: %v: %s", err, strings.TrimSpace(string(out)))
	}

	return domain.Interpreter{
		Path:    filepath.Join(envDir, "bin", "python"),
		Version: actual,
	}, nil
}

// Install installs pip requirements into the provisioned environment.
func (t *Toolchain) Install(ctx context.Context, interp domain.Interpreter, requirements []string) error {
	if len(requirements) == 0 {
		return nil
	}
	args := append([]string{"-m", "pip", "install", "--disable-pip-version-check"}, requirements...)
	cmd := exec.CommandContext(ctx, interp.Path, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("pip install failed: %v: %s", err, tail(string(out), 2000))
	}
	t.logger.Info("tools installed", "requirements", requirements)
	return nil
}

// discover probes candidate interpreters and returns the first whose
// reported version satisfies the pin.
func (t *Toolchain) discover(ctx context.Context, pin string) (path, version string, err error) {
	for _, candidate := range t.candidates(pin) {
		bin, err := exec.LookPath(candidate)
		if err != nil {
			// Absolute candidates (pyenv) are probed directly.
			if filepath.IsAbs(candidate) {
				bin = candidate
			} else {
				continue
			}
		}
		out, err := exec.CommandContext(ctx, bin, "--version").CombinedOutput()
		if err != nil {
			continue
		}
		actual := parseVersion(string(out))
		if actual != "" && matchesPin(actual, pin) {
			return bin, actual, nil
		}
	}
	return "", "", fmt.Errorf("%w: %s", domain.ErrNoInterpreter, pin)
}

// candidates lists interpreter locations in preference order: the most
// specific PATH name first, then pyenv installs, then generic names.
func (t *Toolchain) candidates(pin string) []string {
	parts := strings.Split(pin, ".")
	var names []string
	if len(parts) >= 2 {
		names = append(names, "python"+parts[0]+"."+parts[1])
	}
	names = append(names, "python"+parts[0])

	if t.pyenv != "" {
		if entries, err := os.ReadDir(filepath.Join(t.pyenv, "versions")); err == nil {
			for _, e := range entries {
				if matchesPin(e.Name(), pin) {
					names = append(names, filepath.Join(t.pyenv, "versions", e.Name(), "bin", "python"))
				}
			}
		}
	}

	return append(names, "python3", "python")
}

// parseVersion extracts "3.8.19" from `python --version` output.
func parseVersion(out string) string {
	m := versionOutput.FindStringSubmatch(out)
	if m == nil {
		return ""
	}
	return m[1]
}

// matchesPin reports whether an actual version satisfies a pin on dot
// boundaries: "3.8" matches "3.8.19" but not "3.81.0".
func matchesPin(actual, pin string) bool {
	if actual == pin {
		return true
	}
	return strings.HasPrefix(actual, pin+".")
}

// tail returns the last n bytes of s, for bounded step logs.
func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
