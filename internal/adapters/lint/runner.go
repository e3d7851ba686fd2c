// Package lint implements Linter port adapters for the supported style
// tools. The tools themselves are opaque: adapters only build the
// invocation and translate exit status and output into a report.
package lint

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
)

// execResult captures one tool invocation.
type execResult struct {
	stdout   string
	stderr   string
	exitCode int
}

// runTool executes a module of the provisioned interpreter inside the
// working tree. A non-zero exit is returned in the result, not as an
// error; lint tools signal findings through exit codes.
func runTool(ctx context.Context, dir, interpreter string, args ...string) (execResult, error) {
	cmd := exec.CommandContext(ctx, interpreter, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := execResult{
		stdout: stdout.String(),
		stderr: stderr.String(),
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.exitCode = exitErr.ExitCode()
			return res, nil
		}
		return res, err
	}
	return res, nil
}

// combined returns trimmed stdout+stderr for step logs.
func (r execResult) combined() string {
	return strings.TrimSpace(strings.TrimSpace(r.stdout) + "\n" + strings.TrimSpace(r.stderr))
}
