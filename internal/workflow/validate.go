package workflow

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/aretw0/stylebot/pkg/domain"
)

var envVarName = regexp.MustCompile(`^[A-Z_][A-Z0-9_]*$`)

// Validate checks a workflow definition for configuration errors.
// All problems are collected so a broken file is reported in one pass.
func Validate(wf *domain.Workflow) error {
	var problems []string

	// Runs must only ever start from an explicit dispatch. Event-style
	// triggers (push, pull_request, schedules) are rejected outright.
	if wf.Trigger != domain.TriggerManual {
		problems = append(problems, fmt.Sprintf("trigger must be %q, got %q", domain.TriggerManual, wf.Trigger))
	}

	if wf.Python.Version == "" {
		problems = append(problems, "python.version is required")
	} else if !wf.Python.ValidVersion() {
		problems = append(problems, fmt.Sprintf("python.version %q is not a valid version pin", wf.Python.Version))
	}

	if len(wf.EnabledTools()) == 0 {
		problems = append(problems, "at least one tool must be enabled")
	}

	if wf.Commit.Enabled {
		if !strings.Contains(wf.Commit.Message, domain.LinterPlaceholder) {
			problems = append(problems, fmt.Sprintf("commit.message must contain the %s placeholder", domain.LinterPlaceholder))
		}
		if wf.Commit.Name == "" {
			problems = append(problems, "commit.name is required when commits are enabled")
		}
	}

	if wf.Push.Enabled {
		if !wf.Commit.Enabled {
			problems = append(problems, "push requires commit to be enabled")
		}
		if !envVarName.MatchString(wf.Push.TokenEnv) {
			problems = append(problems, fmt.Sprintf("push.token_env %q is not a valid environment variable name", wf.Push.TokenEnv))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid workflow: %s", strings.Join(problems, "; "))
	}
	return nil
}
