package domain_test

import (
	"testing"

	"github.com/aretw0/stylebot/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestCommitConfig_RenderMessage(t *testing.T) {
	cfg := domain.CommitConfig{Message: "Fix code style issues with ${linter}"}

	assert.Equal(t, "Fix code style issues with black", cfg.RenderMessage("black"))
	assert.Equal(t, "Fix code style issues with flake8", cfg.RenderMessage("flake8"))
}

func TestCommitConfig_RenderMessage_NoPlaceholder(t *testing.T) {
	cfg := domain.CommitConfig{Message: "Apply automatic fixes"}
	assert.Equal(t, "Apply automatic fixes", cfg.RenderMessage("black"))
}

func TestWorkflow_EnabledTools_FormatterBeforeChecker(t *testing.T) {
	wf := &domain.Workflow{Tools: map[string]domain.ToolConfig{
		"flake8": {Enabled: true},
		"black":  {Enabled: true},
	}}

	assert.Equal(t, []string{"black", "flake8"}, wf.EnabledTools())
}

func TestWorkflow_EnabledTools_SkipsDisabled(t *testing.T) {
	wf := &domain.Workflow{Tools: map[string]domain.ToolConfig{
		"black":  {Enabled: true},
		"flake8": {Enabled: false},
	}}

	assert.Equal(t, []string{"black"}, wf.EnabledTools())
}

func TestWorkflow_EnabledTools_UnknownAppended(t *testing.T) {
	wf := &domain.Workflow{Tools: map[string]domain.ToolConfig{
		"black": {Enabled: true},
		"isort": {Enabled: true},
	}}

	assert.Equal(t, []string{"black", "isort"}, wf.EnabledTools())
}

func TestWorkflow_EnabledTools_UnknownOrderIsStable(t *testing.T) {
	wf := &domain.Workflow{Tools: map[string]domain.ToolConfig{
		"isort":    {Enabled: true},
		"autopep8": {Enabled: true},
		"black":    {Enabled: true},
		"flake8":   {Enabled: true},
	}}

	want := []string{"black", "flake8", "autopep8", "isort"}
	for i := 0; i < 20; i++ {
		assert.Equal(t, want, wf.EnabledTools())
	}
}

func TestWorkflow_Requirements_UsesPackageOverride(t *testing.T) {
	wf := &domain.Workflow{Tools: map[string]domain.ToolConfig{
		"black":  {Enabled: true, Package: "black==24.4.2"},
		"flake8": {Enabled: true},
	}}

	assert.Equal(t, []string{"black==24.4.2", "flake8"}, wf.Requirements())
}

func TestPythonConfig_ValidVersion(t *testing.T) {
	assert.True(t, domain.PythonConfig{Version: "3"}.ValidVersion())
	assert.True(t, domain.PythonConfig{Version: "3.8"}.ValidVersion())
	assert.True(t, domain.PythonConfig{Version: "3.8.12"}.ValidVersion())

	assert.False(t, domain.PythonConfig{Version: ""}.ValidVersion())
	assert.False(t, domain.PythonConfig{Version: "3.x"}.ValidVersion())
	assert.False(t, domain.PythonConfig{Version: "3.8.1.2"}.ValidVersion())
	assert.False(t, domain.PythonConfig{Version: "latest"}.ValidVersion())
}
