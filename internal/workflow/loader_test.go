package workflow

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/stylebot/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleWorkflow = `
name: Fix code style issues
on: manual
python:
  version: "3.8"
tools:
  black:
    enabled: true
  flake8:
    enabled: true
auto_fix: true
commit:
  enabled: true
  message: "Fix code style issues with ${linter}"
  name: "Lint Action"
push:
  token_env: GIT_TOKEN
`

func TestParse_Sample(t *testing.T) {
	wf, err := Parse([]byte(sampleWorkflow))
	require.NoError(t, err)

	assert.Equal(t, "Fix code style issues", wf.Name)
	assert.Equal(t, domain.TriggerManual, wf.Trigger)
	assert.Equal(t, "3.8", wf.Python.Version)
	assert.True(t, wf.AutoFix)

	// Both tools enabled, formatter ordered first.
	assert.Equal(t, []string{"black", "flake8"}, wf.EnabledTools())
	assert.Equal(t, []string{"black", "flake8"}, wf.Requirements())

	assert.True(t, wf.Commit.Enabled)
	assert.Equal(t, "Fix code style issues with black", wf.Commit.RenderMessage("black"))
	assert.Equal(t, "Lint Action", wf.Commit.Name)

	assert.True(t, wf.Push.Enabled)
	assert.Equal(t, "origin", wf.Push.Remote)
	assert.Equal(t, "GIT_TOKEN", wf.Push.TokenEnv)
}

func TestParse_ToolShorthand(t *testing.T) {
	wf, err := Parse([]byte(`
on: manual
python:
  version: "3.11"
tools:
  black: true
  flake8: false
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"black"}, wf.EnabledTools())
}

func TestParse_ToolOptions(t *testing.T) {
	wf, err := Parse([]byte(`
on: manual
python:
  version: "3.11"
tools:
  black:
    enabled: true
    package: "black==24.8.0"
    args: ["--line-length", "100"]
    paths: ["src"]
`))
	require.NoError(t, err)

	cfg := wf.Tools["black"]
	assert.Equal(t, "black==24.8.0", cfg.Package)
	assert.Equal(t, []string{"--line-length", "100"}, cfg.Args)
	assert.Equal(t, []string{"black==24.8.0"}, wf.Requirements())
}

func TestParse_UnknownToolOptionRejected(t *testing.T) {
	_, err := Parse([]byte(`
on: manual
python:
  version: "3.11"
tools:
  black:
    enabled: true
    autofix: true
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "black")
}

func TestParse_TriggerList(t *testing.T) {
	// A single-element list form is equivalent to the scalar.
	wf, err := Parse([]byte(`
on: [manual]
python:
  version: "3.8"
tools:
  black: true
`))
	require.NoError(t, err)
	assert.Equal(t, domain.TriggerManual, wf.Trigger)
}

func TestParse_EventTriggerRejected(t *testing.T) {
	cases := []string{
		`on: push`,
		`on: [push, manual]`,
		`on: pull_request`,
		``,
	}
	for _, trigger := range cases {
		src := trigger + "\npython:\n  version: \"3.8\"\ntools:\n  black: true\n"
		_, err := Parse([]byte(src))
		assert.Error(t, err, "trigger %q should be rejected", trigger)
	}
}

func TestParse_Defaults(t *testing.T) {
	wf, err := Parse([]byte(`
on: manual
python:
  version: "3.8"
tools:
  flake8: true
`))
	require.NoError(t, err)

	assert.True(t, wf.AutoFix)
	assert.True(t, wf.Commit.Enabled)
	assert.Equal(t, DefaultCommitMessage, wf.Commit.Message)
	assert.Equal(t, DefaultBotName, wf.Commit.Name)
	assert.Equal(t, DefaultTokenEnv, wf.Push.TokenEnv)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stylebot.yml")
	require.NoError(t, os.WriteFile(path, []byte(sampleWorkflow), 0644))

	wf, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Fix code style issues", wf.Name)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
}
