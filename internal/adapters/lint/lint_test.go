package lint

import (
	"testing"

	"github.com/aretw0/stylebot/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestParseBlackReformatted(t *testing.T) {
	stderr := `reformatted src/app.py
reformatted src/util.py

All done! ✨ 🍰 ✨
2 files reformatted, 3 files left unchanged.
`
	assert.Equal(t, []string{"src/app.py", "src/util.py"}, parseBlackReformatted(stderr))
}

func TestParseBlackReformatted_CleanRun(t *testing.T) {
	stderr := "All done! ✨ 🍰 ✨\n5 files left unchanged.\n"
	assert.Empty(t, parseBlackReformatted(stderr))
}

func TestCountBlackWouldReformat(t *testing.T) {
	stderr := `would reformat src/app.py
would reformat src/util.py

Oh no! 💥 💔 💥
2 files would be reformatted, 3 files would be left unchanged.
`
	assert.Equal(t, 2, countBlackWouldReformat(stderr))
	assert.Equal(t, 0, countBlackWouldReformat("All done!\n"))
}

func TestCountFlake8Violations(t *testing.T) {
	stdout := `src/app.py:3:1: F821 undefined name 'foo'
src/app.py:10:80: E501 line too long (88 > 79 characters)
src/util.py:1:1: F401 'os' imported but unused
`
	assert.Equal(t, 3, countFlake8Violations(stdout))
	assert.Equal(t, 0, countFlake8Violations(""))
	assert.Equal(t, 0, countFlake8Violations("\n\n"))
}

func TestToolNames(t *testing.T) {
	assert.Equal(t, "black", NewBlack(domain.ToolConfig{}).Name())
	assert.Equal(t, "flake8", NewFlake8(domain.ToolConfig{}).Name())
}

func TestTargets(t *testing.T) {
	assert.Equal(t, []string{"."}, targets(nil))
	assert.Equal(t, []string{"src", "tests"}, targets([]string{"src", "tests"}))
}
