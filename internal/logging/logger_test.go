package logging_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/aretw0/stylebot/internal/logging"
	"github.com/stretchr/testify/assert"
)

func TestNewAt_NormalizesErrorKey(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewAt(&buf, slog.LevelInfo)

	logger.Info("push failed", "error", "boom")

	out := buf.String()
	assert.Contains(t, out, "err=boom")
	assert.NotContains(t, out, "error=boom")
}

func TestNewAt_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewAt(&buf, slog.LevelInfo)

	logger.Debug("step start", "step", "checkout")
	assert.Empty(t, buf.String())

	logger.Info("step finished", "step", "checkout")
	assert.Contains(t, buf.String(), "step=checkout")
}

func TestNewNop_DiscardsEverything(t *testing.T) {
	logger := logging.NewNop()
	assert.NotPanics(t, func() {
		logger.Error("ignored", "err", "boom")
		logger.Info("ignored", "step", "checkout")
	})
}
