package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"personal-ledger/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&config.Config{LogLevel: "warn"}, &buf)

	logger.Info("hidden")
	logger.Warn("shown", "handle", "alice")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "handle=alice")
}

func TestForAddsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := For(New(&config.Config{}, &buf), ComponentStorage)
	logger.Info("saved")
	assert.Contains(t, buf.String(), "component=storage")
}

func TestSetupInstallsDefault(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	Setup(&config.Config{LogLevel: "debug"}, &buf)
	slog.Debug("via default")
	assert.Contains(t, buf.String(), "via default")
}
