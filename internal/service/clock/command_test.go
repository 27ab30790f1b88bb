package clock

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/oshokin/dst-clock/internal/logger"
)

// TestCloseDisplay_LogsThroughRestoredLogger checks a close failure is written
// by the logger in place after the sink closed, not the one it replaced.
// It swaps the global logger, so it does not run in parallel.
func TestCloseDisplay_LogsThroughRestoredLogger(t *testing.T) {
	previous := logger.Logger()
	t.Cleanup(func() { logger.SetLogger(previous) })

	var during, after bytes.Buffer

	logger.SetLogger(logger.NewWithOutput(zapcore.DebugLevel, &during))

	closeDisplay(func() error {
		logger.SetLogger(logger.NewWithOutput(zapcore.DebugLevel, &after))

		return errors.New("terminal busy")
	})

	require.Empty(t, during.String())
	require.Contains(t, after.String(), "Close display")
	require.Contains(t, after.String(), "terminal busy")
}

// TestCloseDisplay_Quiet checks a clean close logs nothing.
func TestCloseDisplay_Quiet(t *testing.T) {
	previous := logger.Logger()
	t.Cleanup(func() { logger.SetLogger(previous) })

	var out bytes.Buffer

	logger.SetLogger(logger.NewWithOutput(zapcore.DebugLevel, &out))

	closeDisplay(func() error { return nil })

	require.Empty(t, out.String())
}
