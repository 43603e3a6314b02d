package obs

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewDevModeBuildsDebugLevelLogger(t *testing.T) {
	logger := New(true)
	require.NotNil(t, logger)
	require.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestNewProductionModeBuildsInfoLevelLoggerWithoutDebug(t *testing.T) {
	logger := New(false)
	require.NotNil(t, logger)
	require.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	require.False(t, logger.Core().Enabled(zapcore.DebugLevel))
}
