package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

// TestNewWithoutFile confirms logging is discarded when no file is set.
func TestNewWithoutFile(t *testing.T) {
	t.Parallel()

	logger, err := New(true, "")
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel), "nop logger should not enable any level")
}

// TestNewDevelopmentLogger confirms the development logger writes debug lines.
func TestNewDevelopmentLogger(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "dev.log")
	logger, err := New(true, path)
	require.NoError(t, err)
	logger.Debug("development logger ready")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "development logger ready")
	assert.Contains(t, string(data), "DEBUG")
}

// TestNewProductionLogger ensures production output is JSON with a ts key.
func TestNewProductionLogger(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "prod.log")
	logger, err := New(false, path)
	require.NoError(t, err)
	logger.Debug("dropped")
	logger.Info("production logger ready")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"production logger ready"`)
	assert.Contains(t, string(data), `"ts":`)
	assert.NotContains(t, string(data), "dropped")
}
