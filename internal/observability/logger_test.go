package observability

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/lightwalker/dailydo/internal/config"
)

func testLoggerConfig(format string) config.LoggerConfig {
	cfg := config.NewDefaultConfig().Logger
	cfg.Format = format
	cfg.LogFile = ""
	return cfg
}

func TestNew_ConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	cfg := testLoggerConfig("console")
	cfg.Colors = config.ColorConfig{}
	cfg.ServiceName = "lightwalker"

	logger := New(cfg, zapcore.AddSync(&buf))
	logger.Info("batch started", zap.Int("candidates", 3))
	require.NoError(t, logger.Sync())

	output := buf.String()
	assert.Contains(t, output, "INFO")
	assert.Contains(t, output, "lightwalker.")
	assert.Contains(t, output, "batch started")
	assert.Contains(t, output, `"candidates": 3`)
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	cfg := testLoggerConfig("json")
	cfg.ServiceName = "lightwalker"

	logger := New(cfg, zapcore.AddSync(&buf))
	logger.Named("enhancer").Warn("attempt failed", zap.Int("attempt", 2))
	require.NoError(t, logger.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "lightwalker.enhancer", entry["logger"])
	assert.Equal(t, "attempt failed", entry["msg"])
	assert.EqualValues(t, 2, entry["attempt"])
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	cfg := testLoggerConfig("json")
	cfg.Level = "warn"

	logger := New(cfg, zapcore.AddSync(&buf))
	logger.Info("hidden")
	logger.Debug("hidden too")
	assert.Empty(t, buf.String())

	logger.Error("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestNew_InvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	cfg := testLoggerConfig("json")
	cfg.Level = "chatty"

	logger := New(cfg, zapcore.AddSync(&buf))
	logger.Debug("hidden")
	logger.Info("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNew_WritesLogFile(t *testing.T) {
	var buf bytes.Buffer
	cfg := testLoggerConfig("console")
	cfg.LogFile = filepath.Join(t.TempDir(), "logs", "lightwalker.log")

	logger := New(cfg, zapcore.AddSync(&buf))
	logger.Info("to both sinks")
	require.NoError(t, logger.Sync())

	assert.Contains(t, buf.String(), "to both sinks")
	assert.FileExists(t, cfg.LogFile)
}

func TestInitialize_OnlyFirstCallWins(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	var first, second bytes.Buffer
	Initialize(testLoggerConfig("json"), zapcore.AddSync(&first))
	Initialize(testLoggerConfig("json"), zapcore.AddSync(&second))

	GetLogger().Info("hello")

	assert.Contains(t, first.String(), "hello")
	assert.Empty(t, second.String())
}

func TestGetLogger_FallbackBeforeInitialize(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	assert.NotNil(t, GetLogger())
}
