package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sanspareilsmyn/measurelens/internal/config"
)

func TestNewLoggerWritesJSONFile(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewLogger(config.LogConfig{
		Level:              "info",
		Format:             "json",
		FileLoggingEnabled: true,
		Directory:          dir,
		Filename:           "test.log",
		MaxSize:            1,
	})
	require.NoError(t, err)

	logger.Info("partition accumulated", zap.Int("partition", 3))
	logger.Debug("not written")
	require.NoError(t, logger.Sync())

	raw, err := os.ReadFile(filepath.Join(dir, "test.log"))
	require.NoError(t, err)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &entry))
	require.Equal(t, "INFO", entry["level"])
	require.Equal(t, "partition accumulated", entry["msg"])
	require.Equal(t, float64(3), entry["partition"])
}

func TestNewLoggerWithoutOutputs(t *testing.T) {
	_, err := NewLogger(config.LogConfig{Level: "info", Format: "json"})
	require.ErrorIs(t, err, ErrNoOutputs)
}

func TestParseLevel(t *testing.T) {
	level, err := parseLevel("DEBUG")
	require.NoError(t, err)
	require.Equal(t, zapcore.DebugLevel, level)

	level, err = parseLevel("loud")
	require.Error(t, err)
	require.Equal(t, zapcore.InfoLevel, level)
}
