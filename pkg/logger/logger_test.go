package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("nonsense"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel(""))
}

func TestNew_WritesToFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "planner.log")

	log, err := New(Config{Level: "info", Format: "json", OutputPaths: []string{path}})
	require.NoError(t, err)

	log.Info("Plan generated", zap.String("plan_id", "abc"))
	require.NoError(t, log.Sync())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"msg":"Plan generated"`)
	assert.Contains(t, string(content), `"plan_id":"abc"`)
}

func TestNewWithLevel_AtomicLevelChangesAtRuntime(t *testing.T) {
	path := filepath.Join(t.TempDir(), "planner.log")
	level, log, err := NewWithLevel(Config{Level: "warn", OutputPaths: []string{path}})
	require.NoError(t, err)

	log.Info("dropped")
	level.SetLevel(zapcore.InfoLevel)
	log.Info("kept")
	require.NoError(t, log.Sync())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(content), "dropped")
	assert.Contains(t, string(content), "kept")
}

func TestNew_UnwritablePathFails(t *testing.T) {
	_, err := New(Config{OutputPaths: []string{filepath.Join(t.TempDir(), "missing", "x.log")}})
	assert.Error(t, err)
}
