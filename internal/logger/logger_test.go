package logger

import (
	"os"
	"path/filepath"
	"testing"

	"catalog-keeper/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestGetLogLevelFromString(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, GetLogLevelFromString("DEBUG"))
	assert.Equal(t, zapcore.InfoLevel, GetLogLevelFromString("info"))
	assert.Equal(t, zapcore.ErrorLevel, GetLogLevelFromString("error"))
	assert.Equal(t, zapcore.WarnLevel, GetLogLevelFromString("verbose"))
}

func TestFileLoggingAndLevelChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "catalog-keeper.log")
	InitLogger(&config.LogConfig{Level: "info", Path: path, Format: "json", MaxSize: 1}, false)
	t.Cleanup(func() { defaultLogger = nil })

	Debugf("hidden %d", 1)
	Infof("component '%s' created", "nginx")
	SetLevel("debug")
	Debugf("visible %d", 2)
	Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, `"msg":"component 'nginx' created"`)
	assert.Contains(t, out, "visible 2")
	assert.NotContains(t, out, "hidden 1")
}

func TestLoggingBeforeInitIsNoop(t *testing.T) {
	defaultLogger = nil
	assert.NotPanics(t, func() {
		Info("ignored")
		Warnf("ignored %d", 1)
	})
	assert.NotNil(t, L())
}
