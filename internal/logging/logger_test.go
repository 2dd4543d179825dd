package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, zapcore.InfoLevel, lvl)

	lvl, err = ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, lvl)

	_, err = ParseLevel("chatty")
	assert.Error(t, err)
}

func TestSetLevelAffectsOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	logger, err := New(Config{Level: "info", JSON: true, OutputPaths: []string{path}})
	require.NoError(t, err)

	logger.Debug("hidden message")
	require.NoError(t, logger.SetLevel("debug"))
	logger.Named("controller").Debug("visible message")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.False(t, strings.Contains(out, "hidden message"))
	assert.True(t, strings.Contains(out, "visible message"))
	assert.True(t, strings.Contains(out, `"logger":"controller"`))
	assert.Equal(t, zapcore.DebugLevel, logger.Level())
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	assert.Error(t, err)
	assert.NotNil(t, Nop().Logger)
}
