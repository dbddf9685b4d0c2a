package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "eduassist.log")
	logger, err := New(path, "debug")
	require.NoError(t, err)

	logger.With("job", "generate-1").Error("request failed", "status", 502)
	logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"request failed"`)
	assert.Contains(t, string(data), `"status":502`)
	assert.Contains(t, string(data), `"job":"generate-1"`)
}

func TestNewFiltersBelowLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eduassist.log")
	logger, err := New(path, "warn")
	require.NoError(t, err)

	logger.Info("quiet")
	logger.Warn("loud")
	logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "quiet")
	assert.Contains(t, string(data), "loud")
}

func TestNewRequiresPath(t *testing.T) {
	_, err := New("  ", "info")
	assert.Error(t, err)
}
