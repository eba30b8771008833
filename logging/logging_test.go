package logging

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLevels(t *testing.T) {
	var buf bytes.Buffer
	Init(&buf, false)
	defer Init(os.Stderr, false)

	DebugLog("hidden %d", 1)
	LogInfo("shown %d", 2)
	assert.NotContains(t, buf.String(), "hidden 1")
	assert.Contains(t, buf.String(), "shown 2")

	buf.Reset()
	Init(&buf, true)
	DebugLog("visible %d", 3)
	assert.Contains(t, buf.String(), "visible 3")
}

func TestSetupLoggerTeesToFile(t *testing.T) {
	var buf bytes.Buffer
	Init(&buf, true)
	defer Init(os.Stderr, false)

	path := filepath.Join(t.TempDir(), "run.log")
	require.NoError(t, SetupLogger(path))
	LogWarning("band %s dropped", "p_seg_2")
	LogImageSegmented("hero.png", 0, errors.New("bad header"))
	CloseLogger()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "band p_seg_2 dropped")
	assert.Contains(t, string(data), "hero.png")
	assert.Contains(t, buf.String(), "band p_seg_2 dropped")

	LogError("after close")
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "after close")
}

func TestSetupLoggerBadPath(t *testing.T) {
	err := SetupLogger(filepath.Join(t.TempDir(), "missing", "run.log"))
	assert.Error(t, err)
}
