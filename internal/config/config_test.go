package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	f := Default()
	require.NoError(t, f.Validate())
	assert.Equal(t, "relay", f.Model)
	assert.Equal(t, 1000, f.Explore.ProgressInterval)

	cfg := f.StateSpace(2)
	assert.Equal(t, 2, cfg.Processes)
	assert.Zero(t, cfg.MaxStates)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
model: pingpong
processes: 4
explore:
  max_states: 500
  timeout: 90s
  max_heap_bytes: 1048576
export:
  dot: out/space.dot
  report: out/report.yaml
log:
  level: debug
  development: true
`), 0o644))

	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "pingpong", f.Model)
	assert.Equal(t, 4, f.Processes)
	assert.Equal(t, 1000, f.Explore.ProgressInterval, "untouched keys keep defaults")
	assert.Equal(t, "out/space.dot", f.Export.Dot)
	assert.Empty(t, f.Export.Mermaid)

	cfg := f.StateSpace(2)
	assert.Equal(t, 4, cfg.Processes, "file overrides the model default")
	assert.Equal(t, 500, cfg.MaxStates)
	assert.Equal(t, 90*time.Second, cfg.Timeout)
	assert.Equal(t, uint64(1<<20), cfg.MaxHeapBytes)

	logger, err := f.Logger()
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(-1))
}

func TestParseRejects(t *testing.T) {
	for name, doc := range map[string]string{
		"unknown key":    "modle: relay\n",
		"empty model":    "model: \"\"\n",
		"negative procs": "processes: -1\n",
		"bad level":      "log:\n  level: loud\n",
		"negative bound": "explore:\n  max_states: -5\n",
		"bad duration":   "explore:\n  timeout: soon\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestParseEmptyIsDefault(t *testing.T) {
	f, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), f)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
