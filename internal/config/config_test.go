package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, BackendFile, cfg.Storage.Backend)
	assert.Equal(t, 4, cfg.Library.ParseWorkers)
	assert.Equal(t, 30*time.Second, cfg.Library.ScanTimeout)
	assert.Equal(t, filepath.Join(cfg.Paths.DataDir, "charts"), cfg.Paths.ChartsDir)
	assert.Equal(t, filepath.Join(cfg.Paths.DataDir, "respack"), cfg.Paths.RespacksDir)
	assert.Equal(t, cfg.LegacyDataPath(), cfg.Storage.Path)
	assert.Equal(t, filepath.Join(cfg.Paths.DataDir, "chartbox.lock"), cfg.LockPath())
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `paths:
  data_dir: ` + dir + `
  charts_dir: ` + filepath.Join(dir, "mycharts") + `
storage:
  backend: BOLT
library:
  scan_timeout: 5s
  parse_workers: 8
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.Paths.DataDir)
	assert.Equal(t, filepath.Join(dir, "mycharts"), cfg.Paths.ChartsDir)
	assert.Equal(t, filepath.Join(dir, "respack"), cfg.Paths.RespacksDir)
	assert.Equal(t, BackendBolt, cfg.Storage.Backend)
	assert.Equal(t, filepath.Join(dir, "chartbox.db"), cfg.Storage.Path)
	assert.Equal(t, 5*time.Second, cfg.Library.ScanTimeout)
	assert.Equal(t, 8, cfg.Library.ParseWorkers)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CHARTBOX_PATHS_DATA_DIR", dir)
	t.Setenv("CHARTBOX_LIBRARY_PARSE_WORKERS", "2")

	cfg, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.Paths.DataDir)
	assert.Equal(t, 2, cfg.Library.ParseWorkers)
	assert.Equal(t, filepath.Join(dir, "charts"), cfg.Paths.ChartsDir)
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := map[string]string{
		"backend": "storage:\n  backend: sqlite\n",
		"workers": "library:\n  parse_workers: -1\n",
		"yaml":    "paths: [unterminated\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
			_, err := LoadConfig(path)
			assert.Error(t, err)
		})
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Paths.DataDir = dir
	cfg.Storage.Backend = BackendBolt
	cfg.Library.ScanTimeout = time.Minute
	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, dir, loaded.Paths.DataDir)
	assert.Equal(t, BackendBolt, loaded.Storage.Backend)
	assert.Equal(t, time.Minute, loaded.Library.ScanTimeout)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "charts"), expandHome("~/charts"))
	assert.Equal(t, "/abs", expandHome("/abs"))
}
