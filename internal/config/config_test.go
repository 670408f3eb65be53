package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setConfigHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	return filepath.Join(dir, "winsdk", "winsdk.json")
}

func TestLoad_Defaults(t *testing.T) {
	path := setConfigHome(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, path, cfg.Path())
	assert.Empty(t, cfg.SearchPaths)
	assert.Empty(t, cfg.MinVersion)
	assert.True(t, cfg.UpdateConfig.Enabled)
	assert.True(t, cfg.UpdateConfig.AutoCheck)
	assert.NoFileExists(t, path)
}

func TestSaveAndLoad(t *testing.T) {
	path := setConfigHome(t)

	cfg, err := Load()
	require.NoError(t, err)

	kits := filepath.Join(t.TempDir(), "Windows Kits", "10")
	assert.True(t, cfg.AddSearchPath(kits))
	cfg.MinVersion = "10.0.19041"
	cfg.UpdateConfig.LastCheck = time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, cfg.Save())
	require.FileExists(t, path)
	assert.NoFileExists(t, path+".tmp")

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{kits}, loaded.SearchPaths)
	assert.Equal(t, "10.0.19041", loaded.MinVersion)
	assert.True(t, cfg.UpdateConfig.LastCheck.Equal(loaded.UpdateConfig.LastCheck))
}

func TestLoad_StripsBOMAndCleansPaths(t *testing.T) {
	path := setConfigHome(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))

	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte(`{
  "search_paths": ["  /opt/kits/10/ ", "", "/OPT/kits/10", ".", "/srv/kits"],
  "min_version": " 10.0.22000 "
}`)...)
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"/opt/kits/10", "/srv/kits"}, cfg.SearchPaths)
	assert.Equal(t, "10.0.22000", cfg.MinVersion)
}

func TestLoad_InvalidJSON(t *testing.T) {
	path := setConfigHome(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := Load()
	assert.Error(t, err)
}

func TestSearchPaths(t *testing.T) {
	cfg := &Config{}

	assert.True(t, cfg.AddSearchPath("/opt/kits"))
	assert.False(t, cfg.AddSearchPath("/OPT/KITS/"))
	assert.False(t, cfg.AddSearchPath("   "))
	assert.True(t, cfg.HasSearchPath("/opt/Kits"))

	assert.True(t, cfg.RemoveSearchPath("/opt/KITS"))
	assert.False(t, cfg.RemoveSearchPath("/opt/kits"))
	assert.False(t, cfg.HasSearchPath("/opt/kits"))
	assert.Empty(t, cfg.SearchPaths)
}
