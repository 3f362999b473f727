package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv(EnvHTTPBackend, "")
	t.Setenv(EnvWSBackend, "")
	t.Setenv(EnvDataDir, "")
	return home
}

func TestLoadCreatesDefaults(t *testing.T) {
	home := isolateHome(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".local", "share", "startime"), cfg.DataDir())
	assert.Equal(t, DefaultHTTPBackend, cfg.HTTPBackend)
	assert.Equal(t, DefaultWSBackend, cfg.WSBackend)
	assert.Equal(t, 1500, cfg.WorkSeconds)
	assert.Equal(t, 300, cfg.ShortBreakSeconds)
	assert.Equal(t, 900, cfg.LongBreakSeconds)
	assert.Equal(t, EncryptionNone, cfg.SecurityMethod)
	assert.Equal(t, 200*time.Millisecond, cfg.SearchDebounce())

	assert.True(t, FileExists(GetSettingsFilePath()))
	info, err := os.Stat(filepath.Join(cfg.DataDir(), "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	dirInfo, err := os.Stat(cfg.DataDir())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0700), dirInfo.Mode().Perm())
}

func TestLoadReadsUserConfig(t *testing.T) {
	home := isolateHome(t)
	dataDir := filepath.Join(home, "data")

	require.NoError(t, EnsureDir(GetConfigDir()))
	require.NoError(t, os.WriteFile(GetSettingsFilePath(), []byte(`data_directory = "`+dataDir+`"`), 0600))
	require.NoError(t, EnsureDir(dataDir))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "config.toml"), []byte(`
[backend]
http_url = "https://api.startime.test"
ws_url = "wss://api.startime.test"

[search]
debounce_ms = 350

[pomodoro]
work_seconds = 60
`), 0600))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, dataDir, cfg.DataDir())
	assert.Equal(t, "https://api.startime.test", cfg.HTTPBackend)
	assert.Equal(t, "wss://api.startime.test", cfg.WSBackend)
	assert.Equal(t, 350*time.Millisecond, cfg.SearchDebounce())
	assert.Equal(t, 60, cfg.WorkSeconds)
	assert.Equal(t, DefaultShortBreakSeconds, cfg.ShortBreakSeconds)
}

func TestLoadFromEnvironment(t *testing.T) {
	home := isolateHome(t)
	dataDir := filepath.Join(home, "env-data")
	t.Setenv(EnvHTTPBackend, "http://backend:9000")
	t.Setenv(EnvWSBackend, "ws://backend:9000")
	t.Setenv(EnvDataDir, dataDir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://backend:9000", cfg.HTTPBackend)
	assert.Equal(t, "ws://backend:9000", cfg.WSBackend)
	assert.Equal(t, dataDir, cfg.DataDir())
	assert.False(t, SystemConfigExists(), "env-only mode must not write settings")
}

func TestEnvVarHelpers(t *testing.T) {
	isolateHome(t)

	assert.False(t, HasAnyEnvVar())
	assert.False(t, HasAllEnvVars())
	assert.Equal(t, EnvHTTPBackend, GetMissingEnvVar())

	t.Setenv(EnvHTTPBackend, "http://x")
	t.Setenv(EnvDataDir, "/tmp/x")
	assert.True(t, HasAnyEnvVar())
	assert.False(t, HasAllEnvVars())
	assert.Equal(t, EnvWSBackend, GetMissingEnvVar())

	t.Setenv(EnvWSBackend, "ws://x")
	assert.True(t, HasAllEnvVars())
	assert.Equal(t, "", GetMissingEnvVar())
}

func TestExpandPath(t *testing.T) {
	home := isolateHome(t)
	t.Setenv("STARTIME_TEST_DIR", "nested")

	assert.Equal(t, filepath.Join(home, "a", "b"), ExpandPath("~/a/b"))
	assert.Equal(t, filepath.Join("/srv", "nested"), ExpandPath("/srv/$STARTIME_TEST_DIR"))
	assert.Equal(t, "", ExpandPath(""))
}
