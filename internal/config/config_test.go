package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateHome points HOME at an empty temp dir and clears APPLY_PATCH_* vars.
func isolateHome(t *testing.T) string {
	t.Helper()
	tmpHome := t.TempDir()
	t.Setenv("HOME", tmpHome)
	for _, key := range []string{"CWD", "MAX_FUZZ", "CONFIRM", "DEBUG", "VERBOSE", "LOG_FILE"} {
		t.Setenv(EnvPrefix+"_"+key, "")
		os.Unsetenv(EnvPrefix + "_" + key)
	}
	return tmpHome
}

func TestDefaultConfig(t *testing.T) {
	isolateHome(t)

	cfg, err := Load()
	require.NoError(t, err)

	wd, err := os.Getwd()
	require.NoError(t, err)

	assert.Equal(t, DefaultMaxFuzz, cfg.MaxFuzz)
	assert.Equal(t, wd, cfg.CWD)
	assert.False(t, cfg.Confirm)
	assert.False(t, cfg.Debug)
}

func TestLoadFromEnvironment(t *testing.T) {
	isolateHome(t)
	t.Setenv("APPLY_PATCH_MAX_FUZZ", "100")
	t.Setenv("APPLY_PATCH_CONFIRM", "true")
	t.Setenv("APPLY_PATCH_LOG_FILE", "/tmp/patch.log")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.MaxFuzz)
	assert.True(t, cfg.Confirm)
	assert.Equal(t, "/tmp/patch.log", cfg.LogFile)
}

func TestLoadFromConfigFile(t *testing.T) {
	home := isolateHome(t)

	configDir := filepath.Join(home, DefaultConfigDir)
	require.NoError(t, os.MkdirAll(configDir, 0755))
	content := "cwd: /srv/project\nmax_fuzz: 1\ndebug: true\n"
	require.NoError(t, os.WriteFile(filepath.Join(configDir, DefaultConfigName+".yaml"), []byte(content), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/srv/project", cfg.CWD)
	assert.Equal(t, 1, cfg.MaxFuzz)
	assert.True(t, cfg.Debug)
	assert.Equal(t, filepath.Join(configDir, DefaultConfigName+".yaml"), ConfigFile())
}

func TestLoadRejectsNegativeMaxFuzz(t *testing.T) {
	isolateHome(t)
	t.Setenv("APPLY_PATCH_MAX_FUZZ", "-5")

	_, err := Load()
	assert.ErrorContains(t, err, "max_fuzz")
}
