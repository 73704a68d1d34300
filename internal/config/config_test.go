package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clocking/internal/views"
)

func writeConfig(t *testing.T, content string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "clocking"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "clocking", "config.yaml"), []byte(content), 0o600))
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(FileVar, "")
	t.Setenv(AddrVar, "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Empty(t, cfg.File)
	assert.Equal(t, ":8000", cfg.Server.Addr)
	assert.Equal(t, "08:00", cfg.Window.Start)
	assert.Equal(t, "21:00", cfg.Window.End)
}

func TestLoadFromFile(t *testing.T) {
	writeConfig(t, `
file: /tmp/clocking.db
server:
  addr: ":9000"
window:
  start: "09:30"
  end: "18:00"
`)
	t.Setenv(FileVar, "")
	t.Setenv(AddrVar, "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/clocking.db", cfg.File)
	assert.Equal(t, ":9000", cfg.Server.Addr)

	window, err := cfg.ParseWindow()
	require.NoError(t, err)
	assert.Equal(t, views.Window{Start: views.Clock{Hour: 9, Minute: 30}, End: views.Clock{Hour: 18}}, window)
}

func TestEnvOverridesFile(t *testing.T) {
	writeConfig(t, "file: /tmp/from-file.db\n")
	t.Setenv(FileVar, "/tmp/from-env.db")
	t.Setenv(AddrVar, ":7000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/from-env.db", cfg.File)
	assert.Equal(t, ":7000", cfg.Server.Addr)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	writeConfig(t, "file: [unclosed\n")
	_, err := Load()
	assert.Error(t, err)
}

func TestParseWindowRejectsBadClock(t *testing.T) {
	for _, bad := range []string{"8", "25:00", "08:60", "ab:cd", ""} {
		cfg := Config{Window: WindowConfig{Start: bad, End: "21:00"}}
		_, err := cfg.ParseWindow()
		assert.Error(t, err, "window start %q", bad)
	}
}
