package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "panel.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
port: /dev/ttyACM1
baud: 19200
pacingMs: 75
fineStep: 500
log:
  file: /tmp/panel.log
  level: debug
remote:
  enabled: true
  listen: 0.0.0.0:9000
`)
	cfg := defaultConfig()
	require.NoError(t, cfg.load(path))

	assert.Equal(t, "/dev/ttyACM1", cfg.Port)
	assert.Equal(t, 19200, cfg.Baud)
	assert.Equal(t, 75*time.Millisecond, cfg.pacing())
	assert.Equal(t, uint32(500), cfg.FineStep)
	assert.Equal(t, uint32(5000), cfg.CoarseStep, "defaults survive partial files")
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 3, cfg.Log.MaxBackups)
	assert.True(t, cfg.Remote.Enabled)
	assert.Equal(t, "0.0.0.0:9000", cfg.Remote.Listen)
	require.NoError(t, cfg.validate())
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "port: /dev/ttyACM0\nspeed: 3\n")
	cfg := defaultConfig()
	assert.ErrorContains(t, cfg.load(path), "could not parse config file")
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg := defaultConfig()
	assert.ErrorContains(t, cfg.load(filepath.Join(t.TempDir(), "missing.yaml")), "could not open config file")
}

func TestPacingFloor(t *testing.T) {
	cfg := defaultConfig()
	cfg.PacingMs = 10
	assert.Equal(t, 50*time.Millisecond, cfg.pacing())
}

func TestApplyOverrides(t *testing.T) {
	cfg := defaultConfig()
	cfg.Port = "/dev/from-file"

	t.Setenv("PANEL_PORT", "/dev/from-env")
	cfg.applyOverrides(nil)
	assert.Equal(t, "/dev/from-env", cfg.Port)

	cfg.applyOverrides([]string{"/dev/ttyACM0"})
	assert.Equal(t, "/dev/ttyACM0", cfg.Port)
}

func TestValidate(t *testing.T) {
	cfg := defaultConfig()
	assert.ErrorContains(t, cfg.validate(), "supply path argument")

	cfg.Port = "/dev/ttyACM0"
	require.NoError(t, cfg.validate())

	cfg.Remote = remoteConfig{Enabled: true}
	assert.Error(t, cfg.validate())
}
