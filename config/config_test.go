package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/juruen/inkpaper/hwr"
	"github.com/juruen/inkpaper/paper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
applicationKey: app-key
hmacKey: secret
host: example.com
ssl: false
protocol: WebSocket
timeout: 500
precision: 2
port: 9000
textParameters:
  language: fr_FR
  inputMode: ISOLATED
penParameters:
  color: "#ff0000"
  width: 4
`

func TestLoad(t *testing.T) {
	t.Setenv(EnvApplicationKey, "")
	t.Setenv(EnvHmacKey, "")
	t.Setenv(EnvHost, "")

	path := filepath.Join(t.TempDir(), "inkpaper.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "app-key", cfg.ApplicationKey)
	assert.Equal(t, "fr_FR", cfg.TextParameters.Language)
	assert.Equal(t, hwr.InputModeIsolated, cfg.TextParameters.TextInputMode)
	assert.Equal(t, ":9000", cfg.Addr(0))
	assert.Equal(t, ":7000", cfg.Addr(7000))

	opts, err := cfg.PaperOptions()
	require.NoError(t, err)
	assert.Equal(t, "example.com", opts.Host)
	assert.False(t, opts.SSL)
	assert.Equal(t, paper.WebSocket, opts.Protocol)
	assert.Equal(t, 500, opts.Timeout)
	assert.Equal(t, 2, opts.Precision)
	assert.Equal(t, "#ff0000", opts.Pen.Color)
	assert.Equal(t, 4.0, opts.Pen.Width)
	assert.Equal(t, hwr.DefaultResultDetail, opts.TextParameters.ResultDetail)
	assert.Equal(t, paper.DefaultWidth, opts.Width)
}

func TestLoadMissingUsesDefaults(t *testing.T) {
	t.Setenv(EnvApplicationKey, "from-env")
	t.Setenv(EnvHmacKey, "hmac-env")
	t.Setenv(EnvHost, "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.ApplicationKey)

	opts, err := cfg.PaperOptions()
	require.NoError(t, err)
	def := paper.DefaultOptions()
	assert.Equal(t, "hmac-env", opts.HmacKey)
	assert.Equal(t, def.Host, opts.Host)
	assert.True(t, opts.SSL)
	assert.Equal(t, paper.REST, opts.Protocol)
	assert.Equal(t, paper.DefaultTimeout, opts.Timeout)
	assert.Equal(t, -1, opts.Precision)
	assert.Equal(t, ":8080", cfg.Addr(0))
}

func TestInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("width: [1, 2"), 0600))
	_, err := Load(path)
	assert.Error(t, err)

	cfg := &Config{Protocol: "smoke signals"}
	_, err = cfg.PaperOptions()
	assert.ErrorIs(t, err, paper.ErrUnknownProtocol)

	cfg = &Config{Type: "MUSIC"}
	_, err = cfg.PaperOptions()
	assert.ErrorIs(t, err, paper.ErrUnknownType)
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv(EnvApplicationKey, "")
	t.Setenv(EnvHmacKey, "")
	t.Setenv(EnvHost, "")

	path := filepath.Join(t.TempDir(), "nested", "inkpaper.yaml")
	timeout := -1
	cfg := &Config{ApplicationKey: "k", Timeout: &timeout, TextParameters: hwr.DefaultTextParameter()}
	require.NoError(t, Save(path, cfg))

	back, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "k", back.ApplicationKey)
	require.NotNil(t, back.Timeout)
	assert.Equal(t, -1, *back.Timeout)
	assert.Equal(t, hwr.DefaultLanguage, back.TextParameters.Language)
}

func TestConfigPath(t *testing.T) {
	t.Setenv(EnvConfig, "/tmp/custom.yaml")
	p, err := ConfigPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.yaml", p)
}
