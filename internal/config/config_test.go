package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/lumina/internal/models"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_FileValues(t *testing.T) {
	path := writeConfig(t, `
remote:
  url: https://edge.example.com/api
  secret_key: k1
  timeout: 3s
local:
  driver: sqlite
  path: /tmp/lumina.db
log:
  level: debug
`)
	opts, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://edge.example.com/api", opts.Remote.URL)
	assert.Equal(t, "k1", opts.Remote.SecretKey)
	assert.Equal(t, 3*time.Second, opts.Remote.Timeout)
	assert.Equal(t, DriverSQLite, opts.Local.Driver)
	assert.Equal(t, "debug", opts.Log.Level)
	assert.Equal(t, models.RemoteBackend, opts.Backend())
	// untouched keys keep defaults
	assert.Equal(t, "localhost:8080", opts.Server.Address)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "remote:\n  url: https://edge.example.com\n")
	t.Setenv("LUMINA_LOCAL_PATH", "/var/lib/lumina.json")

	opts, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/lumina.json", opts.Local.Path)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad scheme", "remote:\n  url: ftp://edge\n", "invalid remote.url"},
		{"no host", "remote:\n  url: https://\n", "invalid remote.url"},
		{"bad driver", "local:\n  driver: redis\n", "unsupported local.driver"},
		{"empty path", "local:\n  path: \"\"\n", "local.path"},
		{"zero timeout", "remote:\n  timeout: 0s\n", "remote.timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestBackend(t *testing.T) {
	opts := Defaults()
	assert.Equal(t, models.LocalBackend, opts.Backend())

	opts.Remote.URL = "   "
	assert.Equal(t, models.LocalBackend, opts.Backend())

	opts.Remote.URL = "https://edge.example.com"
	assert.Equal(t, models.RemoteBackend, opts.Backend())
}

func TestWriteTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lumina.yaml")

	written, err := WriteTemplate(path, false)
	require.NoError(t, err)
	assert.True(t, written)

	opts, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), *opts)

	written, err = WriteTemplate(path, false)
	require.NoError(t, err)
	assert.False(t, written, "existing file must be kept without overwrite")
}
