package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "198.41.0.4", cfg.Resolver.RootServer)
	assert.Equal(t, 20, cfg.Resolver.MaxDepth)
	assert.Equal(t, 3*time.Second, cfg.ResolverTimeout())
	assert.Equal(t, "0.0.0.0", cfg.FileServer.Host)
	assert.Equal(t, 8000, cfg.FileServer.Port)
	assert.Equal(t, "./static", cfg.FileServer.StaticRoot)
	assert.Equal(t, 53210, cfg.Echo.Port)
	assert.Equal(t, "INFO", cfg.Logging.Level)
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"resolver": {"root_server": "199.9.14.201", "timeout": "500ms", "max_depth": 10},
		"file_server": {"port": 9000, "enable_listings": true},
		"logging": {"level": "debug"}
	}`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "199.9.14.201", cfg.Resolver.RootServer)
	assert.Equal(t, 500*time.Millisecond, cfg.ResolverTimeout())
	assert.Equal(t, 10, cfg.Resolver.MaxDepth)
	assert.Equal(t, 9000, cfg.FileServer.Port)
	assert.True(t, cfg.FileServer.EnableListings)
	assert.Equal(t, "DEBUG", cfg.Logging.Level, "level is normalized to upper case")
	// Unset sections still get defaults.
	assert.Equal(t, 53210, cfg.Echo.Port)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad json", `{not json`},
		{"bad timeout", `{"resolver": {"timeout": "soon"}}`},
		{"bad port", `{"file_server": {"port": 123456}}`},
		{"negative depth", `{"resolver": {"max_depth": -1}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0o644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
