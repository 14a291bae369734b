package server

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, []string{"console"}, cfg.Log.Sinks)
	assert.Empty(t, cfg.ClientDir)
}

func TestLoadConfigReadsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	contents := "addr: \":9090\"\nclientDir: ./web\nlog:\n  sinks: [console, json]\n  jsonPath: /var/log/cannonade.ndjson\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "./web", cfg.ClientDir)
	assert.Equal(t, []string{"console", "json"}, cfg.Log.Sinks)
	assert.Equal(t, "/var/log/cannonade.ndjson", cfg.Log.JSONPath)
}

func TestLoadConfigRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: [unterminated"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestNormalizedFillsBlanks(t *testing.T) {
	cfg := Config{Addr: "  ", ClientDir: " ./client "}.Normalized()
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "./client", cfg.ClientDir)
	assert.Equal(t, []string{"console"}, cfg.Log.Sinks)
}
