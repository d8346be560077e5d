package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	require.Equal(t, "docs", cfg.Docs)
	require.Equal(t, ":8080", cfg.Serve.Addr)
	require.True(t, cfg.Serve.Watch)
	require.Equal(t, "/mcp", cfg.MCP.Endpoint)
	require.Equal(t, 8, cfg.Check.Workers)
}

func TestLoadFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "docsite.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
docs: wiki
serve:
  addr: ":9999"
  watch: false
  watch_debounce: 1s
check:
  workers: 2
  severities:
    duplicate-target: error
    empty-section: "off"
`), 0o644))

	cfg, err := Load(file)
	require.NoError(t, err)
	require.Equal(t, "wiki", cfg.Docs)
	require.Equal(t, ":9999", cfg.Serve.Addr)
	require.False(t, cfg.Serve.Watch)
	require.Equal(t, time.Second, cfg.Serve.WatchDebounce)
	require.Equal(t, 2, cfg.Check.Workers)
	require.Equal(t, "error", cfg.Check.Severities["duplicate-target"])
	require.Equal(t, "off", cfg.Check.Severities["empty-section"])
	// Untouched values keep their defaults.
	require.Equal(t, "/mcp", cfg.MCP.Endpoint)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DOCSITE_DOCS", "elsewhere")
	t.Setenv("DOCSITE_SERVE_ADDR", ":7070")
	t.Setenv("DOCSITE_DEBUG", "true")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, "elsewhere", cfg.Docs)
	require.Equal(t, ":7070", cfg.Serve.Addr)
	require.True(t, cfg.Debug)
}

func TestLoadBadYAML(t *testing.T) {
	file := filepath.Join(t.TempDir(), "docsite.yaml")
	require.NoError(t, os.WriteFile(file, []byte("docs: [unclosed"), 0o644))

	_, err := Load(file)
	require.Error(t, err)
}
