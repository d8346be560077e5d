package serve

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/foomo/docsite-mcp/config"
)

func testServeConfig() config.ServeConfig {
	return config.ServeConfig{
		Addr:          "127.0.0.1:0",
		Watch:         false,
		WatchDebounce: 50 * time.Millisecond,
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	server, err := New(zap.NewNop(), filepath.Join("..", "site", "testdata", "docs"), testServeConfig())
	require.NoError(t, err)
	return server
}

func TestServePage(t *testing.T) {
	server := newTestServer(t)
	handler := server.Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/Coding/Debugging", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, "<title>Debugging</title>")
	require.Contains(t, body, "Reading tracebacks")
	// Breadcrumb links back through the tree.
	require.Contains(t, body, `href="/Coding/index"`)
}

func TestServeDirectoryIndex(t *testing.T) {
	server := newTestServer(t)
	handler := server.Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/Coding", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "<title>Coding</title>")
}

func TestServeRoot(t *testing.T) {
	server := newTestServer(t)
	handler := server.Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "<title>Documentation</title>")
}

func TestServeNotFound(t *testing.T) {
	server := newTestServer(t)
	handler := server.Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/Coding/Missing", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServeLiveReloadScript(t *testing.T) {
	cfg := testServeConfig()
	cfg.Watch = true
	server, err := New(zap.NewNop(), filepath.Join("..", "site", "testdata", "docs"), cfg)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Contains(t, rec.Body.String(), "/ws/reload")

	// Without watch the script is not injected.
	server = newTestServer(t)
	rec = httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotContains(t, rec.Body.String(), "/ws/reload")
}

func TestReload(t *testing.T) {
	docs := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(docs, "index.md"), []byte("# Home\n"), 0o644))

	server, err := New(zap.NewNop(), docs, testServeConfig())
	require.NoError(t, err)
	require.Equal(t, 1, server.Tree().Len())

	require.NoError(t, os.WriteFile(filepath.Join(docs, "Extra.md"), []byte("# Extra\n"), 0o644))
	require.Equal(t, 2, server.Reload())
	require.Equal(t, 2, server.Tree().Len())
}

func TestReloadKeepsTreeOnError(t *testing.T) {
	docs := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(docs, "index.md"), []byte("# Home\n"), 0o644))

	server, err := New(zap.NewNop(), docs, testServeConfig())
	require.NoError(t, err)

	// Removing the root makes the reload fail; the old tree stays.
	require.NoError(t, os.RemoveAll(docs))
	require.Equal(t, 1, server.Reload())
	require.Equal(t, 1, server.Tree().Len())
}
