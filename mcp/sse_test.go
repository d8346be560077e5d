package mcp

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHandleCheckSSE(t *testing.T) {
	sseServer := NewCheckSSEServer(zap.NewNop(), fixtureDeps(t))

	rec := httptest.NewRecorder()
	sseServer.HandleCheckSSE(rec, httptest.NewRequest(http.MethodGet, "/mcp/sse/check", nil))

	require.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	require.Contains(t, body, "event: check_start")
	require.Contains(t, body, "event: check_page")
	require.Contains(t, body, "event: check_complete")
	require.NotContains(t, body, "event: check_error")

	// One progress event per page plus start and complete.
	pages := fixtureDeps(t).Tree().Len()
	require.Equal(t, pages, strings.Count(body, "event: check_page"))
}

func TestHTTPSSEServerStats(t *testing.T) {
	deps := fixtureDeps(t)
	handler := NewHTTPSSEServer(zap.NewNop(), NewServer(deps), deps, "/mcp")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/mcp/stats", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"pages":15`)
	require.Contains(t, rec.Body.String(), Version)
}
