package mcp

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// httpRequestKey is a custom context key for storing the original HTTP request
type httpRequestKey struct{}

// withHTTPRequest adds the original HTTP request to the context
func withHTTPRequest(ctx context.Context, req *http.Request) context.Context {
	return context.WithValue(ctx, httpRequestKey{}, req)
}

// httpRequestFromContext extracts the original HTTP request from the context
func httpRequestFromContext(ctx context.Context) (*http.Request, bool) {
	req, ok := ctx.Value(httpRequestKey{}).(*http.Request)
	return req, ok
}

func httpContextFunc(ctx context.Context, r *http.Request) context.Context {
	return withHTTPRequest(ctx, r)
}

// NewHTTPServer wraps the MCP server for streamable HTTP transport.
func NewHTTPServer(s *server.MCPServer, endpoint string) *server.StreamableHTTPServer {
	return server.NewStreamableHTTPServer(
		s,
		server.WithEndpointPath(endpoint),
		server.WithHTTPContextFunc(httpContextFunc),
	)
}

// HTTPSSEServer combines the MCP HTTP transport with the SSE check stream
// and a stats endpoint.
type HTTPSSEServer struct {
	mux *http.ServeMux
}

func NewHTTPSSEServer(logger *zap.Logger, s *server.MCPServer, deps Deps, endpoint string) *HTTPSSEServer {
	sseServer := NewCheckSSEServer(logger, deps)

	mux := http.NewServeMux()
	mux.Handle(endpoint, NewHTTPServer(s, endpoint))
	mux.HandleFunc(endpoint+"/sse/check", sseServer.HandleCheckSSE)
	mux.HandleFunc(endpoint+"/stats", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Access-Control-Allow-Origin", "*")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"pages":         deps.Tree().Len(),
			"serverVersion": Version,
		})
	})

	return &HTTPSSEServer{mux: mux}
}

// ServeHTTP implements http.Handler
func (s *HTTPSSEServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
