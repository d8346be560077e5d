package mcp

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/foomo/docsite-mcp/check"
)

// SSEEvent is one event on a check progress stream.
type SSEEvent struct {
	ID        string      `json:"id"`
	Event     string      `json:"event"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// CheckSSEServer streams link-check progress over SSE, one run per request.
type CheckSSEServer struct {
	logger *zap.Logger
	deps   Deps
}

func NewCheckSSEServer(logger *zap.Logger, deps Deps) *CheckSSEServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckSSEServer{
		logger: logger,
		deps:   deps,
	}
}

// HandleCheckSSE runs the checker and streams a check_page event per page,
// then check_complete with the full findings.
func (s *CheckSSEServer) HandleCheckSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	send := func(event string, data interface{}) {
		e := SSEEvent{
			ID:        fmt.Sprintf("%s_%d", event, time.Now().UnixNano()),
			Event:     event,
			Data:      data,
			Timestamp: time.Now(),
		}
		payload, err := json.Marshal(e)
		if err != nil {
			s.logger.Error("failed to marshal SSE event", zap.Error(err))
			return
		}
		fmt.Fprintf(w, "id: %s\nevent: %s\ndata: %s\n\n", e.ID, e.Event, string(payload))
		flusher.Flush()
	}

	tree := s.deps.Tree()
	send("check_start", map[string]interface{}{"pages": tree.Len()})

	// Progress events come from checker workers; serialize them through
	// the request goroutine.
	type progress struct {
		page     string
		findings int
	}
	progressc := make(chan progress, tree.Len())

	checker := s.deps.Checker.Clone(
		check.WithProgress(func(page string, findings int) {
			progressc <- progress{page: page, findings: findings}
		}),
	)

	done := make(chan struct{})
	var findings []check.Finding
	var runErr error
	go func() {
		defer close(done)
		findings, runErr = checker.Run(r.Context(), tree)
		close(progressc)
	}()

	for p := range progressc {
		send("check_page", map[string]interface{}{
			"page":     p.page,
			"findings": p.findings,
		})
	}
	<-done

	if runErr != nil {
		send("check_error", map[string]string{"error": runErr.Error()})
		return
	}

	send("check_complete", CheckLinksResponse{
		Findings: findings,
		Errors:   check.HasErrors(findings),
	})
}
