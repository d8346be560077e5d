// Package serve renders the documentation tree over HTTP with live reload.
package serve

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"path"
	"strings"
	"sync/atomic"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"go.uber.org/zap"

	"github.com/foomo/docsite-mcp/config"
	"github.com/foomo/docsite-mcp/site"
)

const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<nav>{{range .Breadcrumb}}<a href="/{{.Path}}">{{.Title}}</a> / {{end}}</nav>
<main>
{{.Content}}
</main>
{{if .LiveReload}}<script>
(function () {
	var ws = new WebSocket("ws://" + location.host + "/ws/reload");
	ws.onmessage = function () { location.reload(); };
})();
</script>{{end}}
</body>
</html>
`

type crumb struct {
	Path  string
	Title string
}

type pageData struct {
	Title      string
	Breadcrumb []crumb
	Content    template.HTML
	LiveReload bool
}

// Server renders and serves a documentation tree.
type Server struct {
	logger *zap.Logger
	cfg    config.ServeConfig
	root   string
	hub    *Hub
	md     goldmark.Markdown
	tmpl   *template.Template
	tree   atomic.Pointer[site.Tree]
}

func New(logger *zap.Logger, root string, cfg config.ServeConfig) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	tree, err := site.Load(root)
	if err != nil {
		return nil, err
	}

	s := &Server{
		logger: logger,
		cfg:    cfg,
		root:   root,
		hub:    NewHub(logger),
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
		tmpl: template.Must(template.New("page").Parse(pageTemplate)),
	}
	s.tree.Store(tree)
	return s, nil
}

// Tree returns the currently loaded tree. Handlers and the document service
// read through this so reloads take effect immediately.
func (s *Server) Tree() *site.Tree {
	return s.tree.Load()
}

// Reload re-reads the tree from disk and returns the page count. A broken
// tree keeps the previous one in place.
func (s *Server) Reload() int {
	tree, err := site.Load(s.root)
	if err != nil {
		s.logger.Error("failed to reload tree, keeping previous", zap.Error(err))
		return s.Tree().Len()
	}
	s.tree.Store(tree)
	return tree.Len()
}

// Handler returns the HTTP handler serving pages and the reload socket.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws/reload", s.hub.HandleWS)
	mux.HandleFunc("/", s.handlePage)
	return mux
}

// Run serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	go s.hub.Run(ctx)

	if s.cfg.Watch {
		watcher := NewWatcher(s.logger, s.root, s.cfg.WatchDebounce, s.Reload, s.hub.BroadcastReload)
		go func() {
			if err := watcher.Run(ctx); err != nil {
				s.logger.Error("watcher failed", zap.Error(err))
			}
		}()
	}

	httpServer := &http.Server{
		Addr:    s.cfg.Addr,
		Handler: s.Handler(),
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("serving docs", zap.String("addr", s.cfg.Addr), zap.Int("pages", s.Tree().Len()))
		errc <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	tree := s.Tree()

	pagePath := strings.Trim(path.Clean("/"+r.URL.Path), "/")
	if pagePath == "" {
		pagePath = "index"
	}

	page, ok := tree.Lookup(pagePath)
	if !ok {
		http.NotFound(w, r)
		return
	}

	var sb strings.Builder
	if err := s.md.Convert(page.Source, &sb); err != nil {
		s.logger.Error("failed to render page", zap.String("page", page.Path), zap.Error(err))
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	data := pageData{
		Title:      page.Title,
		Content:    template.HTML(sb.String()),
		LiveReload: s.cfg.Watch,
	}
	for _, part := range breadcrumbPaths(page) {
		if index, ok := tree.Lookup(part); ok {
			data.Breadcrumb = append(data.Breadcrumb, crumb{Path: index.Path, Title: index.Title})
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.Execute(w, data); err != nil {
		s.logger.Error("failed to write page", zap.String("page", page.Path), zap.Error(err))
	}
}

// breadcrumbPaths lists the ancestor directories of a page, root first.
func breadcrumbPaths(page *site.Page) []string {
	paths := []string{""}
	dir := page.Dir()
	if dir == "" {
		return paths
	}
	parts := strings.Split(dir, "/")
	for i := range parts {
		paths = append(paths, strings.Join(parts[:i+1], "/"))
	}
	return paths
}

// String describes the server for logs.
func (s *Server) String() string {
	return fmt.Sprintf("docsite server on %s for %s", s.cfg.Addr, s.root)
}
