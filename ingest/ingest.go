// Package ingest imports legacy HTML documentation pages into the markdown
// tree: fetch or read the HTML, pick the content element by selector,
// convert it to markdown and write a front-mattered page file.
package ingest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"gopkg.in/yaml.v3"

	"github.com/foomo/docsite-mcp/site"
)

// Importer converts HTML sources into tree pages.
type Importer struct {
	logger     *zap.Logger
	httpClient *http.Client
	selector   string
}

func New(logger *zap.Logger, httpClient *http.Client, selector string) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if selector == "" {
		selector = "body"
	}
	return &Importer{
		logger:     logger,
		httpClient: httpClient,
		selector:   selector,
	}
}

// Result is a converted page before it is written to the tree.
type Result struct {
	Meta     site.Meta
	Markdown string
}

// Import converts the HTML at source (a URL or a local file path) into
// markdown.
func (im *Importer) Import(ctx context.Context, source string) (*Result, error) {
	raw, err := im.read(ctx, source)
	if err != nil {
		return nil, err
	}

	doc, err := html.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	content, err := selectNode(doc, im.selector)
	if err != nil {
		return nil, fmt.Errorf("failed to select content with %q: %w", im.selector, err)
	}

	markdown, err := htmltomarkdown.ConvertNode(content)
	if err != nil {
		return nil, fmt.Errorf("failed to convert HTML to markdown: %w", err)
	}

	result := &Result{
		Meta: site.Meta{
			Title:       documentTitle(doc),
			Description: metaContent(doc, "description"),
			Keywords:    splitKeywords(metaContent(doc, "keywords")),
		},
		Markdown: string(markdown),
	}

	im.logger.Info("imported page",
		zap.String("source", source),
		zap.String("title", result.Meta.Title),
		zap.Int("bytes", len(result.Markdown)),
	)
	return result, nil
}

// WritePage stores a converted page at pagePath below the docs root.
func (im *Importer) WritePage(root, pagePath string, result *Result) (string, error) {
	front, err := yaml.Marshal(result.Meta)
	if err != nil {
		return "", fmt.Errorf("failed to marshal front matter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(front)
	buf.WriteString("---\n\n")
	buf.WriteString(strings.TrimSpace(result.Markdown))
	buf.WriteString("\n")

	file := filepath.Join(root, filepath.FromSlash(pagePath)+".md")
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return "", fmt.Errorf("failed to create page directory: %w", err)
	}
	if err := os.WriteFile(file, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("failed to write page: %w", err)
	}
	return file, nil
}

func (im *Importer) read(ctx context.Context, source string) ([]byte, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		resp, err := im.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to download HTML: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("HTTP request failed with status: %d", resp.StatusCode)
		}
		return io.ReadAll(resp.Body)
	}

	raw, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("failed to read HTML file: %w", err)
	}
	return raw, nil
}

func splitKeywords(content string) []string {
	if content == "" {
		return nil
	}
	var keywords []string
	for _, keyword := range strings.Split(content, ",") {
		if trimmed := strings.TrimSpace(keyword); trimmed != "" {
			keywords = append(keywords, trimmed)
		}
	}
	return keywords
}
