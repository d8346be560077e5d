// Package service assembles navigable documents from the documentation
// tree: the page content plus its breadcrumb chain, siblings and children.
package service

import (
	"context"
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/foomo/docsite-mcp/service/vo"
	"github.com/foomo/docsite-mcp/site"
)

type Service interface {
	GetDocument(ctx context.Context, pagePath string) (*vo.Document, error)
}

// TreeProvider hands out the current tree. The serve package swaps trees on
// reload, so the service must not hold on to one.
type TreeProvider func() *site.Tree

type service struct {
	logger *zap.Logger
	tree   TreeProvider
}

func New(logger *zap.Logger, tree TreeProvider) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{
		logger: logger,
		tree:   tree,
	}
}

func (s *service) GetDocument(ctx context.Context, pagePath string) (*vo.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tree := s.tree()
	pagePath = strings.Trim(path.Clean("/"+pagePath), "/")
	if pagePath == "" {
		pagePath = "index"
	}

	page, ok := tree.Lookup(pagePath)
	if !ok {
		return nil, site.ErrPageNotFound
	}

	doc := &vo.Document{
		DocumentSummary: summarize(page),
		Markdown:        vo.Markdown(page.Source),
		Breadcrumb:      breadcrumb(tree, page),
	}

	isPrevious := true
	for _, sibling := range tree.Children(page.Dir()) {
		if sibling.Path == page.Path {
			isPrevious = false
			continue
		}
		if isPrevious {
			doc.PrevSiblings = append(doc.PrevSiblings, summarize(sibling))
		} else {
			doc.NextSiblings = append(doc.NextSiblings, summarize(sibling))
		}
	}

	// An index page's children are the other pages of its directory, any
	// other page's children live in the directory named after it.
	childDir := page.Path
	if path.Base(page.Path) == "index" {
		childDir = page.Dir()
	}
	for _, child := range tree.Children(childDir) {
		if child.Path == page.Path {
			continue
		}
		doc.Children = append(doc.Children, summarize(child))
	}

	s.logger.Debug("assembled document",
		zap.String("path", page.Path),
		zap.Int("children", len(doc.Children)),
		zap.Int("breadcrumb", len(doc.Breadcrumb)),
	)
	return doc, nil
}

// breadcrumb walks from the root index down to the page's own directory.
func breadcrumb(tree *site.Tree, page *site.Page) []vo.DocumentSummary {
	var crumbs []vo.DocumentSummary
	if root, ok := tree.Index(""); ok && root.Path != page.Path {
		crumbs = append(crumbs, summarize(root))
	}

	dir := page.Dir()
	if dir == "" {
		return crumbs
	}
	parts := strings.Split(dir, "/")
	for i := range parts {
		index, ok := tree.Index(strings.Join(parts[:i+1], "/"))
		if !ok || index.Path == page.Path {
			continue
		}
		crumbs = append(crumbs, summarize(index))
	}
	return crumbs
}

func summarize(page *site.Page) vo.DocumentSummary {
	return vo.DocumentSummary{
		Path: page.Path,
		ContentSummary: vo.ContentSummary{
			Title:       page.Title,
			Description: page.Meta.Description,
			Keywords:    page.Meta.Keywords,
		},
	}
}
