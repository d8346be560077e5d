package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/foomo/docsite-mcp/site"
)

func fixtureTree(t *testing.T) *site.Tree {
	t.Helper()
	tree, err := site.Load(filepath.Join("..", "site", "testdata", "docs"))
	require.NoError(t, err)
	return tree
}

func TestGetDocument(t *testing.T) {
	tree := fixtureTree(t)
	svc := New(zap.NewNop(), func() *site.Tree { return tree })

	doc, err := svc.GetDocument(context.Background(), "Coding/Debugging")
	require.NoError(t, err)

	require.Equal(t, "Coding/Debugging", doc.DocumentSummary.Path)
	require.Equal(t, "Debugging", doc.DocumentSummary.Title)
	require.NotEmpty(t, doc.Markdown)

	// Root index, then the Coding index.
	require.Len(t, doc.Breadcrumb, 2)
	require.Equal(t, "index", doc.Breadcrumb[0].Path)
	require.Equal(t, "Coding/index", doc.Breadcrumb[1].Path)

	// Siblings in lexical order around Debugging.
	require.NotEmpty(t, doc.PrevSiblings)
	require.NotEmpty(t, doc.NextSiblings)
	require.Equal(t, "Coding/Coding-Introduction", doc.PrevSiblings[0].Path)
	require.Equal(t, "Coding/Flat-API", doc.NextSiblings[0].Path)
}

func TestGetDocumentIndexChildren(t *testing.T) {
	tree := fixtureTree(t)
	svc := New(zap.NewNop(), func() *site.Tree { return tree })

	doc, err := svc.GetDocument(context.Background(), "Coding")
	require.NoError(t, err)
	require.Equal(t, "Coding/index", doc.DocumentSummary.Path)
	require.Len(t, doc.Children, 11)
	require.Len(t, doc.Breadcrumb, 1)
	require.Equal(t, "index", doc.Breadcrumb[0].Path)
}

func TestGetDocumentRoot(t *testing.T) {
	tree := fixtureTree(t)
	svc := New(zap.NewNop(), func() *site.Tree { return tree })

	doc, err := svc.GetDocument(context.Background(), "/")
	require.NoError(t, err)
	require.Equal(t, "index", doc.DocumentSummary.Path)
	require.Empty(t, doc.Breadcrumb)
}

func TestGetDocumentNotFound(t *testing.T) {
	tree := fixtureTree(t)
	svc := New(zap.NewNop(), func() *site.Tree { return tree })

	_, err := svc.GetDocument(context.Background(), "Coding/Missing")
	require.ErrorIs(t, err, site.ErrPageNotFound)
}

func TestGetDocumentCancelled(t *testing.T) {
	tree := fixtureTree(t)
	svc := New(zap.NewNop(), func() *site.Tree { return tree })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.GetDocument(ctx, "Coding/Debugging")
	require.ErrorIs(t, err, context.Canceled)
}
