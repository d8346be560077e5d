// Package mcp exposes the documentation tree over MCP tools: fetching
// documents, reading a page's table of contents, running the structural
// checks and searching the index.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/foomo/docsite-mcp/check"
	"github.com/foomo/docsite-mcp/service"
	"github.com/foomo/docsite-mcp/service/vo"
	"github.com/foomo/docsite-mcp/site"
	"github.com/foomo/docsite-mcp/store"
)

const Version = "0.1.0"

// Deps are the collaborators behind the MCP tools. Store may be nil, in
// which case the search tool is not registered.
type Deps struct {
	Service service.Service
	Tree    func() *site.Tree
	Checker *check.Checker
	Store   *store.Store
}

type GetDocumentRequest struct {
	Path string `json:"path"` // The page path to get the document for
}

type GetDocumentResponse struct {
	Document *vo.Document `json:"document"` // The document with breadcrumb, siblings and children
}

type GetTocRequest struct {
	Path string `json:"path"` // The TOC page to read
}

type GetTocResponse struct {
	TOC site.TOC `json:"toc"`
}

type CheckLinksRequest struct{}

type CheckLinksResponse struct {
	Findings []check.Finding `json:"findings"`
	Errors   bool            `json:"errors"` // true when any finding would fail a build
}

type SearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

type SearchResponse struct {
	Hits []vo.DocumentSummary `json:"hits"`
}

// NewServer creates the MCP server with the docsite tools.
func NewServer(deps Deps) *server.MCPServer {
	s := server.NewMCPServer(
		"Docsite MCP",
		Version,
		server.WithToolCapabilities(false),
	)

	getDocumentTool := mcp.NewTool("getDocument",
		mcp.WithDescription("Get a documentation page with breadcrumb, siblings and children"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("The page path, e.g. 'Coding/Debugging'"),
		),
	)
	s.AddTool(getDocumentTool, mcp.NewTypedToolHandler(getDocumentHandler(deps.Service)))

	getTocTool := mcp.NewTool("getToc",
		mcp.WithDescription("Get the table of contents a page exposes: its sections and their entries"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("The TOC page path, e.g. 'Coding/index'"),
		),
	)
	s.AddTool(getTocTool, mcp.NewTypedToolHandler(getTocHandler(deps.Tree)))

	checkLinksTool := mcp.NewTool("checkLinks",
		mcp.WithDescription("Validate the documentation tree: dangling links, duplicate targets, empty sections, malformed link syntax"),
	)
	s.AddTool(checkLinksTool, mcp.NewTypedToolHandler(checkLinksHandler(deps.Tree, deps.Checker)))

	if deps.Store != nil {
		searchTool := mcp.NewTool("search",
			mcp.WithDescription("Search the page index by title, keywords and content"),
			mcp.WithString("query",
				mcp.Required(),
				mcp.Description("The search query"),
			),
			mcp.WithNumber("limit",
				mcp.Description("Maximum number of hits, default 20"),
			),
		)
		s.AddTool(searchTool, mcp.NewTypedToolHandler(searchHandler(deps.Store)))
	}

	return s
}

func getDocumentHandler(serviceInstance service.Service) func(ctx context.Context, request mcp.CallToolRequest, args GetDocumentRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args GetDocumentRequest) (*mcp.CallToolResult, error) {
		if args.Path == "" {
			return mcp.NewToolResultError("path is required"), nil
		}

		document, err := serviceInstance.GetDocument(ctx, args.Path)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to get document: %v", err)), nil
		}

		return marshalResult(GetDocumentResponse{Document: document})
	}
}

func getTocHandler(tree func() *site.Tree) func(ctx context.Context, request mcp.CallToolRequest, args GetTocRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args GetTocRequest) (*mcp.CallToolResult, error) {
		if args.Path == "" {
			return mcp.NewToolResultError("path is required"), nil
		}

		t := tree()
		page, ok := t.Lookup(args.Path)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("page not found: %s", args.Path)), nil
		}

		return marshalResult(GetTocResponse{TOC: site.BuildTOC(t, page)})
	}
}

func checkLinksHandler(tree func() *site.Tree, checker *check.Checker) func(ctx context.Context, request mcp.CallToolRequest, args CheckLinksRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args CheckLinksRequest) (*mcp.CallToolResult, error) {
		findings, err := checker.Run(ctx, tree())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to check tree: %v", err)), nil
		}

		return marshalResult(CheckLinksResponse{
			Findings: findings,
			Errors:   check.HasErrors(findings),
		})
	}
}

func searchHandler(st *store.Store) func(ctx context.Context, request mcp.CallToolRequest, args SearchRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args SearchRequest) (*mcp.CallToolResult, error) {
		if args.Query == "" {
			return mcp.NewToolResultError("query is required"), nil
		}

		hits, err := st.Search(ctx, args.Query, args.Limit)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to search: %v", err)), nil
		}

		return marshalResult(SearchResponse{Hits: hits})
	}
}

func marshalResult(response any) (*mcp.CallToolResult, error) {
	responseBytes, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseBytes)), nil
}
