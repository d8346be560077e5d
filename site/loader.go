package site

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	gmtext "github.com/yuin/goldmark/text"
	"golang.org/x/net/html"
	"gopkg.in/yaml.v3"
)

// Load walks root and parses every markdown file into a Page. Directories
// and files starting with "." or "_" are skipped.
func Load(root string) (*Tree, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to open docs root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("docs root is not a directory: %s", root)
	}

	tree := &Tree{Root: root, pages: map[string]*Page{}}

	err = filepath.WalkDir(root, func(file string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if file != root && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !strings.HasSuffix(name, ".md") {
			return nil
		}

		rel, err := filepath.Rel(root, file)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		raw, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", rel, err)
		}

		page, err := parsePage(rel, raw)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", rel, err)
		}
		tree.add(page)
		return nil
	})
	if err != nil {
		return nil, err
	}

	tree.sortPages()
	return tree, nil
}

// parsePage builds a Page from a markdown source file.
func parsePage(rel string, raw []byte) (*Page, error) {
	meta, body, err := splitFrontMatter(raw)
	if err != nil {
		return nil, err
	}

	page := &Page{
		Path:    strings.TrimSuffix(rel, ".md"),
		File:    rel,
		Meta:    meta,
		Source:  body,
		anchors: map[string]bool{},
	}

	lines := newLineIndex(body)
	// The same auto heading ids the HTML renderer generates; anchors must
	// match what the server actually serves.
	md := goldmark.New(goldmark.WithParserOptions(parser.WithAutoHeadingID()))
	doc := md.Parser().Parse(gmtext.NewReader(body))

	var firstH1 string

	err = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			heading := nodeText(node, body)
			slug := headingID(node)
			page.anchors[slug] = true
			page.Sections = append(page.Sections, Section{
				Heading: heading,
				Slug:    slug,
				Level:   node.Level,
				Line:    lines.at(blockOffset(node)),
			})
			if node.Level == 1 && firstH1 == "" {
				firstH1 = heading
			}
		case *ast.Link:
			link := ResolveLink(page.Path, string(node.Destination))
			link.Text = nodeText(node, body)
			link.Line = lines.at(nodeOffset(node))
			page.Links = append(page.Links, link)
		case *ast.AutoLink:
			link := ResolveLink(page.Path, string(node.URL(body)))
			link.Text = string(node.Label(body))
			link.Line = lines.at(nodeOffset(node))
			page.Links = append(page.Links, link)
		case *ast.RawHTML:
			for i := 0; i < node.Segments.Len(); i++ {
				seg := node.Segments.At(i)
				page.Links = append(page.Links, htmlAnchors(page.Path, seg.Value(body), lines.at(seg.Start))...)
			}
		case *ast.HTMLBlock:
			for i := 0; i < node.Lines().Len(); i++ {
				seg := node.Lines().At(i)
				page.Links = append(page.Links, htmlAnchors(page.Path, seg.Value(body), lines.at(seg.Start))...)
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	page.Title = meta.Title
	if page.Title == "" {
		page.Title = firstH1
	}
	if page.Title == "" {
		page.Title = path.Base(page.Path)
	}

	assignSectionLinks(page)
	return page, nil
}

// assignSectionLinks attaches each link to every section whose range covers
// it. A section ranges from its heading to the next heading of the same or
// a higher level, so links in subsections count toward the parent section.
func assignSectionLinks(page *Page) {
	for i := range page.Sections {
		sec := &page.Sections[i]
		end := -1
		for _, other := range page.Sections[i+1:] {
			if other.Level <= sec.Level {
				end = other.Line
				break
			}
		}
		for _, link := range page.Links {
			if link.Line < sec.Line {
				continue
			}
			if end >= 0 && link.Line >= end {
				continue
			}
			sec.Links = append(sec.Links, link)
		}
	}
}

// headingID reads the id attribute the auto-heading-id parser option put on
// the heading.
func headingID(n *ast.Heading) string {
	if id, ok := n.AttributeString("id"); ok {
		if b, ok := id.([]byte); ok {
			return string(b)
		}
	}
	return ""
}

// htmlAnchors extracts <a href> links from an embedded HTML fragment.
func htmlAnchors(pagePath string, fragment []byte, line int) []Link {
	doc, err := html.Parse(bytes.NewReader(fragment))
	if err != nil {
		return nil
	}
	var links []Link
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key != "href" {
					continue
				}
				link := ResolveLink(pagePath, attr.Val)
				link.Text = textContent(n)
				link.Line = line
				links = append(links, link)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return links
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(sb.String())
}

// nodeText collects the plain text inside an AST node.
func nodeText(n ast.Node, src []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if t, ok := c.(*ast.Text); ok {
			sb.Write(t.Segment.Value(src))
		}
		return ast.WalkContinue, nil
	})
	return sb.String()
}

// nodeOffset finds the byte offset of an inline node via its first text
// descendant, falling back to the enclosing block.
func nodeOffset(n ast.Node) int {
	offset := -1
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || offset >= 0 {
			return ast.WalkContinue, nil
		}
		if t, ok := c.(*ast.Text); ok {
			offset = t.Segment.Start
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	if offset >= 0 {
		return offset
	}
	for p := n.Parent(); p != nil; p = p.Parent() {
		if off := blockOffset(p); off >= 0 {
			return off
		}
	}
	return 0
}

// blockOffset returns the byte offset of a block node, -1 if unknown.
func blockOffset(n ast.Node) int {
	if n.Type() != ast.TypeBlock {
		return -1
	}
	if lines := n.Lines(); lines != nil && lines.Len() > 0 {
		return lines.At(0).Start
	}
	return -1
}

// lineIndex maps byte offsets to 1-based line numbers.
type lineIndex []int

func newLineIndex(src []byte) lineIndex {
	starts := lineIndex{0}
	for i, b := range src {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func (l lineIndex) at(offset int) int {
	line := sort.Search(len(l), func(i int) bool { return l[i] > offset })
	return line
}

// splitFrontMatter strips a leading "---" YAML block from a page source.
// Both LF and CRLF line endings are accepted; yaml.v3 handles either inside
// the block.
func splitFrontMatter(raw []byte) (Meta, []byte, error) {
	var meta Meta
	var rest []byte
	switch {
	case bytes.HasPrefix(raw, []byte("---\r\n")):
		rest = raw[len("---\r\n"):]
	case bytes.HasPrefix(raw, []byte("---\n")):
		rest = raw[len("---\n"):]
	default:
		return meta, raw, nil
	}
	end := bytes.Index(rest, []byte("\n---"))
	if end < 0 {
		return meta, raw, nil
	}
	block := bytes.TrimSuffix(rest[:end], []byte("\r"))
	if err := yaml.Unmarshal(block, &meta); err != nil {
		return meta, nil, fmt.Errorf("failed to parse front matter: %w", err)
	}
	body := rest[end+len("\n---"):]
	body = bytes.TrimPrefix(body, []byte("\r\n"))
	body = bytes.TrimPrefix(body, []byte("\n"))
	return meta, body, nil
}
