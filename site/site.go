// Package site models a markdown documentation tree: pages identified by
// relative slash-separated paths, the sections and links on each page, and
// resolution of relative link targets against a page's location.
package site

import (
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
)

var ErrPageNotFound = errors.New("page not found")

// LinkKind classifies a link target.
type LinkKind string

const (
	LinkRelative  LinkKind = "relative"  // resolved against the page's directory
	LinkAbsolute  LinkKind = "absolute"  // resolved against the tree root
	LinkExternal  LinkKind = "external"  // scheme-ful (http, https, mailto, ...)
	LinkMalformed LinkKind = "malformed" // empty, whitespace, or escaping the tree
)

// Link is a single hyperlink found on a page.
type Link struct {
	Text     string   `json:"text"`
	Target   string   `json:"target"` // raw target as authored
	Path     string   `json:"path"`   // canonical page path, empty unless relative/absolute
	Fragment string   `json:"fragment,omitempty"`
	Kind     LinkKind `json:"kind"`
	Line     int      `json:"line"`
}

// Section is a heading together with the links listed beneath it, up to the
// next heading of the same or higher level.
type Section struct {
	Heading string `json:"heading"`
	Slug    string `json:"slug"`
	Level   int    `json:"level"`
	Line    int    `json:"line"`
	Links   []Link `json:"links,omitempty"`
}

// Meta is the optional YAML front matter of a page.
type Meta struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Keywords    []string `yaml:"keywords"`
	TOC         bool     `yaml:"toc"`
}

// Page is one markdown document in the tree.
type Page struct {
	Path     string // canonical path, e.g. "Coding/index"
	File     string // source file relative to the tree root
	Title    string
	Meta     Meta
	Source   []byte // markdown body, front matter stripped
	Sections []Section
	Links    []Link // every link in document order
	anchors  map[string]bool
}

// HasAnchor reports whether the page renders a heading with the given slug.
func (p *Page) HasAnchor(slug string) bool {
	return p.anchors[slug]
}

// IsTOC reports whether the page is a table-of-contents page: flagged as
// such in front matter, or a directory index.
func (p *Page) IsTOC() bool {
	return p.Meta.TOC || path.Base(p.Path) == "index"
}

// Dir returns the directory the page lives in, "" for the root.
func (p *Page) Dir() string {
	dir := path.Dir(p.Path)
	if dir == "." {
		return ""
	}
	return dir
}

// Tree is a loaded documentation tree.
type Tree struct {
	Root  string
	pages map[string]*Page
	order []string
}

// Page returns the page at the exact canonical path.
func (t *Tree) Page(p string) (*Page, error) {
	page, ok := t.pages[p]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPageNotFound, p)
	}
	return page, nil
}

// Lookup resolves a target path to a page, trying the path itself and its
// directory index. This is how "./Howto" can address "Howto/index".
func (t *Tree) Lookup(p string) (*Page, bool) {
	if page, ok := t.pages[p]; ok {
		return page, true
	}
	if page, ok := t.pages[path.Join(p, "index")]; ok {
		return page, true
	}
	return nil, false
}

// Paths returns all page paths in lexical order.
func (t *Tree) Paths() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Len returns the number of pages in the tree.
func (t *Tree) Len() int {
	return len(t.pages)
}

// Children returns the pages directly inside dir in lexical order, the
// directory's own index page excluded.
func (t *Tree) Children(dir string) []*Page {
	dir = strings.Trim(dir, "/")
	var out []*Page
	for _, p := range t.order {
		page := t.pages[p]
		if page.Dir() != dir {
			continue
		}
		if path.Base(p) == "index" {
			continue
		}
		out = append(out, page)
	}
	return out
}

// Index returns the index page of dir, or the root index for "".
func (t *Tree) Index(dir string) (*Page, bool) {
	dir = strings.Trim(dir, "/")
	page, ok := t.pages[path.Join(dir, "index")]
	return page, ok
}

func (t *Tree) add(page *Page) {
	t.pages[page.Path] = page
	t.order = append(t.order, page.Path)
}

func (t *Tree) sortPages() {
	sort.Strings(t.order)
}
