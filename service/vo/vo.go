package vo

type Markdown string

type ContentSummary struct {
	Title       string   `json:"title"`       // Page title
	Description string   `json:"description"` // Short abstract from front matter
	Keywords    []string `json:"keywords"`    // Keywords from front matter
}

type DocumentSummary struct {
	Path           string `json:"path"` // Canonical page path within the tree
	ContentSummary `json:"contentSummary"`
}

type Document struct {
	DocumentSummary
	Markdown Markdown `json:"markdown,omitempty"` // Full page content in markdown

	Breadcrumb   []DocumentSummary `json:"breadcrumb,omitempty"` // Root index down to this page
	Children     []DocumentSummary `json:"children,omitempty"`   // Pages below this page
	PrevSiblings []DocumentSummary `json:"prev,omitempty"`       // Earlier pages in the same directory
	NextSiblings []DocumentSummary `json:"next,omitempty"`       // Later pages in the same directory
}
