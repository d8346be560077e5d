package site

// TOC is the table of contents a page exposes: its sections in document
// order, each with the entries linked beneath it.
type TOC struct {
	Page     string       `json:"page"`
	Title    string       `json:"title"`
	Sections []TOCSection `json:"sections"`
}

type TOCSection struct {
	Heading string     `json:"heading"`
	Entries []TOCEntry `json:"entries"`
}

type TOCEntry struct {
	Title  string `json:"title"`
	Target string `json:"target"`         // raw target as authored
	Path   string `json:"path,omitempty"` // canonical page path, empty for external links
}

// BuildTOC derives the table of contents of a page from its sections.
// External links are kept as entries since a TOC may point off-site; only
// malformed links are dropped. When a link has no text the target page's
// title is used, if the tree knows it.
func BuildTOC(tree *Tree, page *Page) TOC {
	toc := TOC{Page: page.Path, Title: page.Title}
	for _, sec := range page.Sections {
		if sec.Level == 1 {
			// The page title heading spans the whole page, it is not a
			// TOC section of its own.
			continue
		}
		tocSec := TOCSection{Heading: sec.Heading}
		for _, link := range sec.Links {
			if link.Kind == LinkMalformed {
				continue
			}
			entry := TOCEntry{Title: link.Text, Target: link.Target, Path: link.Path}
			if entry.Title == "" && link.Path != "" {
				if target, ok := tree.Lookup(link.Path); ok {
					entry.Title = target.Title
				}
			}
			tocSec.Entries = append(tocSec.Entries, entry)
		}
		toc.Sections = append(toc.Sections, tocSec)
	}
	return toc
}
