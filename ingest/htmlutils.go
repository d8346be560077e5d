package ingest

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// selectNode finds the content node addressed by a minimal CSS-style
// selector: "#id", ".class" or a tag name.
func selectNode(doc *html.Node, selector string) (*html.Node, error) {
	switch {
	case strings.HasPrefix(selector, "#"):
		return findNodeByAttr(doc, "id", strings.TrimPrefix(selector, "#"), false)
	case strings.HasPrefix(selector, "."):
		return findNodeByAttr(doc, "class", strings.TrimPrefix(selector, "."), true)
	default:
		return findNodeByTag(doc, selector)
	}
}

func findNodeByAttr(n *html.Node, key, value string, contains bool) (*html.Node, error) {
	if n.Type == html.ElementNode {
		for _, attr := range n.Attr {
			if attr.Key != key {
				continue
			}
			if attr.Val == value || (contains && strings.Contains(attr.Val, value)) {
				return n, nil
			}
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if result, err := findNodeByAttr(c, key, value, contains); err == nil {
			return result, nil
		}
	}

	return nil, fmt.Errorf("element with %s '%s' not found", key, value)
}

func findNodeByTag(n *html.Node, tag string) (*html.Node, error) {
	if n.Type == html.ElementNode && n.Data == tag {
		return n, nil
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if result, err := findNodeByTag(c, tag); err == nil {
			return result, nil
		}
	}

	return nil, fmt.Errorf("element with tag '%s' not found", tag)
}

// documentTitle extracts the <title> of the HTML document.
func documentTitle(doc *html.Node) string {
	var title string
	var findTitle func(*html.Node)

	findTitle = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "title" {
			if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
				title = strings.TrimSpace(n.FirstChild.Data)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			findTitle(c)
		}
	}

	findTitle(doc)
	return title
}

// metaContent extracts the content of a <meta name=...> tag.
func metaContent(doc *html.Node, name string) string {
	var content string
	var findMeta func(*html.Node)

	findMeta = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "meta" {
			var metaName, metaContent string
			for _, attr := range n.Attr {
				switch attr.Key {
				case "name":
					metaName = attr.Val
				case "content":
					metaContent = attr.Val
				}
			}
			if metaName == name && metaContent != "" {
				content = metaContent
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			findMeta(c)
		}
	}

	findMeta(doc)
	return content
}
