package site

import (
	"net/url"
	"path"
	"strings"
)

// ResolveLink resolves a raw link target authored on the page at pagePath.
// Relative targets ("./Quirks", "../Howto/Intro", "Debugging") resolve
// against the page's directory, absolute targets ("/Coding/Debugging")
// against the tree root. Targets with a URL scheme are classified external
// and left unresolved. Targets that are empty, contain whitespace, or climb
// above the tree root are malformed.
func ResolveLink(pagePath, raw string) Link {
	link := Link{Target: raw}

	target := raw
	if i := strings.IndexByte(target, '#'); i >= 0 {
		link.Fragment = target[i+1:]
		target = target[:i]
	}

	if target == "" && link.Fragment != "" {
		// Pure anchor link, resolves to the page itself.
		link.Kind = LinkRelative
		link.Path = pagePath
		return link
	}

	if u, err := url.Parse(target); err == nil && u.Scheme != "" {
		// The scheme part parsed, but the fragment may still be broken
		// ("https://x/#%zz"). Validate the target as authored.
		if _, err := url.Parse(raw); err != nil {
			link.Kind = LinkMalformed
			return link
		}
		link.Kind = LinkExternal
		return link
	}

	if target == "" || strings.ContainsAny(target, " \t\\") {
		link.Kind = LinkMalformed
		return link
	}

	if strings.HasPrefix(target, "/") {
		resolved := path.Clean(strings.TrimPrefix(target, "/"))
		if escapesRoot(resolved) {
			link.Kind = LinkMalformed
			return link
		}
		link.Kind = LinkAbsolute
		link.Path = resolved
		return link
	}

	base := path.Dir(pagePath)
	if base == "." {
		base = ""
	}
	resolved := path.Join(base, target)
	if escapesRoot(resolved) {
		link.Kind = LinkMalformed
		return link
	}
	link.Kind = LinkRelative
	link.Path = resolved
	return link
}

// escapesRoot reports whether a cleaned path climbs above the tree root.
func escapesRoot(p string) bool {
	return p == ".." || strings.HasPrefix(p, "../") || p == "." || p == ""
}
