package goquery

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/unicode/norm"
)

// hiddenElements never contribute text.
var hiddenElements = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
}

// normalizeText folds compatibility characters (non-breaking spaces,
// full-width forms), collapses whitespace runs and trims the result.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(norm.NFKC.String(s)), " ")
}

// walkText calls fn with every visible text node under n in document order.
func walkText(n *html.Node, fn func(string)) {
	switch n.Type {
	case html.TextNode:
		fn(n.Data)
		return
	case html.ElementNode:
		if hiddenElements[n.DataAtom] {
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkText(c, fn)
	}
}

// inlineText returns the node's text on a single normalized line.
func inlineText(n *html.Node) string {
	var sb strings.Builder
	walkText(n, func(s string) {
		sb.WriteString(s)
	})
	return normalizeText(sb.String())
}

// blockText returns the node's non-empty text segments joined by "\n".
func blockText(n *html.Node) string {
	var segments []string
	walkText(n, func(s string) {
		if s = normalizeText(s); s != "" {
			segments = append(segments, s)
		}
	})
	return strings.Join(segments, "\n")
}

// applySplit keeps the configured part of s. Out-of-range indexes keep s unchanged.
func applySplit(s string, split *Split) string {
	if split == nil || split.Sep == "" {
		return s
	}
	parts := strings.Split(s, split.Sep)
	if split.Index < 0 || split.Index >= len(parts) {
		return s
	}
	return strings.TrimSpace(parts[split.Index])
}
