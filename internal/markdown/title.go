package markdown

import (
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ExtractTitle returns the text of the first heading in the document, or
// "Untitled" when the page has none.
func ExtractTitle(body []byte) string {
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(body))

	title := ""
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		if h, ok := n.(*gmast.Heading); ok {
			title = strings.TrimSpace(string(headingText(h, body)))
			return gmast.WalkStop, nil
		}
		return gmast.WalkContinue, nil
	})

	if title == "" {
		return "Untitled"
	}
	return title
}

// headingText concatenates the literal text of a heading's inline children.
func headingText(h *gmast.Heading, body []byte) []byte {
	var b strings.Builder
	for c := h.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*gmast.Text); ok {
			b.Write(t.Segment.Value(body))
			continue
		}
		// Inline code, emphasis and the like still carry text segments.
		_ = gmast.Walk(c, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
			if entering {
				if t, ok := n.(*gmast.Text); ok {
					b.Write(t.Segment.Value(body))
				}
			}
			return gmast.WalkContinue, nil
		})
	}
	return []byte(b.String())
}
