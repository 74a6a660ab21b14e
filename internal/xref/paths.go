// Package xref rewrites cross-reference placeholders in converted output
// into working links, same-page or cross-page, under the directory-style URL
// scheme of the generated site.
package xref

import (
	"strings"
)

// ServedDirectory converts an output document path into the URL directory the
// page is served at. The site serves a page one level deeper than its file
// path: "a/b.md" is reachable at "a/b/". An index file is the page for its
// own directory: "a/b/index.md" is also "a/b/". The root index maps to "".
//
// All directory-style URL arithmetic in the resolver goes through this
// function and RelativeURL; nothing else computes served paths.
func ServedDirectory(outputPath string) string {
	p := strings.TrimSuffix(outputPath, ".md")
	if p == "index" {
		return ""
	}
	p = strings.TrimSuffix(p, "/index")
	if p == "" {
		return ""
	}
	return p + "/"
}

// RelativeURL returns the relative URL that reaches target from current,
// where both are output document paths. The result always ends with "/";
// a page referring to itself yields "./".
func RelativeURL(current, target string) string {
	cur := splitServed(ServedDirectory(current))
	tgt := splitServed(ServedDirectory(target))

	common := 0
	for common < len(cur) && common < len(tgt) && cur[common] == tgt[common] {
		common++
	}

	up := len(cur) - common
	var b strings.Builder
	for range up {
		b.WriteString("../")
	}
	for _, seg := range tgt[common:] {
		b.WriteString(seg)
		b.WriteString("/")
	}
	if b.Len() == 0 {
		return "./"
	}
	return b.String()
}

func splitServed(dir string) []string {
	dir = strings.Trim(dir, "/")
	if dir == "" {
		return nil
	}
	return strings.Split(dir, "/")
}

const upperhex = "0123456789ABCDEF"

// EncodeAnchor percent-encodes the punctuation of a label so that the
// browser-decoded fragment matches the element id emitted by the math
// renderer. Unreserved URL characters pass through unchanged.
func EncodeAnchor(label string) string {
	var b strings.Builder
	for i := 0; i < len(label); i++ {
		c := label[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9',
			c == '-', c == '.', c == '_', c == '~':
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(upperhex[c>>4])
			b.WriteByte(upperhex[c&0xf])
		}
	}
	return b.String()
}

// mjxAnchorPrefix is the id prefix the math renderer assigns to tagged
// equations.
const mjxAnchorPrefix = "mjx-eqn-"

// EquationAnchor returns the URL fragment addressing a tagged equation.
func EquationAnchor(label string) string {
	return mjxAnchorPrefix + EncodeAnchor(label)
}
