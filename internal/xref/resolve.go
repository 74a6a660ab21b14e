package xref

import (
	"fmt"
	"html"
	"regexp"
	"strconv"

	"github.com/texsite/texsite/internal/labels"
)

// Placeholder links carried through conversion look like
// [text](#crossref:label) for section-style references and
// [text](#crossref-eq:label) for equation references. Resolution is driven
// by the indexed kind of the label, not by the placeholder form.
var crossrefRe = regexp.MustCompile(`\[([^\]]*)\]\(#crossref(-eq)?:([^)]+)\)`)

// Resolve rewrites every reference placeholder in text into its final form.
// currentPath is the output path of the page being processed; cross-page
// targets are linked relative to its served directory.
func Resolve(text string, index labels.Index, currentPath string) string {
	return crossrefRe.ReplaceAllStringFunc(text, func(match string) string {
		m := crossrefRe.FindStringSubmatch(match)
		linkText, label := m[1], m[3]

		target, ok := index[label]
		if !ok {
			// Unresolved reference degrades to a local anchor, not an error.
			return fmt.Sprintf("[%s](#%s)", linkText, label)
		}

		samePage := target.OutputPath == currentPath
		switch target.Kind {
		case labels.KindEquation:
			if samePage {
				// The math renderer numbers and links same-page references
				// from the label itself; no path arithmetic involved.
				return fmt.Sprintf(`$\eqref{%s}$`, label)
			}
			return equationLink(currentPath, target)
		case labels.KindFigure:
			if samePage {
				return fmt.Sprintf("[%d](#%s)", target.Ordinal, label)
			}
			return fmt.Sprintf("[%d](%s#%s)", target.Ordinal, RelativeURL(currentPath, target.OutputPath), label)
		default:
			return sectionLink(linkText, currentPath, target, samePage)
		}
	})
}

// sectionLink links a section-style target through its page's heading anchor.
func sectionLink(linkText, currentPath string, target labels.Label, samePage bool) string {
	fragment := ""
	if target.HeadingAnchor != "" {
		fragment = "#" + target.HeadingAnchor
	}
	if samePage {
		if fragment == "" {
			fragment = "#" + target.ID
		}
		return fmt.Sprintf("[%s](%s)", linkText, fragment)
	}
	return fmt.Sprintf("[%s](%s%s)", linkText, RelativeURL(currentPath, target.OutputPath), fragment)
}

// equationLink builds a cross-page equation reference: the equation ordinal
// as link text, an anchor the math renderer's element id will match after
// the browser decodes it, and the raw equation carried along for tooltips.
func equationLink(currentPath string, target labels.Label) string {
	href := RelativeURL(currentPath, target.OutputPath) + "#" + EquationAnchor(target.ID)
	tooltip := html.EscapeString(target.RawContent)
	return fmt.Sprintf(`<a href="%s" class="eqref" data-equation="%s">%s</a>`,
		href, tooltip, strconv.Itoa(target.Ordinal))
}
