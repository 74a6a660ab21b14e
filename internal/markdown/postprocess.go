// Package markdown cleans up the Markdown that pandoc emits so the static
// site generator can render it. Pandoc's output is close but not usable as-is:
// admonition bodies lose their indent, image paths are relative to the wrong
// directory, equation anchors come out as raw <a> tags, and a handful of
// pandoc-specific attributes and fences have no Markdown meaning.
package markdown

import (
	"fmt"
	"regexp"
	"strings"
)

// AddFrontMatter prepends a YAML front matter block carrying the page title.
func AddFrontMatter(text, title string) string {
	return fmt.Sprintf("---\ntitle: %s\n---\n\n%s", title, text)
}

var admonitionHeadRe = regexp.MustCompile(`^!!!\s+\w+`)

// FixAdmonitionIndent keeps admonition body lines at exactly four spaces.
// A non-blank, non-indented line ends the admonition; blank lines are
// preserved without deciding either way.
func FixAdmonitionIndent(text string) string {
	lines := strings.Split(text, "\n")
	result := make([]string, 0, len(lines))
	inAdmonition := false

	for _, line := range lines {
		if admonitionHeadRe.MatchString(line) {
			inAdmonition = true
			result = append(result, line)
			continue
		}
		if inAdmonition {
			if strings.TrimSpace(line) == "" {
				result = append(result, "")
				continue
			}
			if strings.HasPrefix(line, "    ") {
				result = append(result, line)
				continue
			}
			inAdmonition = false
		}
		result = append(result, line)
	}
	return strings.Join(result, "\n")
}

// Alt text may itself contain one level of nested brackets.
var imageRe = regexp.MustCompile(`!\[((?:[^\[\]]|\[[^\]]*\])*)\]\(([^)]+)\)`)

// RewriteImagePaths prepends "../" segments so image references resolve from
// the output file's directory instead of the doc set root. Absolute paths and
// URLs pass through untouched.
func RewriteImagePaths(text string, relDepth int) string {
	if relDepth <= 0 {
		return text
	}
	prefix := strings.Repeat("../", relDepth)

	return imageRe.ReplaceAllStringFunc(text, func(m string) string {
		sub := imageRe.FindStringSubmatch(m)
		alt, path := sub[1], sub[2]
		if strings.HasPrefix(path, "http") || strings.HasPrefix(path, "/") {
			return m
		}
		if !strings.HasPrefix(path, "..") {
			path = prefix + path
		}
		return fmt.Sprintf("![%s](%s)", alt, path)
	})
}

var (
	displayMathRe = regexp.MustCompile(`(?s)\$\$\n(.*?)\n\$\$`)
	eqAnchorRe    = regexp.MustCompile(`<a id="([^"]+)"></a>`)
	eqAnchorAllRe = regexp.MustCompile(`<a id="[^"]+"></a>\s*`)
)

// CleanEquationLabels converts the anchor tags pandoc leaves inside display
// math into MathJax \tag{} markers, which is what the equation anchors on the
// rendered page are generated from.
func CleanEquationLabels(text string) string {
	return displayMathRe.ReplaceAllStringFunc(text, func(m string) string {
		body := displayMathRe.FindStringSubmatch(m)[1]
		anchor := eqAnchorRe.FindStringSubmatch(body)
		if anchor != nil {
			body = eqAnchorAllRe.ReplaceAllString(body, "")
			body = strings.TrimRight(body, " \t\n")
			body += fmt.Sprintf(` \tag{%s}`, anchor[1])
		}
		return fmt.Sprintf("$$\n%s\n$$", body)
	})
}

var (
	unnumberedRe    = regexp.MustCompile(`\s*\{\.unnumbered\}`)
	headingAttrRe   = regexp.MustCompile(`\s*\{#[^}]+\}`)
	blankRunRe      = regexp.MustCompile(`\n{4,}`)
	trailingSpaceRe = regexp.MustCompile(`(?m)[ \t]+$`)
)

// CleanPandocArtifacts strips heading attributes and normalizes whitespace.
func CleanPandocArtifacts(text string) string {
	text = unnumberedRe.ReplaceAllString(text, "")
	text = headingAttrRe.ReplaceAllString(text, "")
	// Double-escaped underscores only; math-mode underscores stay escaped.
	text = strings.ReplaceAll(text, `\\_`, "_")
	text = blankRunRe.ReplaceAllString(text, "\n\n\n")
	text = trailingSpaceRe.ReplaceAllString(text, "")
	return text
}

var emptyLinkRe = regexp.MustCompile(`\[\]\([^)]*\)`)

// CleanEmptyLinks drops links with no text, a frequent pandoc by-product of
// stripped LaTeX anchors.
func CleanEmptyLinks(text string) string {
	return emptyLinkRe.ReplaceAllString(text, "")
}

var divFenceRe = regexp.MustCompile(`^:{3,}(\s.*)?$`)

// CleanDivFences removes pandoc ::: fence lines, which the site generator
// would otherwise render literally.
func CleanDivFences(text string) string {
	lines := strings.Split(text, "\n")
	result := make([]string, 0, len(lines))
	for _, line := range lines {
		if divFenceRe.MatchString(strings.TrimSpace(line)) {
			continue
		}
		result = append(result, line)
	}
	return strings.Join(result, "\n")
}

// Postprocess applies every cleanup pass in order and prepends front matter.
// When title is empty it is taken from the page's first heading.
func Postprocess(text, title string, relDepth int) string {
	text = FixAdmonitionIndent(text)
	text = RewriteImagePaths(text, relDepth)
	text = CleanEquationLabels(text)
	text = CleanPandocArtifacts(text)
	text = CleanEmptyLinks(text)
	text = CleanDivFences(text)

	// Heading attributes are gone by now, so the extracted title is clean.
	if title == "" {
		title = ExtractTitle([]byte(text))
	}
	return AddFrontMatter(text, title)
}
