package structure

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Heading levels follow the source markup hierarchy.
const (
	LevelChapter = iota
	LevelSection
	LevelSubsection
	LevelSubsubsection
)

var headingPatterns = []struct {
	re    *regexp.Regexp
	level int
}{
	{regexp.MustCompile(`(?s)\\chapter\*?\{([^}]+)\}`), LevelChapter},
	{regexp.MustCompile(`(?s)\\section\*?\{([^}]+)\}`), LevelSection},
	{regexp.MustCompile(`(?s)\\subsection\*?\{([^}]+)\}`), LevelSubsection},
	{regexp.MustCompile(`(?s)\\subsubsection\*?\{([^}]+)\}`), LevelSubsubsection},
}

var (
	inlineCmdRe  = regexp.MustCompile(`\\[a-zA-Z]+\{([^}]*)\}`)
	controlRe    = regexp.MustCompile(`[\\{}]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
	titleCaser   = cases.Title(language.English)
)

// ExtractHeading returns the first structural heading of a unit's source file
// and its level. Missing files and files without headings fall back to a
// title derived from the file name at section level.
func ExtractHeading(texPath string) (string, int) {
	data, err := os.ReadFile(texPath)
	if err != nil {
		return fallbackTitle(texPath), LevelSection
	}
	if title, level, ok := HeadingFromText(string(data)); ok {
		return title, level
	}
	return fallbackTitle(texPath), LevelSection
}

// HeadingFromText scans text for the first heading marker in precedence
// order chapter > section > subsection > subsubsection. The matched title
// has inline formatting collapsed to its inner text, remaining control
// sequences deleted, and whitespace runs (including line breaks) folded to
// single spaces. Pure function.
func HeadingFromText(text string) (title string, level int, ok bool) {
	for _, p := range headingPatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		title = strings.TrimSpace(m[1])
		title = inlineCmdRe.ReplaceAllString(title, "$1")
		title = controlRe.ReplaceAllString(title, "")
		title = strings.TrimSpace(whitespaceRe.ReplaceAllString(title, " "))
		return title, p.level, true
	}
	return "", 0, false
}

func fallbackTitle(texPath string) string {
	stem := strings.TrimSuffix(filepath.Base(texPath), filepath.Ext(texPath))
	return titleCaser.String(strings.ReplaceAll(stem, "-", " "))
}

// Anchor returns the URL fragment the site builder assigns to a heading:
// lowercased, punctuation stripped, spaces replaced with hyphens.
func Anchor(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			if b.Len() > 0 && b.String()[b.Len()-1] != '-' {
				b.WriteByte('-')
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
