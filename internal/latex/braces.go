package latex

import (
	"log/slog"
	"regexp"
	"strings"
)

// Bracket macros expand to sized delimiters. Nesting is arbitrary
// (\PB{\frac{\dot{m}_a}{\dot{m}_b}}), so expansion matches braces by hand
// instead of by pattern.
var bracketMacros = map[string][2]string{
	`\PB`: {`\left(`, `\right)`},
	`\RB`: {`\left[`, `\right]`},
	`\CB`: {`\left\{`, `\right\}`},
}

var bracketMacroRe = regexp.MustCompile(`\\(?:PB|RB|CB)\{`)

// findBraceContent returns the content of the brace group opening at start
// and the index just past the closing brace, or ok=false when unbalanced.
func findBraceContent(text string, start int) (content string, end int, ok bool) {
	if start >= len(text) || text[start] != '{' {
		return "", 0, false
	}
	depth := 1
	i := start + 1
	for i < len(text) && depth > 0 {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
		}
		i++
	}
	if depth != 0 {
		return "", 0, false
	}
	return text[start+1 : i-1], i, true
}

// ExpandBracketMacros expands \PB{}, \RB{}, \CB{} inside-out so nested
// occurrences disappear regardless of depth.
func ExpandBracketMacros(text string) string {
	var result strings.Builder
	pos := 0
	for {
		loc := bracketMacroRe.FindStringIndex(text[pos:])
		if loc == nil {
			result.WriteString(text[pos:])
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		result.WriteString(text[pos:start])

		macro := text[start : end-1]
		content, groupEnd, ok := findBraceContent(text, end-1)
		if !ok {
			// Unbalanced brace: emit the macro text literally and move on.
			result.WriteString(text[start:end])
			pos = end
			continue
		}
		delims := bracketMacros[macro]
		result.WriteString(delims[0])
		result.WriteString(" ")
		result.WriteString(ExpandBracketMacros(content))
		result.WriteString(" ")
		result.WriteString(delims[1])
		pos = groupEnd
	}
	return result.String()
}

// maxOrphanBraces bounds the repair: larger imbalances likely indicate a bug
// in an earlier rewrite and are left for the converter to report.
const maxOrphanBraces = 3

// findOrphanBraces scans text and returns the positions of unmatched opening
// and closing braces. Escaped braces and comment lines are skipped.
func findOrphanBraces(text string) (orphanOpen, orphanClose []int) {
	var openStack []int

	i := 0
	n := len(text)
	for i < n {
		c := text[i]

		// Comments run from an unescaped % to end of line.
		if c == '%' && (i == 0 || text[i-1] != '\\') {
			for i < n && text[i] != '\n' {
				i++
			}
			continue
		}

		// A line break \\ must not make a following brace look escaped.
		if c == '\\' && i+1 < n && text[i+1] == '\\' {
			i += 2
			continue
		}
		if c == '\\' && i+1 < n && (text[i+1] == '{' || text[i+1] == '}') {
			i += 2
			continue
		}

		switch c {
		case '{':
			openStack = append(openStack, i)
		case '}':
			if len(openStack) > 0 {
				openStack = openStack[:len(openStack)-1]
			} else {
				orphanClose = append(orphanClose, i)
			}
		}
		i++
	}

	return openStack, orphanClose
}

// FixUnbalancedBraces removes orphan braces that would abort the converter.
// Upstream sources occasionally carry brace typos; removing up to
// maxOrphanBraces of them lets the page convert instead of failing.
func FixUnbalancedBraces(text, sourceHint string) string {
	orphanOpen, orphanClose := findOrphanBraces(text)
	if len(orphanOpen) == 0 && len(orphanClose) == 0 {
		return text
	}

	total := len(orphanOpen) + len(orphanClose)
	if sourceHint == "" {
		sourceHint = "<unknown>"
	}
	if total > maxOrphanBraces {
		slog.Warn("Brace imbalance too large to auto-fix",
			"orphans", total, "source", sourceHint)
		return text
	}

	remove := make(map[int]struct{}, total)
	for _, pos := range append(orphanOpen, orphanClose...) {
		slog.Debug("Removing orphan brace",
			"line", strings.Count(text[:pos], "\n")+1, "source", sourceHint)
		remove[pos] = struct{}{}
	}

	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		if _, drop := remove[i]; drop {
			continue
		}
		b.WriteByte(text[i])
	}
	return b.String()
}
