// Package labels builds the per-release label index: every cross-reference
// target declared anywhere in a release, mapped to the output location that
// will carry it, with equation and figure numbering assigned.
package labels

import (
	"log/slog"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/texsite/texsite/internal/docset"
	"github.com/texsite/texsite/internal/structure"
)

// Kind classifies what a label points at, inferred from its surrounding
// markup context.
type Kind string

const (
	KindEquation Kind = "equation"
	KindFigure   Kind = "figure"
	KindOther    Kind = "other"
)

// Label is one cross-reference target.
type Label struct {
	ID            string
	OutputPath    string // output document that carries the target
	HeadingAnchor string // fragment of the page heading, for section-like targets
	Kind          Kind
	RawContent    string // equation body, kept for tooltip rendering
	// Ordinal is 1-based: per output page for equations, per documentation
	// set for figures, zero for other labels.
	Ordinal int
}

// Index maps label id to its target. One index covers a whole release.
type Index map[string]Label

// SetUnits pairs a documentation set with its resolved unit list.
type SetUnits struct {
	Set   docset.DocSet
	Units []structure.ContentUnit
}

var (
	labelRe   = regexp.MustCompile(`\\label\{([^}]+)\}`)
	mathEnvRe = regexp.MustCompile(`(?s)\\begin\{(equation|align|gather|multline|eqnarray)(\*?)\}(.*?)\\end\{(?:equation|align|gather|multline|eqnarray)\*?\}`)
	figEnvRe  = regexp.MustCompile(`(?s)\\begin\{figure\*?\}(.*?)\\end\{figure\*?\}`)
)

// BuildIndex folds the label declarations of every unit of every set into a
// single map. Sets and units are processed in the caller's order, which must
// be stable: duplicate ids resolve by last writer wins, so a fixed order is
// what makes repeated builds reproducible.
func BuildIndex(sets []SetUnits) Index {
	index := make(Index)
	for _, su := range sets {
		parents := structure.ParentSet(su.Units)
		figureOrdinal := 0
		for _, unit := range su.Units {
			if unit.IsSentinel() {
				continue
			}
			found := scanUnit(su.Set.Slug, unit, parents[unit.RelPath], &figureOrdinal)
			for _, l := range found {
				if prev, dup := index[l.ID]; dup {
					slog.Debug("Duplicate label, later declaration wins",
						"label", l.ID, "previous", prev.OutputPath, "now", l.OutputPath)
				}
				index[l.ID] = l
			}
		}
	}
	return index
}

// scanUnit discovers the labels declared by one unit, in document order.
// Equation ordinals restart per unit (one unit is one output page); the
// figure ordinal runs across the whole documentation set.
func scanUnit(slug string, unit structure.ContentUnit, isParent bool, figureOrdinal *int) []Label {
	data, err := os.ReadFile(unit.SourcePath)
	if err != nil {
		return nil
	}
	text := string(data)
	outputPath := structure.OutputPath(slug, unit, isParent)

	title, _ := structure.ExtractHeading(unit.SourcePath)
	anchor := structure.Anchor(title)

	type span struct {
		start, end int
		body       string
	}
	var mathSpans, figSpans []span
	for _, m := range mathEnvRe.FindAllStringSubmatchIndex(text, -1) {
		mathSpans = append(mathSpans, span{m[0], m[1], text[m[6]:m[7]]})
	}
	for _, m := range figEnvRe.FindAllStringSubmatchIndex(text, -1) {
		figSpans = append(figSpans, span{m[0], m[1], ""})
	}

	within := func(spans []span, pos int) (span, bool) {
		for _, s := range spans {
			if pos >= s.start && pos < s.end {
				return s, true
			}
		}
		return span{}, false
	}

	var found []Label
	equationOrdinal := 0
	matches := labelRe.FindAllStringSubmatchIndex(text, -1)
	sort.Slice(matches, func(i, j int) bool { return matches[i][0] < matches[j][0] })
	for _, m := range matches {
		id := text[m[2]:m[3]]
		l := Label{ID: id, OutputPath: outputPath}

		if s, ok := within(mathSpans, m[0]); ok {
			equationOrdinal++
			l.Kind = KindEquation
			l.Ordinal = equationOrdinal
			l.RawContent = stripLabels(s.body)
		} else if _, ok := within(figSpans, m[0]); ok {
			*figureOrdinal++
			l.Kind = KindFigure
			l.Ordinal = *figureOrdinal
		} else {
			l.Kind = KindOther
			l.HeadingAnchor = anchor
		}
		found = append(found, l)
	}
	return found
}

var stripLabelRe = regexp.MustCompile(`\\label\{[^}]*\}\s*`)

func stripLabels(body string) string {
	return strings.TrimSpace(stripLabelRe.ReplaceAllString(body, ""))
}
