// Package latex rewrites source markup ahead of conversion: macros and
// environments the external converter cannot process are expanded or
// normalized, and reference macros become placeholder links the reference
// resolver rewrites after conversion.
package latex

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Custom units declared in the corpus preamble, plus the standard unit
// macros the documents actually use.
var siUnits = map[string]string{
	`\area`:                     "m²",
	`\volume`:                   "m³",
	`\volumeFlowRate`:           "m³/s",
	`\massFlowRate`:             "kg/s",
	`\density`:                  "kg/m³",
	`\humidityRatio`:            "kg_W/kg_DA",
	`\specificHeatCapacity`:     "J/(kg·K)",
	`\specificEnthalpy`:         "J/kg",
	`\coefficientOfPerformance`: "W/W",
	`\wattperVolumeFlowRate`:    "W·s/m³",
	`\volumeFlowRateperArea`:    "(m³/s)/m²",
	`\volumeFlowRateperWatt`:    "m³/(s·W)",
	`\umolperAreaperSecond`:     "μmol/(m²·s)",
	`\evapotranspirationRate`:   "kg/(m²·s)",
	`\fahrenheit`:               "°F",
	`\ft`:                       "ft",
	`\sqft`:                     "ft²",
	`\cfm`:                      "ft³/min",
	`\CFM`:                      "CFM",
	`\gal`:                      "gal",
	`\gpm`:                      "gpm",
	`\MBH`:                      "MBH",
	`\watt`:                     "W",
	`\kilowatt`:                 "kW",
	`\megawatt`:                 "MW",
	`\joule`:                    "J",
	`\kilojoule`:                "kJ",
	`\megajoule`:                "MJ",
	`\kelvin`:                   "K",
	`\celsius`:                  "°C",
	`\meter`:                    "m",
	`\kilogram`:                 "kg",
	`\gram`:                     "g",
	`\second`:                   "s",
	`\minute`:                   "min",
	`\hour`:                     "h",
	`\ampere`:                   "A",
	`\volt`:                     "V",
	`\pascal`:                   "Pa",
	`\kilopascal`:               "kPa",
	`\percent`:                  "%",
	`\liter`:                    "L",
	`\milli`:                    "m",
	`\kilo`:                     "k",
	`\mega`:                     "M",
	`\micro`:                    "μ",
	`\per`:                      "/",
	`\square`:                   "²",
	`\cubic`:                    "³",
	`\of`:                       "·",
}

// Unit macro names sorted longest first so \volumeFlowRate is never eaten
// by \volume.
var siUnitsByLength = func() []string {
	names := make([]string, 0, len(siUnits))
	for name := range siUnits {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return len(names[i]) > len(names[j]) })
	return names
}()

// braceGroup matches one brace group with a single level of nesting inside.
const braceGroup = `\{([^{}]*(?:\{[^{}]*\}[^{}]*)*)\}`

var (
	siValUnitRe = regexp.MustCompile(`\\(?:SI|IP)` + braceGroup + braceGroup)
	siUnitRe    = regexp.MustCompile(`\\(?:si|ip)` + braceGroup)
)

func expandUnit(unit string) string {
	for _, macro := range siUnitsByLength {
		unit = strings.ReplaceAll(unit, macro, siUnits[macro])
	}
	unit = strings.NewReplacer(`\`, "", "{", "", "}", "").Replace(unit)
	return strings.TrimSpace(unit)
}

// ExpandSIMacros rewrites \SI{value}{unit}, \si{unit}, \IP{value}{unit} and
// \ip{unit} to plain text.
func ExpandSIMacros(text string) string {
	text = siValUnitRe.ReplaceAllStringFunc(text, func(m string) string {
		g := siValUnitRe.FindStringSubmatch(m)
		return g[1] + " " + expandUnit(g[2])
	})
	return siUnitRe.ReplaceAllStringFunc(text, func(m string) string {
		return expandUnit(siUnitRe.FindStringSubmatch(m)[1])
	})
}

// Admonition macros: command name -> bold prefix label. Each \<name>{text}
// becomes a quote environment with the bold prefix the converter's filter
// recognizes.
var admonitionMacros = []struct{ name, label string }{
	{"warning", "Warning:"},
	{"caution", "Caution:"},
	{"important", "Important:"},
	{"tip", "Tip:"},
	{"note", "Note:"},
	{"example", "Example:"},
	{"seealso", "See Also:"},
	{"limitation", "Limitation:"},
}

var admonitionRes = func() []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(admonitionMacros))
	for i, m := range admonitionMacros {
		res[i] = regexp.MustCompile(`\\` + m.name + braceGroup)
	}
	return res
}()

// ConvertAdmonitionMacros rewrites admonition macros to quote environments
// with bold prefixes.
func ConvertAdmonitionMacros(text string) string {
	for i, m := range admonitionMacros {
		text = admonitionRes[i].ReplaceAllString(text,
			fmt.Sprintf("\\begin{quote}\n\\textbf{%s} $1\n\\end{quote}", m.label))
	}
	return text
}

var boldPrefixColonRe = regexp.MustCompile(`\\textbf\{(Note|Caution|Warning|Important|Tip|Example|See Also|Limitation)\}:`)

// NormalizeBoldPrefixColons moves a colon trailing \textbf{Note}: inside the
// braces, the form the admonition filter expects.
func NormalizeBoldPrefixColons(text string) string {
	return boldPrefixColonRe.ReplaceAllString(text, `\textbf{$1:}`)
}

var (
	calloutRe       = regexp.MustCompile(`(?s)\\begin\{callout\}(.*?)\\end\{callout\}`)
	plainPrefixRe   = regexp.MustCompile(`^\s*(NOTE|Note|Caution|CAUTION):\s*`)
)

// PromoteCalloutPrefixes converts plain Note:/Caution: prefixes inside
// callout bodies to the bold form. Must run before ConvertCalloutEnv so the
// delimiters are still present for matching.
func PromoteCalloutPrefixes(text string) string {
	return calloutRe.ReplaceAllStringFunc(text, func(m string) string {
		body := calloutRe.FindStringSubmatch(m)[1]
		if pm := plainPrefixRe.FindStringSubmatch(body); pm != nil {
			keyword := strings.ToUpper(pm[1][:1]) + strings.ToLower(pm[1][1:])
			body = plainPrefixRe.ReplaceAllString(body, fmt.Sprintf(`\textbf{%s:} `, keyword))
		}
		return `\begin{callout}` + body + `\end{callout}`
	})
}

// ConvertCalloutEnv renames the corpus-specific callout environment to the
// standard quote environment.
func ConvertCalloutEnv(text string) string {
	text = strings.ReplaceAll(text, `\begin{callout}`, `\begin{quote}`)
	return strings.ReplaceAll(text, `\end{callout}`, `\end{quote}`)
}

var standaloneBoldRe = regexp.MustCompile(
	`(?:^|\n\n)(\\textbf\{(?:Note|Caution|Warning|Important|Tip|Example|See Also|Limitation):\}[ ~]*(?:[^\n]|\n[^\n])+)`)

// WrapStandaloneBoldAdmonitions wraps free-standing \textbf{Note:} ...
// paragraphs in quote environments so they go through the admonition
// pipeline like everything else.
func WrapStandaloneBoldAdmonitions(text string) string {
	return standaloneBoldRe.ReplaceAllStringFunc(text, func(m string) string {
		g := standaloneBoldRe.FindStringSubmatch(m)
		return "\n\n\\begin{quote}\n" + g[1] + "\n\\end{quote}"
	})
}

var (
	wherelistRe     = regexp.MustCompile(`(?s)\\begin\{wherelist\}(.*?)\\end\{wherelist\}`)
	wherelistItemRe = regexp.MustCompile(`(?s)\\item\[([^\]]*)\]\s*(.*?)(?:\\item|\z)`)
)

// ConvertWherelistEnv rewrites the wherelist environment ("where: symbol =
// description" blocks after equations) into a bold-symbol list.
func ConvertWherelistEnv(text string) string {
	return wherelistRe.ReplaceAllStringFunc(text, func(m string) string {
		body := wherelistRe.FindStringSubmatch(m)[1]
		var lines []string
		rest := body
		for {
			item := wherelistItemRe.FindStringSubmatchIndex(rest)
			if item == nil {
				break
			}
			symbol := rest[item[2]:item[3]]
			desc := strings.TrimSpace(rest[item[4]:item[5]])
			lines = append(lines, fmt.Sprintf("- **%s** = %s", symbol, desc))
			if item[5] >= len(rest) {
				break
			}
			rest = rest[item[5]:]
		}
		if len(lines) == 0 {
			return body
		}
		return "*where:*\n\n" + strings.Join(lines, "\n") + "\n"
	})
}

var (
	inputRe         = regexp.MustCompile(`\\input\{[^}]*\}`)
	firstHeadBlock  = regexp.MustCompile(`(?s)\\endfirsthead.*?\\endhead`)
	footBlock       = regexp.MustCompile(`(?s)\\endfoot.*?\\endlastfoot`)
	tableMarkersRe  = regexp.MustCompile(`\\end(?:firsthead|head|foot|lastfoot)\b`)
	muskipRe        = regexp.MustCompile(`\\(?:med|thin|thick)muskip\s*=\s*\S+`)
	delimSpaceRe    = regexp.MustCompile(`\\nulldelimiterspace\s*=\s*\S+`)
	scriptSpaceRe   = regexp.MustCompile(`\\scriptspace\s*=\s*\S+`)
	mathEnvNames    = `equation|equation\*|align|align\*|gather|gather\*|multline|multline\*|eqnarray|eqnarray\*`
	mathEnvBeginRe  = regexp.MustCompile(`\\begin\{(?:` + mathEnvNames + `)\}`)
	mathEnvEndRe    = regexp.MustCompile(`\\end\{(?:` + mathEnvNames + `)\}`)
)

// StripInputDirectives removes \input{} directives; child files become
// separate pages and the parent page receives a generated contents list.
func StripInputDirectives(text string) string {
	return inputRe.ReplaceAllString(text, "")
}

// StripLongtableContinuations removes longtable continuation headers and
// footers that only matter for print pagination and would duplicate rows in
// the converted table.
func StripLongtableContinuations(text string) string {
	text = firstHeadBlock.ReplaceAllString(text, "")
	text = footBlock.ReplaceAllString(text, "")
	return tableMarkersRe.ReplaceAllString(text, "")
}

// StripDocumentWrapper drops the preamble and the document environment
// delimiters from a root document.
func StripDocumentWrapper(text string) string {
	if idx := strings.Index(text, `\begin{document}`); idx != -1 {
		text = text[idx+len(`\begin{document}`):]
	}
	return strings.ReplaceAll(text, `\end{document}`, "")
}

// StripSpacingPrimitives removes TeX math spacing assignments the math
// renderer chokes on.
func StripSpacingPrimitives(text string) string {
	text = muskipRe.ReplaceAllString(text, "")
	text = delimSpaceRe.ReplaceAllString(text, "")
	return scriptSpaceRe.ReplaceAllString(text, "")
}

// IsolateDisplayMathEnvs inserts blank lines around display math
// environments so the converter parses them as standalone blocks.
func IsolateDisplayMathEnvs(text string) string {
	text = mathEnvBeginRe.ReplaceAllStringFunc(text, func(m string) string { return "\n\n" + m })
	text = mathEnvEndRe.ReplaceAllStringFunc(text, func(m string) string { return m + "\n\n" })
	return text
}

var (
	refRe   = regexp.MustCompile(`\\ref\{([^}]+)\}`)
	eqrefRe = regexp.MustCompile(`\\eqref\{([^}]+)\}`)
)

// RewriteReferenceMacros converts \ref and \eqref into \href placeholders
// the converter carries through as links, which the reference resolver
// rewrites once the label index is complete.
func RewriteReferenceMacros(text string) string {
	text = eqrefRe.ReplaceAllString(text, `\href{#crossref-eq:$1}{$1}`)
	return refRe.ReplaceAllString(text, `\href{#crossref:$1}{$1}`)
}

// Preprocess applies every transformation in dependency order. sourceHint
// names the file being processed in diagnostics.
func Preprocess(text, sourceHint string) string {
	text = StripDocumentWrapper(text)
	text = IsolateDisplayMathEnvs(text)
	text = StripInputDirectives(text)
	text = StripLongtableContinuations(text)
	text = ExpandSIMacros(text)
	text = ExpandBracketMacros(text)
	text = NormalizeBoldPrefixColons(text)
	text = PromoteCalloutPrefixes(text)
	text = WrapStandaloneBoldAdmonitions(text)
	text = ConvertCalloutEnv(text)
	text = ConvertAdmonitionMacros(text)
	text = ConvertWherelistEnv(text)
	text = StripSpacingPrimitives(text)
	text = RewriteReferenceMacros(text)
	text = FixUnbalancedBraces(text, sourceHint)
	return text
}
