package latex

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandSIMacros(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`\SI{20}{\celsius}`, "20 °C"},
		{`\SI{0.5}{\massFlowRate}`, "0.5 kg/s"},
		{`\si{\watt\per\area}`, "W/m²"},
		{`\IP{68}{\fahrenheit}`, "68 °F"},
		{`\si{\volumeFlowRate}`, "m³/s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExpandSIMacros(tt.in), "input %q", tt.in)
	}
}

func TestExpandBracketMacros(t *testing.T) {
	assert.Equal(t, `\left( x + y \right)`, ExpandBracketMacros(`\PB{x + y}`))
	assert.Equal(t, `\left[ a \right]`, ExpandBracketMacros(`\RB{a}`))
	assert.Equal(t, `\left\{ s \right\}`, ExpandBracketMacros(`\CB{s}`))
}

func TestExpandBracketMacros_Nested(t *testing.T) {
	out := ExpandBracketMacros(`\PB{\frac{\dot{m}_{a}}{\dot{m}_{b}}}`)
	assert.Equal(t, `\left( \frac{\dot{m}_{a}}{\dot{m}_{b}} \right)`, out)

	out = ExpandBracketMacros(`\PB{a \PB{b}}`)
	assert.Equal(t, `\left( a \left( b \right) \right)`, out)
}

func TestExpandBracketMacros_UnbalancedLeftAlone(t *testing.T) {
	assert.Equal(t, `\PB{never closed`, ExpandBracketMacros(`\PB{never closed`))
}

func TestConvertAdmonitionMacros(t *testing.T) {
	out := ConvertAdmonitionMacros(`\warning{Do not cross the streams.}`)
	assert.Contains(t, out, `\begin{quote}`)
	assert.Contains(t, out, `\textbf{Warning:} Do not cross the streams.`)
	assert.Contains(t, out, `\end{quote}`)
}

func TestNormalizeBoldPrefixColons(t *testing.T) {
	assert.Equal(t, `\textbf{Note:} text`, NormalizeBoldPrefixColons(`\textbf{Note}: text`))
}

func TestPromoteCalloutPrefixes(t *testing.T) {
	out := PromoteCalloutPrefixes(`\begin{callout}NOTE: check the weather file\end{callout}`)
	assert.Contains(t, out, `\textbf{Note:} check the weather file`)

	// "Note that..." is prose, not an admonition prefix.
	prose := `\begin{callout}Note that this is fine\end{callout}`
	assert.Equal(t, prose, PromoteCalloutPrefixes(prose))
}

func TestConvertWherelistEnv(t *testing.T) {
	in := `\begin{wherelist}
\item[Q] heat transfer rate
\item[m] mass flow rate
\end{wherelist}`
	out := ConvertWherelistEnv(in)
	assert.Contains(t, out, "*where:*")
	assert.Contains(t, out, "- **Q** = heat transfer rate")
	assert.Contains(t, out, "- **m** = mass flow rate")
}

func TestStripInputDirectives(t *testing.T) {
	out := StripInputDirectives("\\chapter{X}\n\\input{src/a}\n\\input{src/b}\n")
	assert.NotContains(t, out, `\input`)
	assert.Contains(t, out, `\chapter{X}`)
}

func TestStripLongtableContinuations(t *testing.T) {
	in := `header \endfirsthead continuation \endhead body \endfoot footer \endlastfoot rows`
	out := StripLongtableContinuations(in)
	assert.NotContains(t, out, `\endhead`)
	assert.NotContains(t, out, `\endfoot`)
	assert.Contains(t, out, "rows")
}

func TestStripDocumentWrapper(t *testing.T) {
	in := "\\documentclass{book}\n\\begin{document}\nbody text\n\\end{document}\n"
	out := StripDocumentWrapper(in)
	assert.NotContains(t, out, `\documentclass`)
	assert.NotContains(t, out, `\end{document}`)
	assert.Contains(t, out, "body text")
}

func TestIsolateDisplayMathEnvs(t *testing.T) {
	in := "text\n\\begin{equation}\nx=1\n\\end{equation}\nmore"
	out := IsolateDisplayMathEnvs(in)
	assert.Contains(t, out, "text\n\n\n\\begin{equation}")
	assert.Contains(t, out, "\\end{equation}\n\n\nmore")
}

func TestRewriteReferenceMacros(t *testing.T) {
	out := RewriteReferenceMacros(`see \ref{sec:zones} and \eqref{eq:balance}`)
	assert.Contains(t, out, `\href{#crossref:sec:zones}{sec:zones}`)
	assert.Contains(t, out, `\href{#crossref-eq:eq:balance}{eq:balance}`)
}

func TestFixUnbalancedBraces(t *testing.T) {
	assert.Equal(t, "a (kg/m3)", FixUnbalancedBraces("a {(kg/m3)", "x.tex"))
	assert.Equal(t, "line end", FixUnbalancedBraces("line end}", "x.tex"))

	balanced := `\textbf{fine}`
	assert.Equal(t, balanced, FixUnbalancedBraces(balanced, "x.tex"))
}

func TestFixUnbalancedBraces_SkipsEscapedAndComments(t *testing.T) {
	in := "math \\{ set \\}\n% comment with { brace\nok"
	assert.Equal(t, in, FixUnbalancedBraces(in, "x.tex"))
}

func TestFixUnbalancedBraces_LargeImbalanceUntouched(t *testing.T) {
	in := strings.Repeat("{", 5)
	assert.Equal(t, in, FixUnbalancedBraces(in, "x.tex"))
}

func TestPreprocess_EndToEnd(t *testing.T) {
	in := "\\begin{document}\n" +
		"\\chapter{Loads}\n" +
		"\\input{src/loads/internal}\n" +
		"\\note{Runs use \\SI{20}{\\celsius} defaults.}\n" +
		"See \\ref{sec:zones}.\n" +
		"\\end{document}\n"

	out := Preprocess(in, "loads.tex")

	assert.NotContains(t, out, `\begin{document}`)
	assert.NotContains(t, out, `\input{`)
	assert.Contains(t, out, `\textbf{Note:} Runs use 20 °C defaults.`)
	assert.Contains(t, out, `\href{#crossref:sec:zones}{sec:zones}`)
}
