package structure

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeadingFromText_PrecedenceOrder(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		title string
		level int
	}{
		{"chapter", `\chapter{Building Envelope}`, "Building Envelope", LevelChapter},
		{"starred chapter", `\chapter*{Preface}`, "Preface", LevelChapter},
		{"section", `\section{Air Loops}`, "Air Loops", LevelSection},
		{"subsection", `\subsection{Coils}`, "Coils", LevelSubsection},
		{"subsubsection", `\subsubsection{Fins}`, "Fins", LevelSubsubsection},
		{
			// A chapter anywhere in the file wins over an earlier section.
			"chapter beats section",
			"\\section{Late}\n\\chapter{Early By Rank}",
			"Early By Rank", LevelChapter,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, level, ok := HeadingFromText(tt.text)
			require.True(t, ok)
			assert.Equal(t, tt.title, title)
			assert.Equal(t, tt.level, level)
		})
	}
}

func TestHeadingFromText_CleansInlineMarkup(t *testing.T) {
	title, _, ok := HeadingFromText(`\section{Using \texttt{eplusout.err} Files}`)
	require.True(t, ok)
	assert.Equal(t, "Using eplusout.err Files", title)
}

func TestHeadingFromText_CollapsesWhitespace(t *testing.T) {
	title, level, ok := HeadingFromText("\\chapter{Multi\n  Line\n  Title}")
	require.True(t, ok)
	assert.Equal(t, "Multi Line Title", title)
	assert.Equal(t, LevelChapter, level)
}

func TestHeadingFromText_NoHeading(t *testing.T) {
	_, _, ok := HeadingFromText("just prose, no headings")
	assert.False(t, ok)
}

func TestExtractHeading_FileFallback(t *testing.T) {
	dir := t.TempDir()

	missing := filepath.Join(dir, "zone-air-balance.tex")
	title, level := ExtractHeading(missing)
	assert.Equal(t, "Zone Air Balance", title)
	assert.Equal(t, LevelSection, level)

	noHeading := filepath.Join(dir, "loads-summary.tex")
	require.NoError(t, os.WriteFile(noHeading, []byte("prose only"), 0o644))
	title, level = ExtractHeading(noHeading)
	assert.Equal(t, "Loads Summary", title)
	assert.Equal(t, LevelSection, level)
}

func TestAnchor(t *testing.T) {
	assert.Equal(t, "what-is-energyplus", Anchor("What is EnergyPlus?"))
	assert.Equal(t, "air-loops-hvac", Anchor("Air Loops - HVAC"))
	assert.Equal(t, "group-simulation-parameters", Anchor("Group Simulation Parameters"))
}
