package nav

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/texsite/texsite/internal/structure"
)

func unitList(t *testing.T, rels map[string]string) []structure.ContentUnit {
	t.Helper()
	dir := t.TempDir()
	var units []structure.ContentUnit
	for _, rel := range orderedKeys(rels) {
		path := filepath.Join(dir, "src", rel+".tex")
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(rels[rel]), 0o644))
		units = append(units, structure.ContentUnit{
			Input:      "src/" + rel,
			RelPath:    rel,
			SourcePath: path,
			Depth:      strings.Count(rel, "/"),
		})
	}
	return units
}

// map iteration order is random; the tests encode order in the key prefix.
func orderedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func TestBuild_TwoLevelTree(t *testing.T) {
	units := unitList(t, map[string]string{
		"ch1":      `\chapter{Chapter One}`,
		"ch1/sec1": `\section{Section One}`,
		"ch1/sec2": `\section{Section Two}`,
		"ch2":      `\chapter{Chapter Two}`,
	})

	items := Build(units, "guide")
	require.Len(t, items, 2)

	assert.Equal(t, "Chapter One", items[0].Title)
	assert.Equal(t, "guide/ch1/index.md", items[0].Path, "parent units navigate to their index page")
	require.Len(t, items[0].Children, 2)
	assert.Equal(t, "Section One", items[0].Children[0].Title)
	assert.Equal(t, "guide/ch1/sec1.md", items[0].Children[0].Path)
	assert.Equal(t, "Section Two", items[0].Children[1].Title)

	assert.Equal(t, "Chapter Two", items[1].Title)
	assert.Equal(t, "guide/ch2.md", items[1].Path)
	assert.Empty(t, items[1].Children)
}

func TestBuild_OrphanSectionBecomesTopLevel(t *testing.T) {
	units := unitList(t, map[string]string{
		"aa/lone": `\section{Lone Section}`,
		"zz":      `\chapter{Later Chapter}`,
	})

	items := Build(units, "s")
	require.Len(t, items, 2)
	assert.Equal(t, "Lone Section", items[0].Title)
	assert.Equal(t, "Later Chapter", items[1].Title)
}

func TestBuild_SkipsSentinelAndFallsBackOnTitle(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "src", "air-side-economizer.tex")
	units := []structure.ContentUnit{
		{Input: "src/title", RelPath: "title", SourcePath: filepath.Join(dir, "src", "title.tex")},
		{Input: "src/air-side-economizer", RelPath: "air-side-economizer", SourcePath: missing},
	}

	items := Build(units, "s")
	require.Len(t, items, 1)
	assert.Equal(t, "Air Side Economizer", items[0].Title)
}
