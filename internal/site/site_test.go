package site

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/texsite/texsite/internal/docset"
	"github.com/texsite/texsite/internal/nav"
)

func testAssembler() *Assembler {
	return &Assembler{
		SiteName:   "EnergyPlus",
		MathJaxURL: "https://cdn.example.com/mathjax.js",
	}
}

func TestDocSetIndex(t *testing.T) {
	out := t.TempDir()
	set := docset.DocSet{Dir: "guide", Title: "User Guide", Slug: "guide"}

	require.NoError(t, testAssembler().DocSetIndex(out, set))

	data, err := os.ReadFile(filepath.Join(out, "guide", "index.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "title: User Guide")
	assert.Contains(t, string(data), "tags:\n  - User Guide")
	assert.Contains(t, string(data), "# User Guide")
}

func TestVersionIndex(t *testing.T) {
	out := t.TempDir()
	sets := []docset.DocSet{
		{Title: "User Guide", Slug: "guide"},
		{Title: "Engineering Reference", Slug: "engineering-reference"},
	}

	require.NoError(t, testAssembler().VersionIndex(out, "v25.2.0", sets))

	data, err := os.ReadFile(filepath.Join(out, "index.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "# EnergyPlus 25.2.0 Documentation")
	assert.Contains(t, string(data), "- [User Guide](guide/)")
	assert.Contains(t, string(data), "- [Engineering Reference](engineering-reference/)")
}

func TestConfig(t *testing.T) {
	out := t.TempDir()
	navs := []SetNav{
		{
			Set: docset.DocSet{Title: "User Guide", Slug: "guide"},
			Items: []nav.Item{
				{Title: "Chapter One", Path: "guide/ch1/index.md", Children: []nav.Item{
					{Title: "Section One", Path: "guide/ch1/sec1.md"},
				}},
				{Title: "Chapter Two", Path: "guide/ch2.md"},
			},
		},
	}

	require.NoError(t, testAssembler().Config(out, "v25.2.0", navs))

	data, err := os.ReadFile(filepath.Join(out, "site.yaml"))
	require.NoError(t, err)

	var cfg map[string]any
	require.NoError(t, yaml.Unmarshal(data, &cfg))

	assert.Equal(t, "EnergyPlus - 25.2.0", cfg["site_name"])
	assert.Equal(t, "/", cfg["site_url"])

	navData, ok := cfg["nav"].([]any)
	require.True(t, ok)
	require.Len(t, navData, 1)
	tab := navData[0].(map[string]any)["User Guide"].([]any)
	assert.Equal(t, map[string]any{"User Guide": "guide/index.md"}, tab[0])

	chapter := tab[1].(map[string]any)["Chapter One"].([]any)
	assert.Equal(t, map[string]any{"Chapter One": "guide/ch1/index.md"}, chapter[0])
	assert.Equal(t, map[string]any{"Section One": "guide/ch1/sec1.md"}, chapter[1])

	extra := cfg["extra"].(map[string]any)
	assert.Equal(t, map[string]any{"User Guide": "guide"}, extra["tags"])
}

func TestWriteVersionsManifest(t *testing.T) {
	out := t.TempDir()
	versions := []string{"v25.2.0", "v25.1.0"}

	require.NoError(t, WriteVersionsManifest(out, versions, "v25.2.0"))

	data, err := os.ReadFile(filepath.Join(out, "versions.json"))
	require.NoError(t, err)

	var entries []VersionEntry
	require.NoError(t, json.Unmarshal(data, &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, VersionEntry{Version: "v25.2", Title: "25.2.0", Aliases: []string{"latest"}}, entries[0])
	assert.Equal(t, VersionEntry{Version: "v25.1", Title: "25.1.0", Aliases: []string{}}, entries[1])
}

func TestWriteRootRedirect(t *testing.T) {
	out := t.TempDir()
	require.NoError(t, WriteRootRedirect(out, "EnergyPlus", "v25.2.0"))

	data, err := os.ReadFile(filepath.Join(out, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `url=v25.2/`)
	assert.Contains(t, string(data), "EnergyPlus 25.2.0 documentation")
}
