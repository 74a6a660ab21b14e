// Package site assembles the static-site scaffolding around the converted
// pages: section index pages, the per-version landing page, the site
// generator's configuration, and the cross-version manifest.
package site

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/texsite/texsite/internal/config"
	"github.com/texsite/texsite/internal/docset"
	"github.com/texsite/texsite/internal/nav"
)

// Assembler writes the non-page files of one version's site.
type Assembler struct {
	SiteName   string
	MathJaxURL string
}

// SetNav pairs a documentation set with its navigation tree.
type SetNav struct {
	Set   docset.DocSet
	Items []nav.Item
}

// NewAssembler builds an Assembler from the site configuration.
func NewAssembler(cfg *config.Config) *Assembler {
	return &Assembler{
		SiteName:   cfg.Site.Name,
		MathJaxURL: cfg.Site.MathJaxURL,
	}
}

// DocSetIndex writes the section index page of one documentation set, so the
// bare section URL renders instead of returning a 404. The set title doubles
// as a search filter tag.
func (a *Assembler) DocSetIndex(outDocs string, set docset.DocSet) error {
	content := fmt.Sprintf("---\ntitle: %s\ntags:\n  - %s\n---\n\n# %s\n",
		set.Title, set.Title, set.Title)
	path := filepath.Join(outDocs, set.Slug, "index.md")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

// VersionIndex writes the landing page of one version, linking every
// documentation set.
func (a *Assembler) VersionIndex(outDocs, version string, sets []docset.DocSet) error {
	title := fmt.Sprintf("%s %s Documentation", a.SiteName, config.VersionTitle(version))

	var b strings.Builder
	fmt.Fprintf(&b, "---\ntitle: %s\n---\n\n# %s\n\n", title, title)
	b.WriteString("## Documentation Sets\n\n")
	for _, set := range sets {
		fmt.Fprintf(&b, "- [%s](%s/)\n", set.Title, set.Slug)
	}

	path := filepath.Join(outDocs, "index.md")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

// Config writes the site generator configuration for one version: site name,
// the full navigation tree, search tags per set, the version selector
// provider, and the MathJax script entry.
func (a *Assembler) Config(outputDir, version string, navs []SetNav) error {
	tags := make(map[string]string, len(navs))
	navData := make([]any, 0, len(navs))
	for _, sn := range navs {
		tags[sn.Set.Title] = sn.Set.Slug

		entries := []any{map[string]any{sn.Set.Title: sn.Set.Slug + "/index.md"}}
		entries = append(entries, navItems(sn.Items)...)
		navData = append(navData, map[string]any{sn.Set.Title: entries})
	}

	root := map[string]any{
		"site_name": fmt.Sprintf("%s - %s", a.SiteName, config.VersionTitle(version)),
		"site_url":  "/",
		"nav":       navData,
		"extra": map[string]any{
			"version": map[string]any{"provider": "mike", "default": "stable"},
			"tags":    tags,
		},
		"extra_javascript": []any{
			map[string]any{"path": a.MathJaxURL, "async": true},
		},
	}

	data, err := yaml.Marshal(root)
	if err != nil {
		return fmt.Errorf("failed to marshal site config: %w", err)
	}
	return os.WriteFile(filepath.Join(outputDir, "site.yaml"), data, 0o644)
}

// navItems converts a navigation tree into the generator's nested list form.
func navItems(items []nav.Item) []any {
	out := make([]any, 0, len(items))
	for _, item := range items {
		if len(item.Children) == 0 {
			out = append(out, map[string]any{item.Title: item.Path})
			continue
		}
		entries := []any{map[string]any{item.Title: item.Path}}
		entries = append(entries, navItems(item.Children)...)
		out = append(out, map[string]any{item.Title: entries})
	}
	return out
}
