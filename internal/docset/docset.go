// Package docset discovers the documentation sets present in one release of
// the source corpus.
package docset

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/texsite/texsite/internal/config"
)

// DocSet is one top-level documentation collection (one navigation subtree).
type DocSet struct {
	Dir       string // directory name under doc/
	Title     string
	Slug      string
	SourceDir string // absolute path to the doc-set directory
	MainTex   string // absolute path to <dir>/<dir>.tex
}

// MediaDir returns the doc set's media directory.
func (d DocSet) MediaDir() string {
	return filepath.Join(d.SourceDir, "media")
}

// Discover scans <sourceDir>/doc for directories containing a main .tex file
// named after the directory. Entries are returned in sorted order so that
// downstream label indexing is deterministic.
func Discover(sourceDir string, cfg *config.Config) []DocSet {
	docDir := filepath.Join(sourceDir, "doc")
	entries, err := os.ReadDir(docDir)
	if err != nil {
		slog.Error("No doc/ directory found", "source", sourceDir, "error", err)
		return nil
	}

	excluded := make(map[string]struct{}, len(cfg.Source.ExcludeDirs))
	for _, d := range cfg.Source.ExcludeDirs {
		excluded[d] = struct{}{}
	}

	var sets []DocSet
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if _, skip := excluded[name]; skip {
			continue
		}

		mainTex := filepath.Join(docDir, name, name+".tex")
		if _, err := os.Stat(mainTex); err != nil {
			continue
		}

		info := cfg.DocSetFor(name)
		sets = append(sets, DocSet{
			Dir:       name,
			Title:     info.Title,
			Slug:      info.Slug,
			SourceDir: filepath.Join(docDir, name),
			MainTex:   mainTex,
		})
	}

	sort.Slice(sets, func(i, j int) bool { return sets[i].Dir < sets[j].Dir })
	return sets
}
