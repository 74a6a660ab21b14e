// Package pipeline orchestrates full conversions: one version end to end,
// and the fan-out across every configured release.
package pipeline

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/texsite/texsite/internal/config"
	"github.com/texsite/texsite/internal/convert"
	"github.com/texsite/texsite/internal/docset"
	"github.com/texsite/texsite/internal/errors"
	"github.com/texsite/texsite/internal/labels"
	"github.com/texsite/texsite/internal/nav"
	"github.com/texsite/texsite/internal/site"
	"github.com/texsite/texsite/internal/structure"
)

// VersionResult is the outcome of converting one release.
type VersionResult struct {
	Version  string
	BuildID  string
	Sets     []convert.SetResult
	Skipped  bool
	Err      error
	Duration time.Duration
}

// TotalFiles counts all attempted file conversions.
func (r VersionResult) TotalFiles() int {
	n := 0
	for _, s := range r.Sets {
		n += len(s.Files)
	}
	return n
}

// TotalSuccesses counts converted files.
func (r VersionResult) TotalSuccesses() int {
	n := 0
	for _, s := range r.Sets {
		n += s.Successes()
	}
	return n
}

// Success reports whether the version converted without a fatal error.
// Individual file failures degrade the page set but do not fail the version.
func (r VersionResult) Success() bool { return r.Err == nil }

// ConvertVersion converts every documentation set of one checked-out release
// into outputDir and assembles the version's site scaffolding.
func (p *Runner) ConvertVersion(ctx context.Context, sourceDir, outputDir, version string) VersionResult {
	started := time.Now()
	result := VersionResult{Version: version}
	defer func() { result.Duration = time.Since(started) }()

	if p.Config.Output.Clean {
		if err := os.RemoveAll(outputDir); err != nil {
			result.Err = err
			return result
		}
	}

	sets := docset.Discover(sourceDir, p.Config)
	if len(sets) == 0 {
		result.Err = errors.NoDocSets(sourceDir)
		return result
	}
	slog.Info("Discovered documentation sets", "version", version, "count", len(sets))

	// Resolve every set's unit list up front: the label index must span the
	// whole release before any single page converts.
	setUnits := make([]labels.SetUnits, 0, len(sets))
	for _, set := range sets {
		units, err := structure.ResolveUnits(set.MainTex)
		if err != nil {
			slog.Warn("Include chain truncated", "set", set.Dir, "error", err)
		}
		setUnits = append(setUnits, labels.SetUnits{Set: set, Units: units})
	}
	index := labels.BuildIndex(setUnits)
	slog.Info("Built label index", "version", version, "labels", len(index))

	outDocs := filepath.Join(outputDir, "docs")
	assembler := site.NewAssembler(p.Config)

	navs := make([]site.SetNav, 0, len(sets))
	for _, su := range setUnits {
		slog.Info("Converting documentation set", "set", su.Set.Title)
		setResult := convert.DocSet(ctx, p.Converter, su.Set, su.Units, index, outDocs)
		result.Sets = append(result.Sets, setResult)

		for _, fr := range setResult.Files {
			p.Recorder.IncFileResult(su.Set.Slug, fr.Success())
		}
		slog.Info("Documentation set converted",
			"set", su.Set.Title, "ok", setResult.Successes(), "total", len(setResult.Files))

		if err := assembler.DocSetIndex(outDocs, su.Set); err != nil {
			result.Err = err
			return result
		}
		navs = append(navs, site.SetNav{Set: su.Set, Items: nav.Build(su.Units, su.Set.Slug)})
	}

	if err := assembler.VersionIndex(outDocs, version, sets); err != nil {
		result.Err = err
		return result
	}
	if !p.Config.Build.SkipSite {
		if err := assembler.Config(outputDir, version, navs); err != nil {
			result.Err = err
			return result
		}
	}

	slog.Info("Version converted",
		"version", version,
		"files_ok", result.TotalSuccesses(),
		"files_total", result.TotalFiles(),
		"duration", time.Since(started).Round(time.Millisecond))
	return result
}

// OutputDirFor returns the per-version build directory.
func OutputDirFor(cfg *config.Config, version string) string {
	return filepath.Join(cfg.Output.Directory, config.VersionShort(version))
}
