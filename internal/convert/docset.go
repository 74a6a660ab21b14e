package convert

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/texsite/texsite/internal/docset"
	"github.com/texsite/texsite/internal/errors"
	"github.com/texsite/texsite/internal/labels"
	"github.com/texsite/texsite/internal/latex"
	"github.com/texsite/texsite/internal/markdown"
	"github.com/texsite/texsite/internal/structure"
	"github.com/texsite/texsite/internal/xref"
)

// FileResult records the outcome of converting one content unit.
type FileResult struct {
	Source   string
	Output   string
	Err      error
	Warnings []string
}

// Success reports whether the unit produced an output page.
func (r FileResult) Success() bool { return r.Err == nil }

// SetResult aggregates the file results of one documentation set.
type SetResult struct {
	Set   docset.DocSet
	Files []FileResult
}

// Successes counts converted files.
func (r SetResult) Successes() int {
	n := 0
	for _, f := range r.Files {
		if f.Success() {
			n++
		}
	}
	return n
}

// Failures counts files that produced no output.
func (r SetResult) Failures() int { return len(r.Files) - r.Successes() }

// imageExtensions are the media file types copied alongside the pages.
var imageExtensions = map[string]struct{}{
	".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".svg": {}, ".webp": {},
}

// DocSet converts every unit of one documentation set under outDocs, copies
// the set's media files, and appends child tables of contents to parent
// pages. The label index must already cover the whole release so that
// cross-set references resolve.
func DocSet(ctx context.Context, conv Converter, set docset.DocSet, units []structure.ContentUnit, index labels.Index, outDocs string) SetResult {
	result := SetResult{Set: set}

	if err := copyMedia(set, outDocs); err != nil {
		slog.Warn("Media copy incomplete", "set", set.Dir, "error", err)
	}

	parents := structure.ParentSet(units)

	for _, u := range units {
		if u.IsSentinel() {
			continue
		}

		isParent := parents[u.RelPath]
		outputRel := structure.OutputPath(set.Slug, u, isParent)
		fr := convertUnit(ctx, conv, u, index, outputRel, filepath.Join(outDocs, outputRel), isParent)

		if fr.Success() && isParent {
			if err := appendChildTOC(filepath.Join(outDocs, outputRel), u, units, parents); err != nil {
				fr.Warnings = append(fr.Warnings, fmt.Sprintf("child toc: %v", err))
			}
		}

		result.Files = append(result.Files, fr)

		if !fr.Success() {
			slog.Warn("Conversion failed", "source", fr.Source, "error", fr.Err)
		}
		for _, w := range fr.Warnings {
			slog.Debug("Conversion warning", "source", fr.Source, "warning", w)
		}
	}
	return result
}

// convertUnit runs the full chain for one unit: preprocess, pandoc, resolve
// references, postprocess, write.
func convertUnit(ctx context.Context, conv Converter, u structure.ContentUnit, index labels.Index, outputRel, outputAbs string, isParent bool) FileResult {
	fr := FileResult{Source: u.SourcePath, Output: outputAbs}

	data, err := os.ReadFile(u.SourcePath)
	if err != nil {
		fr.Err = errors.Wrap(err, errors.CategoryConvert, errors.SeverityError,
			"source file not readable").WithContext("source", u.SourcePath)
		return fr
	}

	text := latex.Preprocess(string(data), u.SourcePath)

	md, warnings, err := conv.Convert(ctx, text)
	fr.Warnings = warnings
	if err != nil {
		fr.Err = errors.PandocFailed(u.SourcePath, err)
		return fr
	}

	md = xref.Resolve(md, index, outputRel)
	md = markdown.Postprocess(md, "", structure.RelDepth(u, isParent))

	if err := os.MkdirAll(filepath.Dir(outputAbs), 0o755); err != nil {
		fr.Err = err
		return fr
	}
	if err := os.WriteFile(outputAbs, []byte(md), 0o644); err != nil {
		fr.Err = err
		return fr
	}
	return fr
}

// appendChildTOC adds a contents list to a parent page, linking each unit
// nested below it. Parent sources carry little besides their chapter heading
// once include directives are stripped, so without this the chapter landing
// page would be empty.
func appendChildTOC(parentPath string, parent structure.ContentUnit, units []structure.ContentUnit, parents map[string]bool) error {
	prefix := parent.RelPath + "/"

	lines := []string{"", "## Contents", ""}
	for _, child := range units {
		if child.IsSentinel() || !strings.HasPrefix(child.RelPath, prefix) {
			continue
		}
		title, _ := structure.ExtractHeading(child.SourcePath)
		// The parent page lives inside a directory named after the parent,
		// so links are relative to that directory.
		rest := strings.TrimPrefix(child.RelPath, prefix)
		if parents[child.RelPath] {
			rest += "/index.md"
		} else {
			rest += ".md"
		}
		lines = append(lines, fmt.Sprintf("- [%s](%s)", title, rest))
	}
	if len(lines) <= 3 {
		return nil
	}

	existing, err := os.ReadFile(parentPath)
	if err != nil {
		return err
	}
	content := strings.TrimRight(string(existing), "\n") + "\n" + strings.Join(lines, "\n") + "\n"
	return os.WriteFile(parentPath, []byte(content), 0o644)
}

// copyMedia copies the set's image files into <outDocs>/<slug>/media.
func copyMedia(set docset.DocSet, outDocs string) error {
	entries, err := os.ReadDir(set.MediaDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	dst := filepath.Join(outDocs, set.Slug, "media")
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if _, ok := imageExtensions[ext]; !ok {
			continue
		}
		if err := copyFile(filepath.Join(set.MediaDir(), entry.Name()), filepath.Join(dst, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
