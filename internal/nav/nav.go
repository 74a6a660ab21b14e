// Package nav turns a documentation set's ordered unit list into the
// two-level chapter/section tree the site navigation is built from.
package nav

import (
	"github.com/texsite/texsite/internal/structure"
)

// Item is one navigation entry. Children are only ever one level deep.
type Item struct {
	Title    string
	Path     string
	Children []Item
}

// Build walks the unit list once. A depth-0 unit opens a new top-level item;
// every deeper unit attaches to the most recently opened top-level item, or
// becomes a top-level item itself when no chapter precedes it. The sentinel
// cover unit is skipped. Units without a heading fall back to their
// filename-derived title, so a single unreadable file never aborts the pass.
func Build(units []structure.ContentUnit, slug string) []Item {
	parents := structure.ParentSet(units)

	var items []Item
	current := -1 // index of the open top-level item
	for _, u := range units {
		if u.IsSentinel() {
			continue
		}
		title, _ := structure.ExtractHeading(u.SourcePath)
		item := Item{
			Title: title,
			Path:  structure.OutputPath(slug, u, parents[u.RelPath]),
		}

		if u.Depth == 0 {
			items = append(items, item)
			current = len(items) - 1
			continue
		}
		if current >= 0 {
			items[current].Children = append(items[current].Children, item)
		} else {
			// Orphan section with no preceding chapter.
			items = append(items, item)
		}
	}
	return items
}
