// Package structure builds the structural model of a documentation set: the
// ordered list of content units discovered by following the include chain of
// the set's root document, and the heading metadata of each unit.
package structure

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/texsite/texsite/internal/errors"
)

// ContentUnit is one source document constituting a single page of output.
type ContentUnit struct {
	// Input is the raw include path as written in the source, e.g. "src/overview".
	Input string
	// RelPath is the include hierarchy with the structural "src/" prefix
	// stripped, e.g. "overview/what-is-energyplus".
	RelPath string
	// SourcePath is the absolute path of the .tex file.
	SourcePath string
	// Depth is the number of RelPath segments minus one: 0 for chapters,
	// 1 and up for sections nested below them.
	Depth int
}

// IsSentinel reports whether the unit is the reserved cover/title entry,
// which is never converted or navigated to.
func (u ContentUnit) IsSentinel() bool {
	return u.Input == "src/title" || strings.HasSuffix(u.Input, "/title")
}

var inputRe = regexp.MustCompile(`\\input\{(src/[^}]+)\}`)

// ResolveUnits parses \input{src/...} entries from the doc set's main .tex
// file, recursively, and returns the flat unit list in document order.
//
// Chapter-level files that themselves contain \input directives are included
// before their children, so consumers always see a parent before any of its
// descendants. Include paths resolve against the doc-set root on every level
// of recursion; a child never becomes the resolution base. Cyclic includes
// are reported as an error instead of recursing forever.
func ResolveUnits(mainTex string) ([]ContentUnit, error) {
	root := filepath.Dir(mainTex)
	visited := map[string]struct{}{mainTex: {}}
	return resolve(mainTex, root, visited)
}

func resolve(texPath, root string, visited map[string]struct{}) ([]ContentUnit, error) {
	data, err := os.ReadFile(texPath)
	if err != nil {
		// Missing include targets are tolerated; conversion reports them later.
		return nil, nil
	}
	text := string(data)

	var units []ContentUnit
	for _, m := range inputRe.FindAllStringSubmatch(text, -1) {
		rel := m[1]
		childTex := filepath.Join(root, rel+".tex")
		units = append(units, newUnit(rel, childTex))

		childData, err := os.ReadFile(childTex)
		if err != nil {
			continue
		}
		if !strings.Contains(string(childData), `\input{src/`) {
			continue
		}
		if _, seen := visited[childTex]; seen {
			return units, errors.CyclicInclude(rel)
		}
		visited[childTex] = struct{}{}

		children, err := resolve(childTex, root, visited)
		if err != nil {
			return units, err
		}
		units = append(units, children...)
	}
	return units, nil
}

func newUnit(input, sourcePath string) ContentUnit {
	rel := strings.TrimPrefix(input, "src/")
	return ContentUnit{
		Input:      input,
		RelPath:    rel,
		SourcePath: sourcePath,
		Depth:      strings.Count(rel, "/"),
	}
}

// ParentSet returns the relative paths of units that have children in the
// unit list: units whose RelPath is the leading segment chain of a deeper
// unit. Parent units map to index pages instead of plain files.
func ParentSet(units []ContentUnit) map[string]bool {
	parents := make(map[string]bool)
	for _, u := range units {
		if i := strings.LastIndex(u.RelPath, "/"); i > 0 {
			parents[u.RelPath[:i]] = true
		}
	}
	return parents
}

// OutputPath computes the output document path of a unit within its doc set.
// Leaf units map to <slug>/<rel>.md; parent units map to an index page
// inside a folder named after the unit so the section URL itself resolves.
func OutputPath(slug string, u ContentUnit, isParent bool) string {
	if isParent {
		return slug + "/" + u.RelPath + "/index.md"
	}
	return slug + "/" + u.RelPath + ".md"
}

// RelDepth is the number of directory levels between the unit's output file
// and the doc-set root, used to rewrite asset paths.
func RelDepth(u ContentUnit, isParent bool) int {
	if isParent {
		return strings.Count(u.RelPath, "/") + 1
	}
	return strings.Count(u.RelPath, "/")
}
