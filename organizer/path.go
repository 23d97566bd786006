package organizer

import "photoorganizer/metadata"

// DirectoryFinder looks up an existing date directory under a year
// directory of the output tree.
type DirectoryFinder interface {
	FindExistingDateDirectory(yearRel, prefix string) (string, bool)
}

// PathGenerator maps a date and file name to <year>/<date dir>/<name>. The
// date directory is YYYY-MM-DD unless the output tree already holds a
// directory starting with that string, e.g. 2025-10-28_special_event, in
// which case that name is reused.
type PathGenerator struct {
	dirs DirectoryFinder
}

// NewPathGenerator returns a generator; a nil finder disables reuse
func NewPathGenerator(dirs DirectoryFinder) *PathGenerator {
	return &PathGenerator{dirs: dirs}
}

// Generate returns the slash separated target path for filename, which
// must already be a base name.
func (g *PathGenerator) Generate(date metadata.Date, filename string) string {
	year := date.YearString()
	dir := date.String()
	if g.dirs != nil {
		if existing, ok := g.dirs.FindExistingDateDirectory(year, dir); ok {
			dir = existing
		}
	}
	return year + "/" + dir + "/" + filename
}
