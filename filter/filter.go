// Package filter decides which photos of a source collection are worth
// organizing and which are derivatives of, or duplicates of, photos kept elsewhere.
package filter

import (
	"path"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"photoorganizer/metadata"
)

// DerivativeMarkers are the filename fragments Google Photos and phone
// galleries append to generated variants of a photo.
var DerivativeMarkers = []string{
	"-MIX",
	"-EDITED",
	"-EFFECTS",
	"-ANIMATION",
	"-COLLAGE",
	"-SMILE",
	"-PANO",
}

var markerPattern = compileMarkers(DerivativeMarkers)

func compileMarkers(markers []string) *regexp.Regexp {
	quoted := make([]string, len(markers))
	for i, m := range markers {
		quoted[i] = regexp.QuoteMeta(m)
	}
	return regexp.MustCompile(`(?i)(?:` + strings.Join(quoted, "|") + `)`)
}

// PhotoFilter decides whether a photo should be organized
type PhotoFilter interface {
	ShouldInclude(filename string, data []byte) bool
}

// NoFilter accepts every photo
type NoFilter struct{}

func (NoFilter) ShouldInclude(string, []byte) bool {
	return true
}

// ExistingCollectionFilter skips photos that already live in another
// collection: GIFs, derivatives whose original is present, Lightroom exports
// and Nikon DSLR shots.
type ExistingCollectionFilter struct {
	names    map[string]struct{}
	readTags func([]byte) metadata.CameraTags
}

// NewExistingCollectionFilter indexes the full list of source names. The
// list must be complete before any entry is evaluated.
func NewExistingCollectionFilter(allNames []string) *ExistingCollectionFilter {
	names := make(map[string]struct{}, len(allNames))
	for _, n := range allNames {
		names[normalize(n)] = struct{}{}
	}
	return &ExistingCollectionFilter{
		names:    names,
		readTags: metadata.ReadCameraTags,
	}
}

// ShouldInclude evaluates the rules in order; the first one that applies decides.
func (f *ExistingCollectionFilter) ShouldInclude(filename string, data []byte) bool {
	if IsGIF(filename) {
		return false
	}

	if IsDerivative(filename) {
		// A derivative with no original is the only copy; keep it.
		return !f.Contains(OriginalName(filename))
	}

	tags := f.readTags(data)
	if strings.Contains(strings.ToLower(tags.Software), "lightroom") {
		return false
	}
	if strings.Contains(strings.ToUpper(tags.Make), "NIKON") ||
		strings.Contains(strings.ToUpper(tags.Model), "NIKON") {
		return false
	}
	return true
}

// Contains reports whether name is part of the source collection
func (f *ExistingCollectionFilter) Contains(name string) bool {
	_, ok := f.names[normalize(name)]
	return ok
}

// IsGIF reports whether filename has a .gif extension (any case)
func IsGIF(filename string) bool {
	return strings.EqualFold(path.Ext(filename), ".gif")
}

// IsDerivative reports whether filename carries any derivative marker
func IsDerivative(filename string) bool {
	return markerPattern.MatchString(normalize(filename))
}

// OriginalName strips every occurrence of every marker from filename.
// Markers are removed wherever they appear, including inside directory
// segments or mid-name.
func OriginalName(filename string) string {
	return markerPattern.ReplaceAllString(normalize(filename), "")
}

// OrphanedDerivatives lists, in input order, the non-GIF derivative names
// whose original is absent from names.
func OrphanedDerivatives(names []string) []string {
	f := NewExistingCollectionFilter(names)
	var orphans []string
	for _, n := range names {
		if IsGIF(n) || !IsDerivative(n) {
			continue
		}
		if !f.Contains(OriginalName(n)) {
			orphans = append(orphans, n)
		}
	}
	return orphans
}

// normalize folds names to NFC so archives built on macOS (NFD) compare
// equal to the same names typed elsewhere.
func normalize(name string) string {
	return norm.NFC.String(name)
}
