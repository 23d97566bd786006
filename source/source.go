// Package source enumerates candidate photos from a zip export or a directory tree.
package source

import (
	"fmt"
	"os"
	"path"
	"strings"
)

// imageExtensions are the file types considered photos (lower case, with dot)
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".heic": true,
	".heif": true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
	".tiff": true,
	".tif":  true,
}

// Entry is one photo as stored in the source. Name keeps any nested
// directory segments, always slash separated.
type Entry struct {
	Name string
	Data []byte
}

// Info describes an entry without its content
type Info struct {
	Name string
	Size int64
}

// Reader returns every photo entry in source order
type Reader interface {
	ReadEntries() ([]Entry, error)
}

// Lister is implemented by readers that can enumerate entries without
// loading their content.
type Lister interface {
	List() ([]Info, error)
}

// NewReader picks the reader variant for path: a directory tree or a zip archive.
func NewReader(p string) (Reader, error) {
	info, err := os.Stat(p)
	if err != nil {
		return nil, fmt.Errorf("open source %s: %w", p, err)
	}
	if info.IsDir() {
		return &DirectoryReader{Root: p}, nil
	}
	return &ZipReader{Path: p}, nil
}

// IsImageFile reports whether name has a known photo extension (any case)
func IsImageFile(name string) bool {
	return imageExtensions[strings.ToLower(path.Ext(name))]
}

// BaseName returns the last segment of an entry name. Archives built on
// Windows sometimes carry backslash separators.
func BaseName(name string) string {
	return path.Base(strings.ReplaceAll(name, `\`, "/"))
}

// List enumerates r without content when possible, falling back to a full read.
func List(r Reader) ([]Info, error) {
	if l, ok := r.(Lister); ok {
		return l.List()
	}
	entries, err := r.ReadEntries()
	if err != nil {
		return nil, err
	}
	infos := make([]Info, len(entries))
	for i, e := range entries {
		infos[i] = Info{Name: e.Name, Size: int64(len(e.Data))}
	}
	return infos, nil
}

// Names returns just the entry names of infos, in order
func Names(infos []Info) []string {
	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = info.Name
	}
	return names
}

// TotalSize sums the content size of infos
func TotalSize(infos []Info) int64 {
	var total int64
	for _, info := range infos {
		total += info.Size
	}
	return total
}
