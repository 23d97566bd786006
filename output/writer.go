// Package output writes organized photos into the target tree.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Writer is the output side of an organize run. Paths are relative to the
// output root and slash separated.
type Writer interface {
	WriteFile(rel string, data []byte) error
	CreateDirectory(rel string) error
	FullPath(rel string) string
	FindExistingDateDirectory(yearRel, prefix string) (string, bool)
}

// FSWriter writes into a directory on the local filesystem
type FSWriter struct {
	Root string
}

func NewFSWriter(root string) *FSWriter {
	return &FSWriter{Root: root}
}

// WriteFile replaces any existing file at rel. Data goes to a temp file in
// the destination directory first and is renamed into place, so an
// interrupted run never leaves a truncated photo behind.
func (w *FSWriter) WriteFile(rel string, data []byte) error {
	dst := w.path(rel)
	tmp := dst + ".tmp"

	out, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmp, err)
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		os.Remove(tmp)
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := out.Sync(); err != nil {
		out.Close()
		os.Remove(tmp)
		return fmt.Errorf("sync %s: %w", tmp, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", dst, err)
	}
	return nil
}

// CreateDirectory creates rel and its parents; an existing directory is not an error.
func (w *FSWriter) CreateDirectory(rel string) error {
	if err := os.MkdirAll(w.path(rel), 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", rel, err)
	}
	return nil
}

// FullPath returns the absolute location of rel, for display
func (w *FSWriter) FullPath(rel string) string {
	p := w.path(rel)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// FindExistingDateDirectory returns the first directory under yearRel, in
// name order, whose name starts with prefix. A missing year directory
// simply means no match.
func (w *FSWriter) FindExistingDateDirectory(yearRel, prefix string) (string, bool) {
	entries, err := os.ReadDir(w.path(yearRel))
	if err != nil {
		return "", false
	}
	for _, e := range entries {
		if e.IsDir() && strings.HasPrefix(e.Name(), prefix) {
			return e.Name(), true
		}
	}
	return "", false
}

func (w *FSWriter) path(rel string) string {
	return filepath.Join(w.Root, filepath.FromSlash(rel))
}
