package source

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// DirectoryReader reads photos from a directory tree. Names are relative to
// Root and slash separated, in lexical walk order.
type DirectoryReader struct {
	Root string
}

func (d *DirectoryReader) List() ([]Info, error) {
	var infos []Info
	err := d.walk(func(name, full string, de fs.DirEntry) error {
		info, err := de.Info()
		if err != nil {
			return err
		}
		infos = append(infos, Info{Name: name, Size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return infos, nil
}

func (d *DirectoryReader) ReadEntries() ([]Entry, error) {
	var entries []Entry
	err := d.walk(func(name, full string, _ fs.DirEntry) error {
		data, err := os.ReadFile(full)
		if err != nil {
			return err
		}
		entries = append(entries, Entry{Name: name, Data: data})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (d *DirectoryReader) walk(fn func(name, full string, de fs.DirEntry) error) error {
	err := filepath.WalkDir(d.Root, func(full string, de fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if de.IsDir() || !IsImageFile(de.Name()) {
			return nil
		}
		rel, err := filepath.Rel(d.Root, full)
		if err != nil {
			return err
		}
		return fn(filepath.ToSlash(rel), full, de)
	})
	if err != nil {
		return fmt.Errorf("read directory %s: %w", d.Root, err)
	}
	return nil
}
