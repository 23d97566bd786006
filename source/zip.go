package source

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/zip"
)

// ZipReader reads photos from a zip archive such as a Google Takeout export.
// Directory entries and non-image files are skipped.
type ZipReader struct {
	Path string
}

func (z *ZipReader) List() ([]Info, error) {
	zr, err := zip.OpenReader(z.Path)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", z.Path, err)
	}
	defer zr.Close()

	var infos []Info
	for _, f := range zr.File {
		if !isPhotoFile(f) {
			continue
		}
		infos = append(infos, Info{Name: f.Name, Size: int64(f.UncompressedSize64)})
	}
	return infos, nil
}

func (z *ZipReader) ReadEntries() ([]Entry, error) {
	zr, err := zip.OpenReader(z.Path)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", z.Path, err)
	}
	defer zr.Close()

	var entries []Entry
	for _, f := range zr.File {
		if !isPhotoFile(f) {
			continue
		}
		data, err := readZipFile(f)
		if err != nil {
			return nil, fmt.Errorf("read archive entry %s: %w", f.Name, err)
		}
		entries = append(entries, Entry{Name: f.Name, Data: data})
	}
	return entries, nil
}

func isPhotoFile(f *zip.File) bool {
	return !f.FileInfo().IsDir() && IsImageFile(f.Name)
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
