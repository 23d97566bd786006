package source

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/klauspost/compress/zip"
)

type zipFile struct {
	name string
	data string
}

func writeTestZip(t *testing.T, files []zipFile) string {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range files {
		w, err := zw.Create(f.name)
		if err != nil {
			t.Fatalf("create zip entry: %v", err)
		}
		if _, err := w.Write([]byte(f.data)); err != nil {
			t.Fatalf("write zip entry: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	p := filepath.Join(t.TempDir(), "takeout.zip")
	if err := os.WriteFile(p, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write zip file: %v", err)
	}
	return p
}

// TestIsImageFile tests the extension allow-list
func TestIsImageFile(t *testing.T) {
	testCases := []struct {
		name     string
		expected bool
	}{
		{"photo.jpg", true},
		{"PHOTO.JPEG", true},
		{"shot.png", true},
		{"live.HEIC", true},
		{"live.heif", true},
		{"anim.gif", true},
		{"web.webp", true},
		{"old.bmp", true},
		{"scan.tiff", true},
		{"scan.TIF", true},
		{"Takeout/Photos/IMG_0001.jpg", true},
		{"metadata.json", false},
		{"clip.mp4", false},
		{"noextension", false},
		{"jpg", false},
	}
	for _, tc := range testCases {
		if got := IsImageFile(tc.name); got != tc.expected {
			t.Errorf("IsImageFile(%s) = %v, expected %v", tc.name, got, tc.expected)
		}
	}
}

// TestZipReaderReadEntries tests filtering and ordering of archive entries
func TestZipReaderReadEntries(t *testing.T) {
	p := writeTestZip(t, []zipFile{
		{"Takeout/", ""},
		{"Takeout/Google Photos/", ""},
		{"Takeout/Google Photos/IMG_0001.jpg", "one"},
		{"Takeout/Google Photos/IMG_0001.jpg.json", "{}"},
		{"Takeout/Google Photos/DSC_9157-edited.JPG", "two"},
		{"Takeout/archive_browser.html", "<html>"},
		{"Screenshot_2013-04-19-19-46-43.png", "three"},
	})

	reader, err := NewReader(p)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	if _, ok := reader.(*ZipReader); !ok {
		t.Fatalf("Expected *ZipReader, got %T", reader)
	}

	entries, err := reader.ReadEntries()
	if err != nil {
		t.Fatalf("ReadEntries failed: %v", err)
	}

	expected := []Entry{
		{Name: "Takeout/Google Photos/IMG_0001.jpg", Data: []byte("one")},
		{Name: "Takeout/Google Photos/DSC_9157-edited.JPG", Data: []byte("two")},
		{Name: "Screenshot_2013-04-19-19-46-43.png", Data: []byte("three")},
	}
	if !reflect.DeepEqual(entries, expected) {
		t.Errorf("ReadEntries = %+v, expected %+v", entries, expected)
	}
}

// TestZipReaderList tests that listing matches reading without loading data
func TestZipReaderList(t *testing.T) {
	p := writeTestZip(t, []zipFile{
		{"a.jpg", "12345"},
		{"notes.txt", "ignored"},
		{"b.gif", "xy"},
	})

	infos, err := List(&ZipReader{Path: p})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	expected := []Info{{Name: "a.jpg", Size: 5}, {Name: "b.gif", Size: 2}}
	if !reflect.DeepEqual(infos, expected) {
		t.Errorf("List = %+v, expected %+v", infos, expected)
	}
	if got := Names(infos); !reflect.DeepEqual(got, []string{"a.jpg", "b.gif"}) {
		t.Errorf("Names = %v", got)
	}
	if total := TotalSize(infos); total != 7 {
		t.Errorf("TotalSize = %d, expected 7", total)
	}
}

// TestZipReaderCorruptArchive tests that an unreadable container is an error
func TestZipReaderCorruptArchive(t *testing.T) {
	p := filepath.Join(t.TempDir(), "broken.zip")
	if err := os.WriteFile(p, []byte("this is not a zip archive"), 0o644); err != nil {
		t.Fatal(err)
	}

	reader := &ZipReader{Path: p}
	if _, err := reader.ReadEntries(); err == nil {
		t.Error("Expected error reading corrupt archive")
	}
	if _, err := reader.List(); err == nil {
		t.Error("Expected error listing corrupt archive")
	}
}

// TestNewReaderMissingPath tests that a missing source is reported up front
func TestNewReaderMissingPath(t *testing.T) {
	if _, err := NewReader(filepath.Join(t.TempDir(), "missing.zip")); err == nil {
		t.Error("Expected error for missing source")
	}
}

// TestDirectoryReader tests walking a directory tree
func TestDirectoryReader(t *testing.T) {
	root := t.TempDir()
	files := map[string]string{
		"b.jpg":                   "bee",
		"a.PNG":                   "ay",
		"notes.txt":               "skip",
		"2019 trip/IMG_0001.jpeg": "trip",
		"2019 trip/sub/clip.mp4":  "skip",
		"2019 trip/sub/scan.tif":  "scan",
	}
	for name, data := range files {
		full := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(data), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	reader, err := NewReader(root)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	if _, ok := reader.(*DirectoryReader); !ok {
		t.Fatalf("Expected *DirectoryReader, got %T", reader)
	}

	entries, err := reader.ReadEntries()
	if err != nil {
		t.Fatalf("ReadEntries failed: %v", err)
	}
	expected := []Entry{
		{Name: "2019 trip/IMG_0001.jpeg", Data: []byte("trip")},
		{Name: "2019 trip/sub/scan.tif", Data: []byte("scan")},
		{Name: "a.PNG", Data: []byte("ay")},
		{Name: "b.jpg", Data: []byte("bee")},
	}
	if !reflect.DeepEqual(entries, expected) {
		t.Errorf("ReadEntries = %+v, expected %+v", entries, expected)
	}

	infos, err := List(reader)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(infos) != len(expected) {
		t.Fatalf("List returned %d entries, expected %d", len(infos), len(expected))
	}
	for i, info := range infos {
		if info.Name != expected[i].Name || info.Size != int64(len(expected[i].Data)) {
			t.Errorf("List[%d] = %+v", i, info)
		}
	}
}

// TestDirectoryReaderEmpty tests an empty tree
func TestDirectoryReaderEmpty(t *testing.T) {
	entries, err := (&DirectoryReader{Root: t.TempDir()}).ReadEntries()
	if err != nil {
		t.Fatalf("ReadEntries failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected no entries, got %d", len(entries))
	}
}

type memoryReader []Entry

func (m memoryReader) ReadEntries() ([]Entry, error) { return m, nil }

// TestListFallsBackToReadEntries tests List on a reader without a Lister
func TestListFallsBackToReadEntries(t *testing.T) {
	infos, err := List(memoryReader{{Name: "x.jpg", Data: []byte("abc")}})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if !reflect.DeepEqual(infos, []Info{{Name: "x.jpg", Size: 3}}) {
		t.Errorf("List = %+v", infos)
	}
}

// TestBaseName tests stripping of archive-internal directories
func TestBaseName(t *testing.T) {
	testCases := map[string]string{
		"photo.jpg":                               "photo.jpg",
		"Takeout/Google Photos/IMG_0001.jpg":      "IMG_0001.jpg",
		`Takeout\Photos from 2013\Screenshot.png`: "Screenshot.png",
	}
	for in, expected := range testCases {
		if got := BaseName(in); got != expected {
			t.Errorf("BaseName(%s) = %s, expected %s", in, got, expected)
		}
	}
}
