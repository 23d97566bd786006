// photo-organizer: Tests for the command-line layer
package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/klauspost/compress/zip"

	"photoorganizer/config"
	"photoorganizer/organizer"
	"photoorganizer/testsupport"
)

func init() {
	color.NoColor = true
}

// writeTakeout builds a zip export with a photo, its edited copy, an orphaned
// edit, a GIF and a file without any date
func writeTakeout(t *testing.T) string {
	t.Helper()
	files := []struct {
		name string
		data []byte
	}{
		{"Takeout/Google Photos/", nil},
		{"Takeout/Google Photos/DSC_9157.JPG", testsupport.JPEGWithEXIF(testsupport.EXIFTags{Make: "Apple", DateTimeOriginal: "2012:10:06 13:09:32"})},
		{"Takeout/Google Photos/DSC_9157-edited.JPG", testsupport.JPEGWithEXIF(testsupport.EXIFTags{DateTimeOriginal: "2012:10:06 13:09:32"})},
		{"Takeout/Google Photos/IMG_0001-MIX.jpg", testsupport.JPEGWithEXIF(testsupport.EXIFTags{DateTimeOriginal: "2019:05:01 10:00:00"})},
		{"Takeout/Google Photos/Screenshot_2013-04-19-19-46-43.png", []byte("png")},
		{"Takeout/Google Photos/loop.gif", []byte("GIF89a")},
		{"Takeout/Google Photos/holiday.jpg", testsupport.MinimalJPEG},
		{"Takeout/Google Photos/metadata.json", []byte("{}")},
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range files {
		w, err := zw.Create(f.name)
		if err != nil {
			t.Fatalf("create zip entry: %v", err)
		}
		if _, err := w.Write(f.data); err != nil {
			t.Fatalf("write zip entry: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	p := filepath.Join(t.TempDir(), "takeout.zip")
	if err := os.WriteFile(p, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write zip: %v", err)
	}
	return p
}

// TestRunOrganizeZip tests a full run from a zip export with a report
func TestRunOrganizeZip(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "organized")
	reportPath := filepath.Join(t.TempDir(), "report.html")
	cfg := &config.Config{Input: writeTakeout(t), Output: outDir, ReportPath: reportPath}

	var out bytes.Buffer
	if err := runOrganize(cfg, &out); err != nil {
		t.Fatalf("runOrganize failed: %v", err)
	}

	for _, rel := range []string{
		"2012/2012-10-06/DSC_9157.JPG",
		"2019/2019-05-01/IMG_0001-MIX.jpg",
		"2013/2013-04-19/Screenshot_2013-04-19-19-46-43.png",
	} {
		if _, err := os.Stat(filepath.Join(outDir, filepath.FromSlash(rel))); err != nil {
			t.Errorf("Expected %s to be written: %v", rel, err)
		}
	}
	if _, err := os.Stat(filepath.Join(outDir, "2012", "2012-10-06", "DSC_9157-edited.JPG")); !os.IsNotExist(err) {
		t.Error("Edited copy should have been filtered")
	}

	text := out.String()
	for _, want := range []string{
		"Takeout/Google Photos/DSC_9157.JPG: copied to ",
		"Takeout/Google Photos/DSC_9157-edited.JPG: filtered out",
		"Takeout/Google Photos/loop.gif: filtered out",
		"Takeout/Google Photos/holiday.jpg: error - ",
		"✓ Organization complete!",
		"Errors:",
		"✔ All files accounted for!",
		"HTML report: ",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Output missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "metadata.json") {
		t.Error("Non-image entries should not be listed")
	}

	report, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("Report not written: %v", err)
	}
	if !strings.Contains(string(report), "holiday.jpg") {
		t.Error("Report should list the failed entry")
	}
}

// TestRunOrganizeDryRun tests that a dry run leaves the output untouched
func TestRunOrganizeDryRun(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "organized")
	cfg := &config.Config{Input: writeTakeout(t), Output: outDir, DryRun: true, NoFilter: true}

	var out bytes.Buffer
	if err := runOrganize(cfg, &out); err != nil {
		t.Fatalf("runOrganize failed: %v", err)
	}
	if _, err := os.Stat(outDir); !os.IsNotExist(err) {
		t.Errorf("Dry run created the output directory: %v", err)
	}
	text := out.String()
	if !strings.Contains(text, "DSC_9157-edited.JPG: would copy to ") {
		t.Errorf("Expected unfiltered dry-run line:\n%s", text)
	}
	if !strings.Contains(text, "✓ Dry run complete!") {
		t.Errorf("Expected dry-run summary:\n%s", text)
	}
}

// TestRunOrganizeMissingSource tests that an unreadable source is fatal
func TestRunOrganizeMissingSource(t *testing.T) {
	cfg := &config.Config{Input: filepath.Join(t.TempDir(), "missing.zip"), Output: t.TempDir()}
	if err := runOrganize(cfg, &bytes.Buffer{}); err == nil {
		t.Error("Expected error for missing source")
	}

	corrupt := filepath.Join(t.TempDir(), "corrupt.zip")
	if err := os.WriteFile(corrupt, []byte("not a zip"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg.Input = corrupt
	if err := runOrganize(cfg, &bytes.Buffer{}); err == nil {
		t.Error("Expected error for corrupt archive")
	}
}

// TestListOrphans tests the orphans subcommand output
func TestListOrphans(t *testing.T) {
	var out bytes.Buffer
	if err := listOrphans(writeTakeout(t), &out); err != nil {
		t.Fatalf("listOrphans failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 || lines[0] != "Takeout/Google Photos/IMG_0001-MIX.jpg" {
		t.Errorf("Unexpected orphan listing:\n%s", out.String())
	}

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.jpg"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	out.Reset()
	if err := listOrphans(dir, &out); err != nil {
		t.Fatalf("listOrphans failed: %v", err)
	}
	if !strings.Contains(out.String(), "No orphaned derivatives") {
		t.Errorf("Unexpected output: %s", out.String())
	}
}

// TestRootCommandFlags tests flag parsing through cobra
func TestRootCommandFlags(t *testing.T) {
	for _, key := range []string{config.EnvInput, config.EnvOutput, config.EnvNoFilter, config.EnvReport} {
		t.Setenv(key, "")
	}
	t.Chdir(t.TempDir())

	input := writeTakeout(t)
	outDir := filepath.Join(t.TempDir(), "out")

	cmd := newRootCmd()
	cmd.SetArgs([]string{"-i", input, "-o", outDir, "-n", "--no-color"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	// with the filter off the edited copy is organized too
	if _, err := os.Stat(filepath.Join(outDir, "2012", "2012-10-06", "DSC_9157-edited.JPG")); err != nil {
		t.Errorf("Expected unfiltered edit to be written: %v", err)
	}
}

// TestRootCommandRequiresInput tests config validation through cobra
func TestRootCommandRequiresInput(t *testing.T) {
	for _, key := range []string{config.EnvInput, config.EnvOutput, config.EnvNoFilter, config.EnvReport} {
		t.Setenv(key, "")
	}
	t.Chdir(t.TempDir())

	cmd := newRootCmd()
	cmd.SetArgs([]string{"-o", t.TempDir()})
	err := cmd.Execute()
	var cfgErr *config.Error
	if !errors.As(err, &cfgErr) || cfgErr.Field != "input" {
		t.Errorf("Expected input config error, got %v", err)
	}
}

// TestEntryLine tests the per-entry progress lines
func TestEntryLine(t *testing.T) {
	testCases := []struct {
		result   organizer.EntryResult
		dryRun   bool
		expected string
	}{
		{organizer.EntryResult{Name: "a.jpg", State: organizer.StateOrganized, FullPath: "/out/2012/2012-10-06/a.jpg"}, false, "a.jpg: copied to /out/2012/2012-10-06/a.jpg"},
		{organizer.EntryResult{Name: "a.jpg", State: organizer.StateOrganized, FullPath: "/out/a.jpg"}, true, "a.jpg: would copy to /out/a.jpg"},
		{organizer.EntryResult{Name: "b-edited.jpg", State: organizer.StateSkippedFiltered}, false, "b-edited.jpg: filtered out"},
		{organizer.EntryResult{Name: "c.jpg", State: organizer.StateErrorWrite, Err: errors.New("disk full")}, false, "c.jpg: error - disk full"},
		{organizer.EntryResult{Name: "d.jpg", State: organizer.StateErrorDate}, false, "d.jpg: error (date extraction)"},
	}
	for _, tc := range testCases {
		if got := entryLine(tc.result, tc.dryRun); got != tc.expected {
			t.Errorf("entryLine = %q, expected %q", got, tc.expected)
		}
	}
}

// TestPrintSummary tests the summary block
func TestPrintSummary(t *testing.T) {
	result := organizer.Summarize([]organizer.EntryResult{
		{Name: "a.jpg", State: organizer.StateOrganized, Size: 2048},
		{Name: "b-edited.jpg", State: organizer.StateSkippedFiltered},
		{Name: "holiday.jpg", State: organizer.StateErrorDate, Err: errors.New("no date in file name")},
	})

	var out bytes.Buffer
	printSummary(&out, &result, runInfo{ID: "run-1234"})
	text := out.String()

	for _, want := range []string{
		"✓ Organization complete!",
		"Total files",
		"Organized",
		"Skipped",
		"2.0 KB",
		"Errors:",
		"  - holiday.jpg: no date in file name",
		"✔ All files accounted for!",
		"Run ID: run-1234",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Summary missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "HTML report") {
		t.Error("No report link expected without a report")
	}
}

// TestRenderHTMLReport tests report content and escaping
func TestRenderHTMLReport(t *testing.T) {
	result := organizer.Summarize([]organizer.EntryResult{
		{Name: "<script>.jpg", State: organizer.StateOrganized, TargetPath: "2012/2012-10-06/<script>.jpg", FullPath: "/out/2012/2012-10-06/<script>.jpg", Size: 10},
		{Name: "b-edited.jpg", State: organizer.StateSkippedFiltered},
		{Name: "c.jpg", State: organizer.StateErrorWrite, Err: errors.New("disk & full")},
	})
	result.Duration = 1500 * time.Millisecond

	var buf bytes.Buffer
	renderHTMLReport(&buf, &result, runInfo{ID: "run-42", Input: "in.zip", Output: "out", Filtered: true, Started: time.Now()})
	report := buf.String()

	if strings.Contains(report, "<script>.jpg") {
		t.Error("Entry names must be escaped")
	}
	for _, want := range []string{
		"&lt;script&gt;.jpg",
		"disk &amp; full",
		`data-status="organized"`,
		`data-status="filtered"`,
		`data-status="error"`,
		"run-42",
		"filter on",
		"1.5s",
		"</html>",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("Report missing %q", want)
		}
	}
}

// TestWriteHTMLReportFailure tests that an unwritable report is not fatal
func TestWriteHTMLReportFailure(t *testing.T) {
	result := organizer.Summarize(nil)
	path := filepath.Join(t.TempDir(), "missing", "report.html")
	if writeHTMLReport(path, &result, runInfo{}) {
		t.Error("Expected report write to fail")
	}
}

// TestFormatFileSize tests the human-readable sizes
func TestFormatFileSize(t *testing.T) {
	testCases := map[int64]string{
		0:               "-",
		512:             "512 B",
		2048:            "2.0 KB",
		5 * 1024 * 1024: "5.0 MB",
		3 << 30:         "3.0 GB",
	}
	for in, expected := range testCases {
		if got := formatFileSize(in); got != expected {
			t.Errorf("formatFileSize(%d) = %s, expected %s", in, got, expected)
		}
	}
}

// TestFreeSpace tests the free space lookup and the ancestor lookup
func TestFreeSpace(t *testing.T) {
	dir := t.TempDir()
	if got := existingAncestor(filepath.Join(dir, "not", "yet", "created")); got != dir {
		t.Errorf("existingAncestor = %s, expected %s", got, dir)
	}

	free, err := getFreeSpace(dir)
	if err != nil {
		t.Skipf("free space unavailable: %v", err)
	}
	if free == 0 {
		t.Error("Expected some free space in the temp directory")
	}

	var out bytes.Buffer
	checkFreeSpace(&out, dir, 1)
	if out.Len() != 0 {
		t.Errorf("Unexpected warning: %s", out.String())
	}
	checkFreeSpace(&out, dir, 1<<62)
	if !strings.Contains(out.String(), "may run out of space") {
		t.Errorf("Expected warning, got %q", out.String())
	}
}
