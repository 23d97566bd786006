// photo-organizer: Sorts photo exports into year/date folders with duplicate filtering.
package main

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"photoorganizer/organizer"
)

// writeHTMLReport writes the run report to path. Failures are logged and
// reported back so the caller can skip the link; they never fail the run.
func writeHTMLReport(path string, result *organizer.Result, run runInfo) bool {
	f, err := os.Create(path)
	if err != nil {
		log.Printf("Could not create report: %v", err)
		return false
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	renderHTMLReport(w, result, run)
	if err := w.Flush(); err != nil {
		log.Printf("Could not write report: %v", err)
		return false
	}
	return true
}

// renderHTMLReport renders the report: header, summary cards, entry table
func renderHTMLReport(w io.Writer, result *organizer.Result, run runInfo) {
	writeHTMLHeader(w, run)
	writeSummaryCards(w, result)
	writeEntryTable(w, result)
	io.WriteString(w, "\n    </div>\n</body>\n</html>\n")
}

func writeHTMLHeader(w io.Writer, run runInfo) {
	io.WriteString(w, `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>photo-organizer Report</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Arial, sans-serif; margin: 0; padding: 20px; color: #0f172a; }
        .container { max-width: 1200px; margin: 0 auto; }
        .meta { color: #64748b; font-size: 0.875rem; margin-bottom: 1.5rem; }
        .summary-grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(160px, 1fr)); gap: 1rem; margin-bottom: 2rem; }
        .summary-card { border: 1px solid #e2e8f0; border-radius: 0.5rem; padding: 1rem 1.25rem; }
        .summary-card h3 { font-size: 0.75rem; text-transform: uppercase; color: #64748b; margin: 0 0 0.25rem 0; }
        .summary-card .value { font-size: 1.75rem; font-weight: 700; margin: 0; }
        .filter-btn { border: 1px solid #e2e8f0; background: #fff; border-radius: 0.375rem; padding: 0.375rem 0.75rem; cursor: pointer; }
        .filter-btn.active { background: #0f172a; color: #fff; }
        table { width: 100%; border-collapse: collapse; margin-top: 1rem; }
        th, td { text-align: left; padding: 0.5rem 0.75rem; border-bottom: 1px solid #e2e8f0; font-size: 0.875rem; }
        .status-badge { border-radius: 9999px; padding: 0.125rem 0.5rem; font-size: 0.75rem; font-weight: 600; }
        .status-organized { background: #dcfce7; color: #166534; }
        .status-filtered { background: #fef9c3; color: #854d0e; }
        .status-error { background: #fee2e2; color: #991b1b; }
    </style>
</head>
<body>
    <div class="container">
        <h1>photo-organizer Report</h1>`)

	mode := "organize"
	if run.DryRun {
		mode = "dry run"
	}
	filtering := "on"
	if !run.Filtered {
		filtering = "off"
	}
	fmt.Fprintf(w, `
        <p class="meta">Run %s &middot; started %s &middot; %s &middot; filter %s<br>Input: %s<br>Output: %s</p>`,
		html.EscapeString(run.ID),
		run.Started.Format("2006-01-02 15:04:05"),
		mode, filtering,
		html.EscapeString(run.Input),
		html.EscapeString(run.Output))
}

func writeSummaryCards(w io.Writer, result *organizer.Result) {
	cards := []struct {
		title string
		value string
	}{
		{"Total Files", fmt.Sprint(result.TotalFiles)},
		{"Organized", fmt.Sprint(result.OrganizedFiles)},
		{"Skipped", fmt.Sprint(result.SkippedFiles)},
		{"Filtered", fmt.Sprint(result.Filtered())},
		{"Errors", fmt.Sprint(len(result.Errors))},
		{"Size Written", formatFileSize(result.TotalBytes)},
		{"Time Taken", result.Duration.Round(time.Millisecond).String()},
	}

	io.WriteString(w, "\n        <div class=\"summary-grid\">")
	for _, c := range cards {
		fmt.Fprintf(w, `
            <div class="summary-card">
                <h3>%s</h3>
                <p class="value">%s</p>
            </div>`, c.title, html.EscapeString(c.value))
	}
	io.WriteString(w, "\n        </div>")
}

func writeEntryTable(w io.Writer, result *organizer.Result) {
	io.WriteString(w, `
        <div class="controls">
            <button class="filter-btn active" data-filter="all">All</button>
            <button class="filter-btn" data-filter="organized">Organized</button>
            <button class="filter-btn" data-filter="filtered">Filtered</button>
            <button class="filter-btn" data-filter="error">Errors</button>
        </div>
        <table>
            <thead>
                <tr><th>Source Entry</th><th>Status</th><th>Destination</th><th>Size</th><th>Details</th></tr>
            </thead>
            <tbody id="entries">`)

	for _, e := range result.Entries {
		status, details := "organized", "Organized"
		switch {
		case e.State == organizer.StateSkippedFiltered:
			status, details = "filtered", "Filtered out (derivative, GIF or other collection)"
		case e.State.IsError():
			status, details = "error", e.State.String()
			if e.Err != nil {
				details = e.Err.Error()
			}
		}
		writeTableRow(w, e, status, details)
	}

	io.WriteString(w, `
            </tbody>
        </table>
        <script>
            document.querySelectorAll('.filter-btn').forEach(function (btn) {
                btn.addEventListener('click', function () {
                    document.querySelectorAll('.filter-btn').forEach(function (b) { b.classList.remove('active'); });
                    btn.classList.add('active');
                    var filter = btn.dataset.filter;
                    document.querySelectorAll('#entries tr').forEach(function (row) {
                        row.style.display = filter === 'all' || row.dataset.status === filter ? '' : 'none';
                    });
                });
            });
        </script>`)
}

// writeTableRow writes one entry; organized entries link to the written file
func writeTableRow(w io.Writer, e organizer.EntryResult, status, details string) {
	dest := html.EscapeString(e.TargetPath)
	if e.FullPath != "" {
		full := html.EscapeString(e.FullPath)
		dest = fmt.Sprintf(`<a href="file://%s" title="Open %s">%s</a>`, full, full, dest)
	}
	size := "-"
	if e.State == organizer.StateOrganized {
		size = formatFileSize(e.Size)
	}

	fmt.Fprintf(w, `
                <tr data-status="%s">
                    <td>%s</td>
                    <td><span class="status-badge status-%s">%s</span></td>
                    <td>%s</td>
                    <td>%s</td>
                    <td>%s</td>
                </tr>`,
		status,
		html.EscapeString(e.Name),
		status, strings.ToUpper(status[:1])+status[1:],
		dest,
		size,
		html.EscapeString(details))
}
