// photo-organizer: Sorts photo exports into year/date folders with duplicate filtering.
package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"photoorganizer/organizer"
)

// runInfo describes one run for the summary and the HTML report
type runInfo struct {
	ID         string
	Input      string
	Output     string
	DryRun     bool
	Filtered   bool
	Started    time.Time
	ReportPath string // Set once the HTML report was written
}

// printSummary prints the final counts, the error list and the accounting check
func printSummary(w io.Writer, result *organizer.Result, run runInfo) {
	fmt.Fprintln(w)
	if run.DryRun {
		color.New(color.FgGreen, color.Bold).Fprintln(w, "✓ Dry run complete! Nothing was written.")
	} else {
		color.New(color.FgGreen, color.Bold).Fprintln(w, "✓ Organization complete!")
	}

	fmt.Fprintln(w, renderCountsTable(result))

	if len(result.Errors) > 0 {
		fmt.Fprintln(w)
		color.New(color.FgRed, color.Bold).Fprintln(w, "Errors:")
		for _, msg := range result.Errors {
			color.New(color.FgRed).Fprintf(w, "  - %s\n", msg)
		}
	}

	fmt.Fprintln(w)
	if err := result.Validate(); err != nil {
		color.New(color.FgRed, color.Bold).Fprintf(w, "✖ %v\n", err)
	} else {
		color.New(color.FgGreen, color.Bold).Fprintln(w, "✔ All files accounted for!")
	}

	fmt.Fprintf(w, "Run ID: %s\n", run.ID)
	if run.ReportPath != "" {
		color.New(color.FgCyan).Fprintf(w, "HTML report: %s\n", fileLink(run.ReportPath))
	}
}

func renderCountsTable(result *organizer.Result) string {
	filtered := result.Filtered()
	rows := [][]string{
		{"Total files", strconv.Itoa(result.TotalFiles)},
		{"Organized", strconv.Itoa(result.OrganizedFiles)},
		{"Skipped", strconv.Itoa(result.SkippedFiles)},
		{"  filtered out", strconv.Itoa(filtered)},
		{"  errors", strconv.Itoa(len(result.Errors))},
		{"Size written", formatFileSize(result.TotalBytes)},
		{"Time taken", result.Duration.Round(time.Millisecond).String()},
	}
	return renderTable([]string{"Photos", "Count"}, rows, []text.Align{text.AlignLeft, text.AlignRight})
}

// renderTable draws rows with rounded borders; aligns is per column
func renderTable(headers []string, rows [][]string, aligns []text.Align) string {
	if len(headers) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, len(headers))
		for i := range r {
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, len(headers))
	for i := range headers {
		align := text.AlignLeft
		if i < len(aligns) {
			align = aligns[i]
		}
		configs = append(configs, table.ColumnConfig{Number: i + 1, Align: align, AlignHeader: text.AlignLeft})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}
