// photo-organizer: Sorts photo exports into year/date folders with duplicate filtering.
package main

import (
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"

	"photoorganizer/organizer"
)

// progressReporter shows per-entry progress: a bar on a terminal, one line
// per entry otherwise (logs, pipes, CI).
type progressReporter struct {
	out    io.Writer
	useBar bool
	dryRun bool
	bar    *progressbar.ProgressBar
}

func newProgressReporter(out io.Writer, useBar, dryRun bool) *progressReporter {
	return &progressReporter{out: out, useBar: useBar, dryRun: dryRun}
}

// onEntry matches organizer.Organizer.OnEntry
func (p *progressReporter) onEntry(index, total int, r organizer.EntryResult) {
	if !p.useBar {
		fmt.Fprintln(p.out, entryLine(r, p.dryRun))
		return
	}
	if p.bar == nil {
		p.bar = progressbar.NewOptions(
			total,
			progressbar.OptionSetWriter(p.out),
			progressbar.OptionSetDescription("Organizing"),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetWidth(20),
			progressbar.OptionSetPredictTime(true),
			progressbar.OptionSetElapsedTime(true),
			progressbar.OptionClearOnFinish(),
		)
	}
	p.bar.Add(1)
}

func (p *progressReporter) finish() {
	if p.bar != nil {
		p.bar.Finish()
	}
}

// entryLine is the plain-text outcome line for one entry
func entryLine(r organizer.EntryResult, dryRun bool) string {
	switch {
	case r.State == organizer.StateOrganized && dryRun:
		return fmt.Sprintf("%s: would copy to %s", r.Name, r.FullPath)
	case r.State == organizer.StateOrganized:
		return fmt.Sprintf("%s: copied to %s", r.Name, r.FullPath)
	case r.State == organizer.StateSkippedFiltered:
		return fmt.Sprintf("%s: filtered out", r.Name)
	case r.Err != nil:
		return fmt.Sprintf("%s: error - %v", r.Name, r.Err)
	default:
		return fmt.Sprintf("%s: %s", r.Name, r.State)
	}
}
