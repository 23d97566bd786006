package organizer

import (
	"fmt"
	"time"
)

// EntryState is the terminal outcome of one source entry
type EntryState int

const (
	// Entry was written to the output tree
	StateOrganized EntryState = iota

	// Entry was excluded by the filter; a decision, not an error
	StateSkippedFiltered

	// Errors during processing; the entry is skipped and the run continues
	StateErrorDate      // No date from metadata or filename
	StateErrorDirectory // Target directory could not be created
	StateErrorWrite     // Photo bytes could not be written
)

// String returns human-readable state names for reporting
func (s EntryState) String() string {
	switch s {
	case StateOrganized:
		return "organized"
	case StateSkippedFiltered:
		return "skipped (filtered)"
	case StateErrorDate:
		return "error (date extraction)"
	case StateErrorDirectory:
		return "error (create directory)"
	case StateErrorWrite:
		return "error (write failed)"
	default:
		return "unknown"
	}
}

// IsError reports whether s is one of the error outcomes
func (s EntryState) IsError() bool {
	switch s {
	case StateErrorDate, StateErrorDirectory, StateErrorWrite:
		return true
	default:
		return false
	}
}

// EntryResult records what happened to one entry
type EntryResult struct {
	Name       string        // Name as stored in the source
	State      EntryState    // Terminal outcome
	TargetPath string        // Relative target path, empty unless a path was generated
	FullPath   string        // Absolute target path for display, set when organized
	Err        error         // Cause for error states
	Size       int64         // Bytes written
	Duration   time.Duration // Time spent on this entry
}

// Message is the "<name>: <reason>" line recorded for error outcomes
func (r EntryResult) Message() string {
	if r.Err == nil {
		return fmt.Sprintf("%s: %s", r.Name, r.State)
	}
	return fmt.Sprintf("%s: %v", r.Name, r.Err)
}

// Result aggregates a whole run. Skipped counts both filtered entries and
// failed entries; only failures add to Errors.
type Result struct {
	TotalFiles     int
	OrganizedFiles int
	SkippedFiles   int
	Errors         []string

	Entries    []EntryResult
	TotalBytes int64
	Duration   time.Duration
}

// Summarize builds a Result from per-entry outcomes in source order
func Summarize(entries []EntryResult) Result {
	result := Result{
		TotalFiles: len(entries),
		Entries:    entries,
	}
	for _, e := range entries {
		switch {
		case e.State == StateOrganized:
			result.OrganizedFiles++
			result.TotalBytes += e.Size
		case e.State == StateSkippedFiltered:
			result.SkippedFiles++
		case e.State.IsError():
			result.SkippedFiles++
			result.Errors = append(result.Errors, e.Message())
		}
	}
	return result
}

// Filtered returns the number of entries skipped by the filter
func (r *Result) Filtered() int {
	n := 0
	for _, e := range r.Entries {
		if e.State == StateSkippedFiltered {
			n++
		}
	}
	return n
}

// Validate checks that every entry is accounted for exactly once
func (r *Result) Validate() error {
	if r.OrganizedFiles+r.SkippedFiles != r.TotalFiles {
		return fmt.Errorf("accounting mismatch: %d files but %d organized + %d skipped",
			r.TotalFiles, r.OrganizedFiles, r.SkippedFiles)
	}
	if r.Entries == nil {
		return nil
	}
	if len(r.Entries) != r.TotalFiles {
		return fmt.Errorf("accounting mismatch: %d files but %d entry results",
			r.TotalFiles, len(r.Entries))
	}
	failed := 0
	for _, e := range r.Entries {
		if e.State.IsError() {
			failed++
		}
	}
	if failed != len(r.Errors) {
		return fmt.Errorf("accounting mismatch: %d failed entries but %d error messages",
			failed, len(r.Errors))
	}
	return nil
}
