// Package organizer drives an organize run: filter each source entry,
// resolve its date, generate its target path and write it.
package organizer

import (
	"fmt"
	"path"
	"time"

	"photoorganizer/filter"
	"photoorganizer/metadata"
	"photoorganizer/output"
	"photoorganizer/source"
)

// FilterFactory builds the filter for a run from the complete list of
// source entry names.
type FilterFactory func(names []string) filter.PhotoFilter

// ExistingCollection filters derivatives, GIFs and photos kept in other collections
func ExistingCollection(names []string) filter.PhotoFilter {
	return filter.NewExistingCollectionFilter(names)
}

// NoFiltering accepts every entry
func NoFiltering([]string) filter.PhotoFilter {
	return filter.NoFilter{}
}

// Organizer processes entries strictly one at a time, in source order
type Organizer struct {
	reader    source.Reader
	extractor metadata.DateExtractor
	paths     *PathGenerator
	writer    output.Writer
	newFilter FilterFactory

	// OnEntry, when set, is called after each entry reaches its outcome
	OnEntry func(index, total int, result EntryResult)
}

func New(reader source.Reader, extractor metadata.DateExtractor, writer output.Writer, newFilter FilterFactory) *Organizer {
	if newFilter == nil {
		newFilter = NoFiltering
	}
	return &Organizer{
		reader:    reader,
		extractor: extractor,
		paths:     NewPathGenerator(writer),
		writer:    writer,
		newFilter: newFilter,
	}
}

// Organize runs the whole pipeline. Only a failure to enumerate the source
// is returned as an error; every per-entry failure is recorded in the Result.
func (o *Organizer) Organize() (*Result, error) {
	start := time.Now()

	// Names first: the filter must see the whole collection before any
	// entry is evaluated.
	infos, err := source.List(o.reader)
	if err != nil {
		return nil, fmt.Errorf("enumerate source: %w", err)
	}
	photoFilter := o.newFilter(source.Names(infos))

	entries, err := o.reader.ReadEntries()
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}

	results := make([]EntryResult, 0, len(entries))
	for i := range entries {
		r := o.processEntry(entries[i], photoFilter)
		entries[i].Data = nil
		results = append(results, r)
		if o.OnEntry != nil {
			o.OnEntry(i, len(entries), r)
		}
	}

	result := Summarize(results)
	result.Duration = time.Since(start)
	return &result, nil
}

func (o *Organizer) processEntry(entry source.Entry, photoFilter filter.PhotoFilter) EntryResult {
	start := time.Now()
	r := EntryResult{Name: entry.Name}

	if !photoFilter.ShouldInclude(entry.Name, entry.Data) {
		r.State = StateSkippedFiltered
		r.Duration = time.Since(start)
		return r
	}

	date, err := o.extractor.ExtractDate(entry.Name, entry.Data)
	if err != nil {
		r.State = StateErrorDate
		r.Err = err
		r.Duration = time.Since(start)
		return r
	}

	r.TargetPath = o.paths.Generate(date, source.BaseName(entry.Name))
	if err := o.writer.CreateDirectory(path.Dir(r.TargetPath)); err != nil {
		r.State = StateErrorDirectory
		r.Err = err
		r.Duration = time.Since(start)
		return r
	}
	if err := o.writer.WriteFile(r.TargetPath, entry.Data); err != nil {
		r.State = StateErrorWrite
		r.Err = err
		r.Duration = time.Since(start)
		return r
	}

	r.State = StateOrganized
	r.FullPath = o.writer.FullPath(r.TargetPath)
	r.Size = int64(len(entry.Data))
	r.Duration = time.Since(start)
	return r
}
