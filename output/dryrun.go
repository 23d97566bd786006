package output

// DryRunWriter records what would be written without touching the output
// tree. Existing date directories are still looked up in the real tree so
// the planned paths match a real run.
type DryRunWriter struct {
	fs      *FSWriter
	Planned []string
}

func NewDryRunWriter(root string) *DryRunWriter {
	return &DryRunWriter{fs: NewFSWriter(root)}
}

func (w *DryRunWriter) WriteFile(rel string, _ []byte) error {
	w.Planned = append(w.Planned, rel)
	return nil
}

func (w *DryRunWriter) CreateDirectory(string) error {
	return nil
}

func (w *DryRunWriter) FullPath(rel string) string {
	return w.fs.FullPath(rel)
}

func (w *DryRunWriter) FindExistingDateDirectory(yearRel, prefix string) (string, bool) {
	return w.fs.FindExistingDateDirectory(yearRel, prefix)
}
