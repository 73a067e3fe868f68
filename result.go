package cdaibatch

// RecordResult is the explicit outcome of one record's pipeline run. The
// orchestrator collects one per roster row; a failed record carries its
// error here instead of aborting the batch.
type RecordResult struct {
	// Row is the 1-based row number in the data file, counting the header
	// row, so the first record is row 2.
	Row int

	// Patient is the record's display name for report lines.
	Patient string

	// Filename and Path locate the generated document. Both are empty
	// when the record failed before its output was written.
	Filename string
	Path     string

	// Err is nil exactly when the record's document was generated.
	Err error
}

// Ok reports whether the record's document was generated.
func (r RecordResult) Ok() bool {
	return r.Err == nil
}

// RunResult is the outcome of a whole batch run.
type RunResult struct {
	RunID string

	// ArchivePath is the bundled deliverable. Empty for an empty batch,
	// which produces only the report.
	ArchivePath string

	// ReportPath is the plain-text processing report.
	ReportPath string

	// Records holds one result per roster row, in row order.
	Records []RecordResult
}

// Generated counts the records whose documents were generated.
func (r *RunResult) Generated() int {
	n := 0
	for _, rec := range r.Records {
		if rec.Ok() {
			n++
		}
	}
	return n
}

// Failed counts the records that ended in an error.
func (r *RunResult) Failed() int {
	return len(r.Records) - r.Generated()
}
