package batch

import (
	"fmt"
	"os"
	"strings"

	"github.com/lvillar/cdaibatch"
)

// ReportFilename is the name of the plain-text processing report included
// in every batch archive.
const ReportFilename = "processing_report.txt"

// report accumulates the line-oriented batch report: a fixed header, one
// line per record in row order, and a fixed footer.
type report struct {
	lines []string
}

func newReport(dataFile, templatePath string) *report {
	return &report{lines: []string{
		"--- CDAI PDF Processing Report ---",
		fmt.Sprintf("Data file: %s", dataFile),
		fmt.Sprintf("Using Default Template: %s", templatePath),
		"\n---\n",
	}}
}

// addResult appends the record's SUCCESS or ERROR line.
func (r *report) addResult(res cdaibatch.RecordResult) {
	if res.Ok() {
		r.lines = append(r.lines,
			fmt.Sprintf("SUCCESS: Row %d (Patient: %s) -> Generated %s", res.Row, res.Patient, res.Filename))
		return
	}
	r.lines = append(r.lines,
		fmt.Sprintf("ERROR: Row %d (Patient: %s) - An unexpected error occurred: %v", res.Row, res.Patient, res.Err))
}

// content renders the full report text.
func (r *report) content() string {
	return strings.Join(r.lines, "\n") + "\n---\nReport finished."
}

func (r *report) writeFile(path string) error {
	return os.WriteFile(path, []byte(r.content()), 0o644)
}
