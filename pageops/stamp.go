package pageops

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/lvillar/cdaibatch"
)

const (
	stampFontFamily = "Helvetica"
	stampFontSize   = 12

	// baselineOffset drops the text baseline below the configured
	// coordinate so stamped values sit on the form's pre-printed lines
	// instead of colliding with them.
	baselineOffset = 5
)

// StampFile renders record values onto the single-page document at
// inputPath and saves the result to outputPath. Every field present in both
// the record and the placement is drawn as plain black text at each of its
// coordinates; fields absent from either side are left untouched, so no
// placeholder text is ever rendered. The input file is not modified.
//
// It fails with cdaibatch.ErrRenderFailed when text insertion or output
// writing cannot complete.
func StampFile(inputPath, outputPath string, rec cdaibatch.Record, placement cdaibatch.FieldPlacement) error {
	op := fmt.Sprintf("stamp %s", filepath.Base(inputPath))

	pdf, imp := newBasePDF()
	addImportedPage(pdf, imp, inputPath, 1)

	pdf.SetFont(stampFontFamily, "", stampFontSize)
	pdf.SetTextColor(0, 0, 0)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, f := range sortedFields(placement) {
		v, ok := rec.Get(f)
		if !ok {
			continue
		}
		for _, pt := range placement[f] {
			pdf.Text(pt.X, pt.Y+baselineOffset, tr(v))
		}
	}

	if pdf.Err() {
		return cdaibatch.NewError(op, cdaibatch.ErrRenderFailed, pdf.Error())
	}
	if err := writePDFToFile(pdf, outputPath); err != nil {
		return cdaibatch.NewError(op, cdaibatch.ErrRenderFailed, err)
	}
	return nil
}

// sortedFields returns the placement's fields in a fixed order so stamp
// output is deterministic for a given record and placement.
func sortedFields(placement cdaibatch.FieldPlacement) []cdaibatch.Field {
	fields := make([]cdaibatch.Field, 0, len(placement))
	for f := range placement {
		fields = append(fields, f)
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i] < fields[j] })
	return fields
}
