package pageops

import (
	"fmt"
	"os"

	"github.com/jung-kurt/gofpdf"
	"github.com/jung-kurt/gofpdf/contrib/gofpdi"
)

// MergeFiles combines multiple PDF files into a single output file.
// Pages are added in order: all pages from the first file, then all from the
// second, etc. Input paths that no longer exist are silently skipped, which
// tolerates partially cleaned intermediate state; an empty input sequence
// still writes an output document. Inputs that exist but cannot be read fail
// the merge with cdaibatch.ErrCorruptDocument in the chain.
func MergeFiles(outputPath string, inputPaths ...string) error {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)

	for _, inputPath := range inputPaths {
		if _, err := os.Stat(inputPath); err != nil {
			continue
		}
		if err := appendFile(pdf, inputPath); err != nil {
			return fmt.Errorf("pageops: merging %s: %w", inputPath, err)
		}
	}

	return writePDFToFile(pdf, outputPath)
}

// appendFile imports all pages from a PDF file into the target PDF.
func appendFile(pdf *gofpdf.Fpdf, inputPath string) error {
	pageCount, err := PageCount(inputPath)
	if err != nil {
		return err
	}

	imp := gofpdi.NewImporter()

	for i := 1; i <= pageCount; i++ {
		addImportedPage(pdf, imp, inputPath, i)
	}

	return pdf.Error()
}
