// Package pageops provides the page-level PDF operations the batch pipeline
// is built from: splitting a template into single-page files, stamping text
// onto a page at fixed coordinates, and merging page files back into one
// document.
//
// Documents are inspected with pdfcpu before any page is imported, so
// unparsable input surfaces as a typed error instead of a failure deep
// inside page import. Page content moves between documents via the gofpdi
// contrib importer.
package pageops

import (
	"fmt"
	"os"

	"github.com/jung-kurt/gofpdf"
	"github.com/jung-kurt/gofpdf/contrib/gofpdi"
)

// newBasePDF returns an empty portrait document in point units with page
// breaking disabled, paired with a fresh importer. Imported pages carry
// their own sizes, so the A4 base format only applies when a page's media
// box cannot be determined.
func newBasePDF() (*gofpdf.Fpdf, *gofpdi.Importer) {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	return pdf, gofpdi.NewImporter()
}

// importPage imports a single page from a source file into the target PDF.
// Returns the template ID and page dimensions.
func importPage(pdf *gofpdf.Fpdf, imp *gofpdi.Importer, sourceFile string, pageNum int) (tplID int, w, h float64) {
	tplID = imp.ImportPage(pdf, sourceFile, pageNum, "/MediaBox")
	sizes := imp.GetPageSizes()
	if dims, ok := sizes[pageNum]; ok {
		if mb, ok := dims["/MediaBox"]; ok {
			w = mb["w"]
			h = mb["h"]
		}
	}
	return
}

// addImportedPage appends one imported source page to the target PDF at its
// original size.
func addImportedPage(pdf *gofpdf.Fpdf, imp *gofpdi.Importer, sourceFile string, pageNum int) {
	tplID, w, h := importPage(pdf, imp, sourceFile, pageNum)
	if w == 0 || h == 0 {
		w = 595.28 // A4 default
		h = 841.89
	}

	pdf.AddPageFormat("P", gofpdf.SizeType{Wd: w, Ht: h})
	imp.UseImportedTemplate(pdf, tplID, 0, 0, w, h)
}

// writePDFToFile writes the PDF to a file.
func writePDFToFile(pdf *gofpdf.Fpdf, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("pageops: creating %s: %w", filename, err)
	}
	defer f.Close()
	return pdf.Output(f)
}
