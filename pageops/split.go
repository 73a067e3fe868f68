package pageops

import (
	"fmt"
	"os"
	"path/filepath"
)

// SplitToFiles splits a PDF into individual pages, saving each to outputDir.
// Files are named page_001.pdf, page_002.pdf, etc. The returned paths are in
// original page order, one per source page.
func SplitToFiles(inputPath, outputDir string) ([]string, error) {
	if info, err := os.Stat(outputDir); err != nil {
		return nil, fmt.Errorf("pageops: output directory: %w", err)
	} else if !info.IsDir() {
		return nil, fmt.Errorf("pageops: %s is not a directory", outputDir)
	}

	pageCount, err := PageCount(inputPath)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, pageCount)
	for i := 1; i <= pageCount; i++ {
		outputPath := filepath.Join(outputDir, fmt.Sprintf("page_%03d.pdf", i))
		if err := ExtractPagesToFile(inputPath, outputPath, i); err != nil {
			return nil, fmt.Errorf("pageops: splitting page %d: %w", i, err)
		}
		paths = append(paths, outputPath)
	}

	return paths, nil
}

// ExtractPagesToFile extracts specific pages and saves to a file.
// Page numbers are 1-based.
func ExtractPagesToFile(inputPath, outputPath string, pages ...int) error {
	if len(pages) == 0 {
		return fmt.Errorf("pageops: no pages specified")
	}

	pdf, imp := newBasePDF()

	for _, pageNum := range pages {
		addImportedPage(pdf, imp, inputPath, pageNum)
	}
	if pdf.Err() {
		return fmt.Errorf("pageops: extracting pages: %w", pdf.Error())
	}

	return writePDFToFile(pdf, outputPath)
}
