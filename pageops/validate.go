package pageops

import (
	"fmt"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/lvillar/cdaibatch"
)

// relaxedConfig returns the pdfcpu configuration used for document
// inspection. Validation is relaxed so that the scanner-produced templates
// in the field, which bend the letter of the PDF standard, still pass.
func relaxedConfig() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// PageCount returns the number of pages in the document at path. It fails
// with cdaibatch.ErrCorruptDocument when the file cannot be parsed as a PDF.
func PageCount(path string) (int, error) {
	n, err := api.PageCountFile(path)
	if err != nil {
		op := fmt.Sprintf("page count %s", filepath.Base(path))
		return 0, cdaibatch.NewError(op, cdaibatch.ErrCorruptDocument, err)
	}
	return n, nil
}

// Validate checks that the document at path parses as a PDF. It fails with
// cdaibatch.ErrCorruptDocument when it does not, carrying the parser's
// diagnosis as the cause.
func Validate(path string) error {
	if err := api.ValidateFile(path, relaxedConfig()); err != nil {
		op := fmt.Sprintf("validate %s", filepath.Base(path))
		return cdaibatch.NewError(op, cdaibatch.ErrCorruptDocument, err)
	}
	return nil
}
