// Package roster reads tabular patient data files into records. The file
// format is selected by extension: comma-separated values (.csv) and Excel
// workbooks (.xlsx, first sheet) are supported. The first row is the header;
// each header is normalized and synonym-resolved onto the known field set,
// and columns naming no known field are ignored. Row order is preserved.
package roster

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/lvillar/cdaibatch"
)

// Read parses the data file at path into one record per data row, in file
// order. It fails with cdaibatch.ErrUnsupportedFormat when the extension
// names no supported format and with cdaibatch.ErrMalformedInput when the
// file cannot be parsed as tabular data.
func Read(path string) ([]cdaibatch.Record, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return readCSV(path)
	case ".xlsx":
		return readXLSX(path)
	default:
		op := fmt.Sprintf("read %s", filepath.Base(path))
		return nil, cdaibatch.NewError(op, cdaibatch.ErrUnsupportedFormat, nil)
	}
}

// headerFields resolves a header row to column-to-field bindings. Columns
// whose header names no known field get no binding.
func headerFields(header []string) map[int]cdaibatch.Field {
	fields := make(map[int]cdaibatch.Field, len(header))
	for i, h := range header {
		if f, ok := cdaibatch.ResolveField(h); ok {
			fields[i] = f
		}
	}
	return fields
}

// recordFromRow builds one record from a data row. Cells without a field
// binding are skipped, as are empty cells, so absent and empty values are
// indistinguishable in the record. Rows shorter than the header simply bind
// fewer fields.
func recordFromRow(row []string, fields map[int]cdaibatch.Field) cdaibatch.Record {
	rec := make(cdaibatch.Record)
	for i, v := range row {
		f, ok := fields[i]
		if !ok {
			continue
		}
		rec.Set(f, v)
	}
	return rec
}
