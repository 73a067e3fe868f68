package roster

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/lvillar/cdaibatch"
)

func readXLSX(path string) ([]cdaibatch.Record, error) {
	op := fmt.Sprintf("read %s", filepath.Base(path))

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("roster: open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	wb, err := excelize.OpenReader(f)
	if err != nil {
		return nil, cdaibatch.NewError(op, cdaibatch.ErrMalformedInput, err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, cdaibatch.NewError(op, cdaibatch.ErrMalformedInput, errors.New("workbook has no sheets"))
	}

	// The first sheet is the roster, matching the spreadsheet convention
	// the data files follow.
	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, cdaibatch.NewError(op, cdaibatch.ErrMalformedInput, err)
	}
	if len(rows) == 0 {
		return nil, cdaibatch.NewError(op, cdaibatch.ErrMalformedInput, errors.New("no header row"))
	}
	fields := headerFields(rows[0])

	var records []cdaibatch.Record
	for _, cells := range rows[1:] {
		records = append(records, recordFromRow(cells, fields))
	}
	return records, nil
}
