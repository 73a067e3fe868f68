package roster

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/lvillar/cdaibatch"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func readCSV(path string) ([]cdaibatch.Record, error) {
	op := fmt.Sprintf("read %s", filepath.Base(path))

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("roster: open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	if lead, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(lead, utf8BOM) {
		br.Discard(len(utf8BOM))
	}

	r := csv.NewReader(br)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("no header row")
		}
		return nil, cdaibatch.NewError(op, cdaibatch.ErrMalformedInput, err)
	}
	fields := headerFields(header)

	var records []cdaibatch.Record
	for row := 2; ; row++ {
		cells, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, cdaibatch.NewError(op, cdaibatch.ErrMalformedInput, err)
		}
		if len(cells) > len(header) {
			err := fmt.Errorf("row %d has %d cells, header has %d", row, len(cells), len(header))
			return nil, cdaibatch.NewError(op, cdaibatch.ErrMalformedInput, err)
		}
		records = append(records, recordFromRow(cells, fields))
	}
	return records, nil
}
