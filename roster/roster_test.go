package roster_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/lvillar/cdaibatch"
	"github.com/lvillar/cdaibatch/roster"
)

// writeCSV stores content as a .csv file in a fresh temp dir.
func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roster.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing roster: %v", err)
	}
	return path
}

// writeXLSX builds a single-sheet workbook from rows and saves it.
func writeXLSX(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roster.xlsx")
	wb := excelize.NewFile()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := wb.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("setting row %d: %v", i+1, err)
		}
	}
	if err := wb.SaveAs(path); err != nil {
		t.Fatalf("saving workbook: %v", err)
	}
	return path
}

func checkRecord(t *testing.T, rec cdaibatch.Record, want map[cdaibatch.Field]string) {
	t.Helper()
	if len(rec) != len(want) {
		t.Errorf("record carries %d fields, want %d: %v", len(rec), len(want), rec)
	}
	for f, v := range want {
		got, ok := rec.Get(f)
		if !ok {
			t.Errorf("field %q absent, want %q", f, v)
			continue
		}
		if got != v {
			t.Errorf("field %q = %q, want %q", f, got, v)
		}
	}
}

func TestReadCSV(t *testing.T) {
	path := writeCSV(t, `First Name,Last Name,Birth Date,Weight,Height,Medicare Number
John,Citizen,12/03/1961,82,178,2950 12345 1
Jane,Doe,25/11/1974,63.5,165,2950 67890 2
`)

	records, err := roster.Read(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	// Headers normalize and synonym-resolve onto the field set.
	checkRecord(t, records[0], map[cdaibatch.Field]string{
		cdaibatch.FieldFirstName: "John",
		cdaibatch.FieldLastName:  "Citizen",
		cdaibatch.FieldDOB:       "12/03/1961",
		cdaibatch.FieldWeight:    "82",
		cdaibatch.FieldHeight:    "178",
		cdaibatch.FieldMC:        "2950 12345 1",
	})
	checkRecord(t, records[1], map[cdaibatch.Field]string{
		cdaibatch.FieldFirstName: "Jane",
		cdaibatch.FieldLastName:  "Doe",
		cdaibatch.FieldDOB:       "25/11/1974",
		cdaibatch.FieldWeight:    "63.5",
		cdaibatch.FieldHeight:    "165",
		cdaibatch.FieldMC:        "2950 67890 2",
	})
}

func TestReadCSVSynonyms(t *testing.T) {
	path := writeCSV(t, `BirthDate,MedicareNumber,Infusion Location,height,WEIGHT
01/01/1990,2950 00000 0,North Clinic,170,70
`)

	records, err := roster.Read(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	checkRecord(t, records[0], map[cdaibatch.Field]string{
		cdaibatch.FieldDOB:      "01/01/1990",
		cdaibatch.FieldMC:       "2950 00000 0",
		cdaibatch.FieldLocation: "North Clinic",
		cdaibatch.FieldHeight:   "170",
		cdaibatch.FieldWeight:   "70",
	})
}

func TestReadCSVAbsentValues(t *testing.T) {
	// Row 1 has an empty cell, row 2 is shorter than the header. Both
	// leave the affected fields absent rather than empty.
	path := writeCSV(t, `FirstName,LastName,Weight
John,,82
Jane
`)

	records, err := roster.Read(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Has(cdaibatch.FieldLastName) {
		t.Errorf("empty cell should leave the field absent")
	}
	if v, _ := records[0].Get(cdaibatch.FieldWeight); v != "82" {
		t.Errorf("weight = %q, want 82", v)
	}
	if records[1].Has(cdaibatch.FieldLastName) || records[1].Has(cdaibatch.FieldWeight) {
		t.Errorf("short row should leave trailing fields absent: %v", records[1])
	}
}

func TestReadCSVRaggedRow(t *testing.T) {
	path := writeCSV(t, `FirstName,LastName
John,Citizen,extra
`)

	_, err := roster.Read(path)
	if !errors.Is(err, cdaibatch.ErrMalformedInput) {
		t.Fatalf("expected ErrMalformedInput, got %v", err)
	}
}

func TestReadCSVHeaderOnly(t *testing.T) {
	path := writeCSV(t, "FirstName,LastName\n")

	records, err := roster.Read(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
}

func TestReadCSVEmptyFile(t *testing.T) {
	path := writeCSV(t, "")

	_, err := roster.Read(path)
	if !errors.Is(err, cdaibatch.ErrMalformedInput) {
		t.Fatalf("expected ErrMalformedInput, got %v", err)
	}
}

func TestReadCSVByteOrderMark(t *testing.T) {
	path := writeCSV(t, "\xEF\xBB\xBFFirstName,LastName\nJohn,Citizen\n")

	records, err := roster.Read(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if v, _ := records[0].Get(cdaibatch.FieldFirstName); v != "John" {
		t.Errorf("first name = %q, want John", v)
	}
}

func TestReadCSVUnknownColumns(t *testing.T) {
	path := writeCSV(t, `FirstName,Comments,LastName
John,ignore me,Citizen
`)

	records, err := roster.Read(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	checkRecord(t, records[0], map[cdaibatch.Field]string{
		cdaibatch.FieldFirstName: "John",
		cdaibatch.FieldLastName:  "Citizen",
	})
}

func TestReadUnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"roster.txt", "roster.pdf", "roster"} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("FirstName\nJohn\n"), 0o644); err != nil {
			t.Fatalf("writing fixture: %v", err)
		}
		_, err := roster.Read(path)
		if !errors.Is(err, cdaibatch.ErrUnsupportedFormat) {
			t.Errorf("%s: expected ErrUnsupportedFormat, got %v", name, err)
		}
	}
}

func TestReadMissingFile(t *testing.T) {
	_, err := roster.Read(filepath.Join(t.TempDir(), "missing.csv"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected os.ErrNotExist, got %v", err)
	}
}

func TestReadXLSX(t *testing.T) {
	path := writeXLSX(t, [][]interface{}{
		{"First Name", "LastName", "BirthDate", "Weight"},
		{"Jane", "Doe", "25/11/1974", 63.5},
		{"John", "Citizen", "12/03/1961", 82},
	})

	records, err := roster.Read(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	checkRecord(t, records[0], map[cdaibatch.Field]string{
		cdaibatch.FieldFirstName: "Jane",
		cdaibatch.FieldLastName:  "Doe",
		cdaibatch.FieldDOB:       "25/11/1974",
		cdaibatch.FieldWeight:    "63.5",
	})
	if v, _ := records[1].Get(cdaibatch.FieldWeight); v != "82" {
		t.Errorf("numeric cell = %q, want 82", v)
	}
}

func TestReadXLSXEmptySheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.xlsx")
	wb := excelize.NewFile()
	if err := wb.SaveAs(path); err != nil {
		t.Fatalf("saving workbook: %v", err)
	}

	_, err := roster.Read(path)
	if !errors.Is(err, cdaibatch.ErrMalformedInput) {
		t.Fatalf("expected ErrMalformedInput, got %v", err)
	}
}

func TestReadXLSXNotAWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.xlsx")
	if err := os.WriteFile(path, []byte("not a zip archive"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	_, err := roster.Read(path)
	if !errors.Is(err, cdaibatch.ErrMalformedInput) {
		t.Fatalf("expected ErrMalformedInput, got %v", err)
	}
}
