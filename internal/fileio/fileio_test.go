package fileio

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	excelize "github.com/xuri/excelize/v2"
)

func TestReadTable_CSV(t *testing.T) {
	csv := "SKU,Stock Disponible\nA-1,5\n,\nA-2,0\n"
	table, err := ReadTable(strings.NewReader(csv), "export.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(table.Columns) != 2 || table.Columns[0] != "SKU" {
		t.Errorf("Columns = %v", table.Columns)
	}
	// the fully empty row is skipped
	if len(table.Rows) != 2 {
		t.Fatalf("Rows = %v, want 2", table.Rows)
	}
	if table.Cell(1, 0) != "A-2" {
		t.Errorf("Cell(1,0) = %q", table.Cell(1, 0))
	}
}

func TestReadTable_EmptyHeaderGetsPlaceholder(t *testing.T) {
	csv := "SKU,,Stock\nA-1,x,5\n"
	table, err := ReadTable(strings.NewReader(csv), "export.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if table.Columns[1] != "Column 2" {
		t.Errorf("Columns = %v, want placeholder for empty header", table.Columns)
	}
}

func TestReadTable_UnsupportedExtension(t *testing.T) {
	_, err := ReadTable(strings.NewReader("x"), "export.pdf")
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
}

func TestCell_OutOfRange(t *testing.T) {
	table := &Table{Columns: []string{"a"}, Rows: [][]string{{"1"}}}
	if table.Cell(5, 0) != "" || table.Cell(0, 5) != "" || table.Cell(-1, -1) != "" {
		t.Error("out-of-range cells must read as empty")
	}
}

func buildWorkbook(t *testing.T, sheets map[string][][]string) []byte {
	t.Helper()
	f := excelize.NewFile()
	first := true
	for name, rows := range sheets {
		if first {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				t.Fatal(err)
			}
			first = false
		} else {
			if _, err := f.NewSheet(name); err != nil {
				t.Fatal(err)
			}
		}
		for i, row := range rows {
			for j, cell := range row {
				axis, _ := excelize.CoordinatesToCellName(j+1, i+1)
				if err := f.SetCellValue(name, axis, cell); err != nil {
					t.Fatal(err)
				}
			}
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestReadSheet_XLSX(t *testing.T) {
	raw := buildWorkbook(t, map[string][][]string{
		"Recompra": {
			{"SKU", "b", "c", "d", "e", "v30"},
			{"A-1", "", "", "", "", "45"},
		},
	})

	table, err := ReadSheet(bytes.NewReader(raw), "ventas.xlsx", "recompra ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if table.Cell(0, 5) != "45" {
		t.Errorf("Cell(0,5) = %q", table.Cell(0, 5))
	}
}

func TestReadSheet_NotFound(t *testing.T) {
	raw := buildWorkbook(t, map[string][][]string{
		"Hoja1": {{"SKU"}, {"A-1"}},
	})

	_, err := ReadSheet(bytes.NewReader(raw), "ventas.xlsx", "Recompra")
	var sheetErr *SheetNotFoundError
	if !errors.As(err, &sheetErr) {
		t.Fatalf("error = %v, want *SheetNotFoundError", err)
	}
	if len(sheetErr.Available) != 1 || sheetErr.Available[0] != "Hoja1" {
		t.Errorf("Available = %v", sheetErr.Available)
	}
}

func TestReadSheet_CSVHasNoSheets(t *testing.T) {
	_, err := ReadSheet(strings.NewReader("a,b\n"), "export.csv", "Recompra")
	var sheetErr *SheetNotFoundError
	if !errors.As(err, &sheetErr) {
		t.Fatalf("error = %v, want *SheetNotFoundError", err)
	}
}
