// Package fileio decodes uploaded spreadsheet exports (xlsx, legacy xls, csv)
// into an ordered table of raw string cells. It knows nothing about the
// meaning of columns; that is the ingest package's job.
package fileio

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Table is one decoded sheet: an ordered header row plus data rows. Cells are
// kept as raw strings; numeric and date coercion happens downstream.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Cell returns the cell at (row, col), or "" when the row is ragged.
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) {
		return ""
	}
	r := t.Rows[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return r[col]
}

// ParseError means the upload could not be decoded as tabular data at all.
type ParseError struct {
	Filename string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot decode %s as tabular data: %v", e.Filename, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// SheetNotFoundError means the workbook has no sheet matching the wanted label.
type SheetNotFoundError struct {
	Sheet     string
	Available []string
}

func (e *SheetNotFoundError) Error() string {
	return fmt.Sprintf("sheet %q not found (available: %s)", e.Sheet, strings.Join(e.Available, ", "))
}

// ReadTable decodes the first sheet of the upload, picking a parser by file
// extension.
func ReadTable(r io.Reader, filename string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return readXLSX(r, filename, "")
	case ".xls":
		return readXLS(r, filename, "")
	case ".csv":
		return readCSV(r, filename)
	default:
		return nil, &ParseError{Filename: filename, Err: fmt.Errorf("unsupported extension")}
	}
}

// ReadSheet decodes the sheet whose name matches label after trimming and case
// folding. CSV files have no sheets and always fail with SheetNotFoundError.
func ReadSheet(r io.Reader, filename, label string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return readXLSX(r, filename, label)
	case ".xls":
		return readXLS(r, filename, label)
	case ".csv":
		return nil, &SheetNotFoundError{Sheet: label}
	default:
		return nil, &ParseError{Filename: filename, Err: fmt.Errorf("unsupported extension")}
	}
}

func sheetNameMatches(name, label string) bool {
	return strings.EqualFold(collapse(name), collapse(label))
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// buildTable turns an AoA into a Table: row 0 is the header (empty header
// cells become "Column N"), fully empty data rows are skipped.
func buildTable(rows [][]string) *Table {
	if len(rows) == 0 {
		return &Table{}
	}
	header := rows[0]
	cols := make([]string, len(header))
	for i, v := range header {
		v = strings.TrimSpace(v)
		if v == "" {
			v = fmt.Sprintf("Column %d", i+1)
		}
		cols[i] = v
	}

	t := &Table{Columns: cols}
	for _, rec := range rows[1:] {
		row := make([]string, len(cols))
		empty := true
		for c := range cols {
			var v string
			if c < len(rec) {
				v = rec[c]
			}
			row[c] = v
			if strings.TrimSpace(v) != "" {
				empty = false
			}
		}
		if !empty {
			t.Rows = append(t.Rows, row)
		}
	}
	return t
}
