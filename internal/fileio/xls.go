// Legacy .xls reader. The extrame/xls row API under-reports the table width on
// sparse sheets, so the real width is probed before reading.
package fileio

import (
	"bytes"
	"io"

	xls "github.com/extrame/xls"
)

const probeMaxCols = 512

func readXLS(r io.Reader, filename, label string) (*Table, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, &ParseError{Filename: filename, Err: err}
	}

	// warehouse exports are occasionally latin-1 rather than utf-8
	var wb *xls.WorkBook
	var lastErr error
	for _, cs := range []string{"utf-8", "windows-1252"} {
		wb, lastErr = xls.OpenReader(bytes.NewReader(b), cs)
		if lastErr == nil && wb != nil {
			break
		}
	}
	if wb == nil {
		if lastErr == nil {
			lastErr = io.ErrUnexpectedEOF
		}
		return nil, &ParseError{Filename: filename, Err: lastErr}
	}

	sheet := wb.GetSheet(0)
	if label != "" {
		sheet = nil
		var available []string
		for i := 0; i < wb.NumSheets(); i++ {
			s := wb.GetSheet(i)
			if s == nil {
				continue
			}
			available = append(available, s.Name)
			if sheet == nil && sheetNameMatches(s.Name, label) {
				sheet = s
			}
		}
		if sheet == nil {
			return nil, &SheetNotFoundError{Sheet: label, Available: available}
		}
	}
	if sheet == nil {
		return &Table{}, nil
	}

	maxCols := computeMaxCols(sheet)
	rows := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		cols := make([]string, maxCols)
		if row != nil {
			for j := 0; j < maxCols; j++ {
				cols[j] = row.Col(j)
			}
		}
		rows = append(rows, cols)
	}
	return buildTable(rows), nil
}

func computeMaxCols(sheet *xls.WorkSheet) int {
	maxCols := 0
	for i := 0; i <= int(sheet.MaxRow); i++ {
		r := sheet.Row(i)
		if r == nil {
			continue
		}
		for j := 0; j < probeMaxCols; j++ {
			if r.Col(j) != "" && j+1 > maxCols {
				maxCols = j + 1
			}
		}
	}
	if maxCols == 0 {
		maxCols = 1
	}
	return maxCols
}
