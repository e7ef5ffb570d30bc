package fileio

import (
	"bytes"
	"io"

	excelize "github.com/xuri/excelize/v2"
)

func readXLSX(r io.Reader, filename, label string) (*Table, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, &ParseError{Filename: filename, Err: err}
	}
	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		return nil, &ParseError{Filename: filename, Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &SheetNotFoundError{Sheet: label}
	}

	sheet := sheets[0]
	if label != "" {
		sheet = ""
		for _, name := range sheets {
			if sheetNameMatches(name, label) {
				sheet = name
				break
			}
		}
		if sheet == "" {
			return nil, &SheetNotFoundError{Sheet: label, Available: sheets}
		}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, &ParseError{Filename: filename, Err: err}
	}
	return buildTable(rows), nil
}
