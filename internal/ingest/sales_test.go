package ingest

import (
	"testing"

	"github.com/yiqitools/stock-alerts/internal/fileio"
)

func TestNormalizeSales_PositionalColumns(t *testing.T) {
	// Column names are irrelevant on the Recompra sheet; position is the contract.
	table := &fileio.Table{
		Columns: []string{"whatever", "b", "c", "d", "e", "f"},
		Rows: [][]string{
			{"S-1", "x", "x", "x", "x", "45"},
			{"S-2", "", "", "", "", "no data"},
			{"", "x", "x", "x", "x", "10"},
			{" S-3 ", "x", "x", "x", "x", "1.234,5"},
		},
	}

	rows, err := NormalizeSales(table)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []SalesRow{
		{SKU: "S-1", Sales30d: 45},
		{SKU: "S-2", Sales30d: 0},
		{SKU: "S-3", Sales30d: 1234.5},
	}
	if len(rows) != len(want) {
		t.Fatalf("got %d rows, want %d", len(rows), len(want))
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Errorf("row %d = %+v, want %+v", i, rows[i], want[i])
		}
	}
}

func TestNormalizeSales_TooNarrow(t *testing.T) {
	table := &fileio.Table{Columns: []string{"a", "b", "c", "d", "e"}}
	_, err := NormalizeSales(table)
	schemaErr, ok := err.(*SchemaError)
	if !ok {
		t.Fatalf("error = %v, want *SchemaError", err)
	}
	if schemaErr.Missing != "sales_30d" {
		t.Errorf("Missing = %q, want sales_30d", schemaErr.Missing)
	}
	if len(schemaErr.Headers) != 5 {
		t.Errorf("Headers = %v, want observed header list", schemaErr.Headers)
	}
}
