package ingest

import (
	"testing"
	"time"

	"github.com/yiqitools/stock-alerts/internal/fileio"
)

func TestNormalizeInbound_FullRow(t *testing.T) {
	table := &fileio.Table{
		Columns: []string{"SKU", "next_inbound_date", "qty", "nota"},
		Rows: [][]string{
			{"I-1", "2026-09-15", "40", "contenedor 12"},
			{"I-2", "mañana", "n/a", ""},
			{"", "2026-09-01", "5", "sin sku"},
		},
	}

	rows, err := NormalizeInbound(table)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2 (empty SKU skipped)", len(rows))
	}

	r := rows[0]
	if r.SKU != "I-1" {
		t.Errorf("SKU = %q", r.SKU)
	}
	if r.NextInboundDate == nil || !r.NextInboundDate.Equal(time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("NextInboundDate = %v, want 2026-09-15", r.NextInboundDate)
	}
	if r.Qty == nil || *r.Qty != 40 {
		t.Errorf("Qty = %v, want 40", r.Qty)
	}
	if r.Note == nil || *r.Note != "contenedor 12" {
		t.Errorf("Note = %v", r.Note)
	}

	// Unparseable date and qty become null, the row is kept. This differs
	// from the stock zero-fill on purpose.
	r = rows[1]
	if r.SKU != "I-2" {
		t.Errorf("SKU = %q", r.SKU)
	}
	if r.NextInboundDate != nil {
		t.Errorf("NextInboundDate = %v, want nil for unparseable date", r.NextInboundDate)
	}
	if r.Qty != nil {
		t.Errorf("Qty = %v, want nil for unparseable qty (not zero)", r.Qty)
	}
	if r.Note != nil {
		t.Errorf("Note = %v, want nil when empty", r.Note)
	}
}

func TestNormalizeInbound_OptionalColumnsAbsent(t *testing.T) {
	table := &fileio.Table{
		Columns: []string{"SKU", "next_inbound_date"},
		Rows:    [][]string{{"I-9", "2026-10-01"}},
	}
	rows, err := NormalizeInbound(table)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows[0].Qty != nil || rows[0].Note != nil {
		t.Errorf("row = %+v, want nil qty/note when columns absent", rows[0])
	}
}

func TestNormalizeInbound_RequiredColumnsExact(t *testing.T) {
	cases := []struct {
		name    string
		headers []string
		missing string
	}{
		{"no sku", []string{"sku", "next_inbound_date"}, "SKU"}, // lowercase does not match
		{"no date", []string{"SKU", "fecha"}, "next_inbound_date"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NormalizeInbound(&fileio.Table{Columns: tc.headers})
			schemaErr, ok := err.(*SchemaError)
			if !ok {
				t.Fatalf("error = %v, want *SchemaError", err)
			}
			if schemaErr.Missing != tc.missing {
				t.Errorf("Missing = %q, want %q", schemaErr.Missing, tc.missing)
			}
		})
	}
}

func TestNormalizeInbound_TrimmedHeaderStillMatches(t *testing.T) {
	table := &fileio.Table{
		Columns: []string{" SKU ", " next_inbound_date "},
		Rows:    [][]string{{"I-5", "01/10/2026"}},
	}
	rows, err := NormalizeInbound(table)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows[0].NextInboundDate == nil {
		t.Error("dd/mm/yyyy date should parse")
	}
}
