package ingest

import (
	"strings"
	"time"

	"github.com/yiqitools/stock-alerts/internal/fileio"
)

// Inbound plans are produced in-house on a fixed template, so unlike the
// platform exports the columns are matched exactly (trimmed, case-sensitive).
const (
	inboundSKUColumn  = "SKU"
	inboundDateColumn = "next_inbound_date"
	inboundQtyColumn  = "qty"
	inboundNoteColumn = "nota"
)

// InboundRow is one normalized inbound plan row. Date, Qty and Note are nil
// when the cell is missing or unparseable; rows are kept regardless.
type InboundRow struct {
	SKU             string
	NextInboundDate *time.Time
	Qty             *float64
	Note            *string
}

// NormalizeInbound maps an inbound-plan upload onto canonical rows. SKU and
// next_inbound_date columns are required; qty and nota are optional. Note the
// fill policy difference from stock: an unparseable qty here becomes null,
// not zero, because "unknown quantity" and "zero units" mean different things
// for a planned shipment.
func NormalizeInbound(t *fileio.Table) ([]InboundRow, error) {
	skuCol := exactColumn(t.Columns, inboundSKUColumn)
	if skuCol < 0 {
		return nil, &SchemaError{Missing: inboundSKUColumn, Headers: t.Columns}
	}
	dateCol := exactColumn(t.Columns, inboundDateColumn)
	if dateCol < 0 {
		return nil, &SchemaError{Missing: inboundDateColumn, Headers: t.Columns}
	}
	qtyCol := exactColumn(t.Columns, inboundQtyColumn)
	noteCol := exactColumn(t.Columns, inboundNoteColumn)

	rows := make([]InboundRow, 0, len(t.Rows))
	for i := range t.Rows {
		sku := strings.TrimSpace(t.Cell(i, skuCol))
		if sku == "" {
			continue
		}

		row := InboundRow{SKU: sku, NextInboundDate: parseDate(t.Cell(i, dateCol))}
		if qtyCol >= 0 {
			if v, ok := parseNumber(t.Cell(i, qtyCol)); ok {
				row.Qty = &v
			}
		}
		if noteCol >= 0 {
			if note := strings.TrimSpace(t.Cell(i, noteCol)); note != "" {
				row.Note = &note
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func exactColumn(headers []string, want string) int {
	for i, h := range headers {
		if strings.TrimSpace(h) == want {
			return i
		}
	}
	return -1
}
