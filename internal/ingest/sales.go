package ingest

import (
	"strings"

	"github.com/yiqitools/stock-alerts/internal/fileio"
)

const (
	salesSKUCol   = 0
	sales30dCol   = 5
	salesMinWidth = 6
)

// SalesRow is one normalized (sku, sales_30d) pair.
type SalesRow struct {
	SKU      string
	Sales30d float64
}

// NormalizeSales extracts trailing-30-day sales from the Recompra sheet. The
// layout there is positional, not name-matched: SKU is always the first
// column, the 30-day figure always the sixth. A narrower sheet is a schema
// failure. Unparseable sales cells count as zero.
func NormalizeSales(t *fileio.Table) ([]SalesRow, error) {
	if len(t.Columns) < salesMinWidth {
		return nil, &SchemaError{Missing: "sales_30d", Headers: t.Columns}
	}

	rows := make([]SalesRow, 0, len(t.Rows))
	for i := range t.Rows {
		sku := strings.TrimSpace(t.Cell(i, salesSKUCol))
		if sku == "" {
			continue
		}
		rows = append(rows, SalesRow{SKU: sku, Sales30d: numberOrZero(t.Cell(i, sales30dCol))})
	}
	return rows, nil
}
