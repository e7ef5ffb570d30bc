package ingest

import (
	"sort"
	"strings"

	"github.com/yiqitools/stock-alerts/internal/domain"
	"github.com/yiqitools/stock-alerts/internal/fileio"
)

const (
	lowStockThreshold = 2
	lowStockSampleCap = 20
)

// StockRow is one normalized (sku, stock) pair. StockReal keeps the signed
// value for history; StockAlerta is clamped at zero for alerting.
type StockRow struct {
	SKU         string
	StockReal   float64
	StockAlerta float64
}

// NormalizeStock maps a raw stock export onto canonical rows. Rows whose SKU
// cell is empty are dropped silently; the platform pads exports with blank
// summary rows and they are not an error. When any deposit columns resolved,
// stock is the sum across them; otherwise the single stock column is used.
// Unparseable numeric cells count as zero either way.
func NormalizeStock(t *fileio.Table) ([]StockRow, error) {
	cols, err := ResolveStockColumns(t.Columns)
	if err != nil {
		return nil, err
	}

	rows := make([]StockRow, 0, len(t.Rows))
	for i := range t.Rows {
		sku := strings.TrimSpace(t.Cell(i, cols.SKU))
		if sku == "" {
			continue
		}

		var stock float64
		if len(cols.Deposits) > 0 {
			for _, c := range cols.Deposits {
				stock += numberOrZero(t.Cell(i, c))
			}
		} else {
			stock = numberOrZero(t.Cell(i, cols.Single))
		}

		alerta := stock
		if alerta < 0 {
			alerta = 0
		}
		rows = append(rows, StockRow{SKU: sku, StockReal: stock, StockAlerta: alerta})
	}
	return rows, nil
}

// LowStockSample picks the rows at or under the low-stock threshold, most
// depleted first, capped for the ingestion response. The input is not mutated.
func LowStockSample(rows []StockRow) []domain.LowStockRow {
	var low []domain.LowStockRow
	for _, r := range rows {
		if r.StockAlerta <= lowStockThreshold {
			low = append(low, domain.LowStockRow{SKU: r.SKU, Stock: r.StockReal, StockAlerta: r.StockAlerta})
		}
	}
	sort.SliceStable(low, func(i, j int) bool {
		if low[i].StockAlerta != low[j].StockAlerta {
			return low[i].StockAlerta < low[j].StockAlerta
		}
		return low[i].Stock < low[j].Stock
	})
	if len(low) > lowStockSampleCap {
		low = low[:lowStockSampleCap]
	}
	return low
}
