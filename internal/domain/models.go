// internal/domain/models.go
package domain

import "time"

// StockRecord is the current stock state for a SKU ("latest" table, one row per SKU).
type StockRecord struct {
	SKU         string    `json:"sku" db:"sku"`
	StockReal   float64   `json:"stock_real" db:"stock_real"`
	StockAlerta float64   `json:"stock_alerta" db:"stock_alerta"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// StockSnapshot is one append-only history row per SKU per ingestion event.
type StockSnapshot struct {
	ID             int64     `json:"id" db:"id"`
	IngestedAt     time.Time `json:"ingested_at" db:"ingested_at"`
	SourceFilename string    `json:"source_filename" db:"source_filename"`
	SKU            string    `json:"sku" db:"sku"`
	StockReal      float64   `json:"stock_real" db:"stock_real"`
	StockAlerta    float64   `json:"stock_alerta" db:"stock_alerta"`
}

// SalesRecord holds trailing-30-day unit sales for a SKU.
type SalesRecord struct {
	SKU       string    `json:"sku" db:"sku"`
	Sales30d  float64   `json:"sales_30d" db:"sales_30d"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// InboundPlan holds the next planned inbound shipment for a SKU.
// Qty and Note stay nil when the source file does not carry them.
type InboundPlan struct {
	SKU             string     `json:"sku" db:"sku"`
	NextInboundDate *time.Time `json:"next_inbound_date" db:"next_inbound_date"`
	Qty             *float64   `json:"qty" db:"qty"`
	Note            *string    `json:"note" db:"note"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}

// CoverageInput is one row of the joined stock/sales/inbound read used by the
// coverage engine. Sales30d is zero and NextInboundDate nil when the SKU has no
// matching sales or inbound row.
type CoverageInput struct {
	SKU             string     `db:"sku"`
	Stock           float64    `db:"stock_alerta"`
	Sales30d        float64    `db:"sales_30d"`
	NextInboundDate *time.Time `db:"next_inbound_date"`
}

// Alert is one low-coverage finding, ordered most urgent first.
type Alert struct {
	SKU             string     `json:"sku"`
	CoverageDays    float64    `json:"coverage_days"`
	Stock           float64    `json:"stock"`
	Sales30d        float64    `json:"sales_30d"`
	NextInboundDate *time.Time `json:"next_inbound_date,omitempty"`
}

// LowStockRow is one row of the low-stock sample echoed in the ingestion response.
type LowStockRow struct {
	SKU         string  `json:"sku"`
	Stock       float64 `json:"stock"`
	StockAlerta float64 `json:"stock_alerta"`
}

// IngestSummary is what an ingestion endpoint returns to the uploader.
type IngestSummary struct {
	Kind           string        `json:"kind"`
	SourceFilename string        `json:"source_filename"`
	Rows           int           `json:"rows"`
	Upserted       int           `json:"upserted"`
	ReceivedAt     time.Time     `json:"received_at"`
	LowStock       []LowStockRow `json:"low_stock,omitempty"`
}
