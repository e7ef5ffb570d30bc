package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/yiqitools/stock-alerts/internal/domain"
	"github.com/yiqitools/stock-alerts/internal/ingest"
	"github.com/yiqitools/stock-alerts/internal/repository/postgres"
)

// AlertsRepository is the canonical store the ingestion and digest paths work
// against. Latest tables hold exactly one row per SKU (last writer wins);
// the snapshot table is append-only. Each write method runs its whole batch
// in one transaction, so a mid-batch failure never leaves a partial upload
// behind.
type AlertsRepository interface {
	SaveStockIngestion(ctx context.Context, rows []ingest.StockRow, sourceFilename string, now time.Time) error
	UpsertSalesLatest(ctx context.Context, rows []ingest.SalesRow, now time.Time) error
	UpsertInboundPlans(ctx context.Context, rows []ingest.InboundRow, now time.Time) error
	GetCoverageInputs(ctx context.Context) ([]domain.CoverageInput, error)
}

type alertsRepository struct {
	db *postgres.DB
}

func NewAlertsRepository(db *postgres.DB) AlertsRepository {
	return &alertsRepository{db: db}
}

// SaveStockIngestion upserts the latest stock state and appends one history
// snapshot per SKU. Both tables commit together: the snapshot log must never
// disagree with the latest state it explains.
func (r *alertsRepository) SaveStockIngestion(ctx context.Context, rows []ingest.StockRow, sourceFilename string, now time.Time) error {
	latestQuery := `
		INSERT INTO stock_latest (sku, stock_real, stock_alerta, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (sku)
		DO UPDATE SET
			stock_real = EXCLUDED.stock_real,
			stock_alerta = EXCLUDED.stock_alerta,
			updated_at = EXCLUDED.updated_at
	`
	snapshotQuery := `
		INSERT INTO stock_snapshot (ingested_at, source_filename, sku, stock_real, stock_alerta)
		VALUES ($1, $2, $3, $4, $5)
	`
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		for _, row := range rows {
			if _, err := tx.ExecContext(ctx, latestQuery, row.SKU, row.StockReal, row.StockAlerta, now); err != nil {
				return fmt.Errorf("failed to upsert stock for %s: %w", row.SKU, err)
			}
			if _, err := tx.ExecContext(ctx, snapshotQuery, now, sourceFilename, row.SKU, row.StockReal, row.StockAlerta); err != nil {
				return fmt.Errorf("failed to append stock snapshot for %s: %w", row.SKU, err)
			}
		}
		return nil
	})
}

func (r *alertsRepository) UpsertSalesLatest(ctx context.Context, rows []ingest.SalesRow, now time.Time) error {
	query := `
		INSERT INTO sales_latest (sku, sales_30d, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (sku)
		DO UPDATE SET
			sales_30d = EXCLUDED.sales_30d,
			updated_at = EXCLUDED.updated_at
	`
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		for _, row := range rows {
			if _, err := tx.ExecContext(ctx, query, row.SKU, row.Sales30d, now); err != nil {
				return fmt.Errorf("failed to upsert sales for %s: %w", row.SKU, err)
			}
		}
		return nil
	})
}

func (r *alertsRepository) UpsertInboundPlans(ctx context.Context, rows []ingest.InboundRow, now time.Time) error {
	query := `
		INSERT INTO inbound_plan (sku, next_inbound_date, qty, note, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (sku)
		DO UPDATE SET
			next_inbound_date = EXCLUDED.next_inbound_date,
			qty = EXCLUDED.qty,
			note = EXCLUDED.note,
			updated_at = EXCLUDED.updated_at
	`
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		for _, row := range rows {
			if _, err := tx.ExecContext(ctx, query, row.SKU, row.NextInboundDate, row.Qty, row.Note, now); err != nil {
				return fmt.Errorf("failed to upsert inbound plan for %s: %w", row.SKU, err)
			}
		}
		return nil
	})
}

// GetCoverageInputs reads the full joined snapshot the coverage engine works
// on. SKUs without sales rows read as zero velocity; SKUs without inbound
// plans read as no planned shipment.
func (r *alertsRepository) GetCoverageInputs(ctx context.Context) ([]domain.CoverageInput, error) {
	query := `
		SELECT
			s.sku,
			s.stock_alerta,
			COALESCE(v.sales_30d, 0) AS sales_30d,
			i.next_inbound_date
		FROM stock_latest s
		LEFT JOIN sales_latest v ON v.sku = s.sku
		LEFT JOIN inbound_plan i ON i.sku = s.sku
		ORDER BY s.sku
	`
	var inputs []domain.CoverageInput
	if err := r.db.SelectContext(ctx, &inputs, query); err != nil {
		return nil, fmt.Errorf("error reading coverage inputs: %w", err)
	}
	return inputs, nil
}
