// cmd/migrate/main.go
//
// Idempotent schema bootstrap for the canonical tables. The service itself
// assumes a ready schema and fails fast; creating it is this tool's job.
package main

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"github.com/yiqitools/stock-alerts/pkg/logger"
)

var statements = []string{
	`CREATE TABLE IF NOT EXISTS stock_latest (
		sku          TEXT PRIMARY KEY,
		stock_real   DOUBLE PRECISION NOT NULL,
		stock_alerta DOUBLE PRECISION NOT NULL,
		updated_at   TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS stock_snapshot (
		id              BIGSERIAL PRIMARY KEY,
		ingested_at     TIMESTAMPTZ NOT NULL,
		source_filename TEXT NOT NULL,
		sku             TEXT NOT NULL,
		stock_real      DOUBLE PRECISION NOT NULL,
		stock_alerta    DOUBLE PRECISION NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_stock_snapshot_sku ON stock_snapshot (sku, ingested_at)`,
	`CREATE TABLE IF NOT EXISTS sales_latest (
		sku        TEXT PRIMARY KEY,
		sales_30d  DOUBLE PRECISION NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS inbound_plan (
		sku               TEXT PRIMARY KEY,
		next_inbound_date DATE,
		qty               DOUBLE PRECISION,
		note              TEXT,
		updated_at        TIMESTAMPTZ NOT NULL
	)`,
}

func main() {
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "migrate",
		Usage: "create the stock-alerts tables if they do not exist",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "db-url",
				Usage:    "Database connection string",
				Required: true,
				EnvVars:  []string{"DATABASE_URL"},
			},
		},
		Action: runMigrate,
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("migration failed")
	}
}

func runMigrate(c *cli.Context) error {
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(c.Context); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(c.Context, stmt); err != nil {
			return fmt.Errorf("migration statement failed: %w", err)
		}
	}

	logger.Log.Info().Int("statements", len(statements)).Msg("schema ready")
	return nil
}
