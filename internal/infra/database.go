package infra

import (
	"fmt"

	"github.com/yashas-13/inv-123/internal/model"

	"github.com/rs/zerolog/log"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// DBOptions tunes NewDatabase. The zero value is a silent logger without
// tracing.
type DBOptions struct {
	Tracing  bool
	LogLevel logger.LogLevel
}

// NewDatabase opens the Postgres connection, migrates the inventory schema
// and applies the idempotent SQL patches AutoMigrate cannot express.
func NewDatabase(dsn string, opts DBOptions) (*gorm.DB, error) {
	level := opts.LogLevel
	if level == 0 {
		level = logger.Silent
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if opts.Tracing {
		if err := db.Use(otelgorm.NewPlugin()); err != nil {
			log.Warn().Err(err).Msg("otelgorm plugin not installed, continuing without DB tracing")
		}
	}

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates or updates every table and then applies the schema
// patches. Integration tests call it against a throwaway container.
func RunMigrations(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return fmt.Errorf("pgcrypto: %w", err)
	}
	if err := db.AutoMigrate(
		&model.Product{},
		&model.Location{},
		&model.Agent{},
		&model.RetailPartner{},
		&model.Batch{},
		&model.BatchLine{},
		&model.StockMovement{},
		&model.RetailSale{},
		&model.CurrentStock{},
		&model.User{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs DDL that AutoMigrate does not manage. Every
// statement is guarded so re-running on a patched database is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		{"current_stock non-negative quantity", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_current_stock_quantity') THEN
    ALTER TABLE current_stock ADD CONSTRAINT chk_current_stock_quantity CHECK (quantity >= 0);
  END IF;
END $$`},
		{"stock_movements positive quantity", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_stock_movements_quantity') THEN
    ALTER TABLE stock_movements ADD CONSTRAINT chk_stock_movements_quantity CHECK (quantity > 0);
  END IF;
END $$`},
		{"retail_sales store/date index",
			`CREATE INDEX IF NOT EXISTS idx_retail_sales_store_date ON retail_sales (store_id, sale_date)`},
		{"batches expiring partial index",
			`CREATE INDEX IF NOT EXISTS idx_batches_expiry_set ON batches (expiry_date) WHERE expiry_date IS NOT NULL`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}

// EnsureLocation inserts the location unless one with the same id exists.
// The server uses it for the main warehouse so batch intake always credits a
// location the warehouse rollups can see.
func EnsureLocation(db *gorm.DB, id, name, locationType string) error {
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&model.Location{
		LocationID:   id,
		LocationName: name,
		LocationType: locationType,
		Country:      "India",
	}).Error
}
