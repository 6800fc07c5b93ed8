// cmd/syncproducts upserts the product catalog from a CSV or XLSX sheet.
// Usage: go run ./cmd/syncproducts [-file products.csv]
package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"

	"github.com/yashas-13/inv-123/internal/config"
	"github.com/yashas-13/inv-123/internal/infra"
	"github.com/yashas-13/inv-123/internal/repository"
	"github.com/yashas-13/inv-123/internal/service"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	infra.SetupLogger(cfg.Env, cfg.LogLevel)

	path := flag.String("file", cfg.ProductsCSVPath, "product sheet (.csv or .xlsx)")
	flag.Parse()

	f, err := os.Open(*path)
	if err != nil {
		log.Warn().Str("file", *path).Msg("product sheet not found; nothing to sync")
		return
	}
	defer f.Close()

	db, err := infra.NewDatabase(cfg.DatabaseURL, infra.DBOptions{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	catalog := service.NewCatalogService(
		repository.NewProductRepository(db),
		repository.NewLocationRepository(db),
		repository.NewAgentRepository(db),
		repository.NewRetailPartnerRepository(db),
		nil,
	)
	n, err := catalog.SyncProducts(context.Background(), f, filepath.Base(*path))
	if err != nil {
		log.Fatal().Err(err).Str("file", *path).Msg("sync failed")
	}
	log.Info().Int("count", n).Str("file", *path).Msg("products synced")
}
