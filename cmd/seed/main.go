// seed loads a product catalog from YAML into the configured database.
//
//	go run ./cmd/seed -catalog catalog.yaml
package main

import (
	"context"
	"flag"
	"os"

	"stockdesk/internal/config"
	"stockdesk/internal/infra"
	"stockdesk/internal/repository"
	"stockdesk/internal/service"

	"github.com/rs/zerolog/log"
)

func main() {
	path := flag.String("catalog", "catalog.yaml", "YAML product catalog")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	infra.ConfigureLogger(cfg.IsProduction())

	f, err := os.Open(*path)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open catalog")
	}
	defer f.Close()

	items, err := readCatalog(f)
	if err != nil {
		log.Fatal().Err(err).Str("catalog", *path).Msg("invalid catalog")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	if err := infra.RunMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	svc := service.NewProductService(repository.NewProductRepository(db))
	n, err := seed(context.Background(), svc, items)
	if err != nil {
		log.Fatal().Err(err).Int("added", n).Msg("seed aborted")
	}
	log.Info().Int("added", n).Str("catalog", *path).Msg("catalog seeded")
}
