package main

import (
	"context"

	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/logger"
	productrepo "storefront/internal/repository/product"
	"storefront/internal/seed"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New(logger.Options{Service: "seed"})
		bootLog.Fatal().Err(err).Msg("load config")
	}
	log := logger.New(logger.Options{Service: "seed", Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		log.Fatal().Err(err).Msg("connect db")
	}
	defer pool.Close()

	if err := seed.Apply(ctx, productrepo.NewPostgres(pool, log)); err != nil {
		log.Fatal().Err(err).Msg("seed apply")
	}

	log.Info().Int("products", len(seed.DemoProducts())).Msg("seed applied")
}
