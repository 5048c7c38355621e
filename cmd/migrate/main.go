package main

import (
	"context"
	"flag"

	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/logger"
	"storefront/internal/migrate"
)

func main() {
	down := flag.Bool("down", false, "Revert every migration instead of applying them")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New(logger.Options{Service: "migrate"})
		bootLog.Fatal().Err(err).Msg("load config")
	}
	log := logger.New(logger.Options{Service: "migrate", Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		log.Fatal().Err(err).Msg("connect db")
	}
	defer pool.Close()

	if *down {
		if err := migrate.Rollback(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("rollback migrations")
		}
		log.Info().Msg("migrations rolled back")
		return
	}

	version, err := migrate.Apply(ctx, pool)
	if err != nil {
		log.Fatal().Err(err).Msg("apply migrations")
	}
	log.Info().Uint("version", version).Msg("migrations applied")
}
