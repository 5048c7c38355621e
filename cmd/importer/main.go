package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/importer"
	"storefront/internal/logger"
	productrepo "storefront/internal/repository/product"
)

func main() {
	var (
		filePath string
		remote   bool
	)
	flag.StringVar(&filePath, "file", "", "Path to a product CSV export (id,title,price,description,image)")
	flag.BoolVar(&remote, "remote", false, "Copy the remote catalog at STOREFRONT_CATALOG_URL")
	flag.Parse()

	if (filePath == "") == !remote {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New(logger.Options{Service: "importer"})
		bootLog.Fatal().Err(err).Msg("load config")
	}
	log := logger.New(logger.Options{Service: "importer", Level: cfg.LogLevel, Format: cfg.LogFormat})
	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		log.Fatal().Err(err).Msg("connect db")
	}
	defer pool.Close()

	imp := importer.New(productrepo.NewPostgres(pool, log), log)

	start := time.Now()
	var count int
	if remote {
		count, err = imp.Sync(ctx, catalog.NewRemoteProvider(cfg.CatalogURL, cfg.CatalogTimeout, log))
	} else {
		var f *os.File
		f, err = os.Open(filePath)
		if err != nil {
			log.Fatal().Err(err).Msg("open file")
		}
		defer f.Close()
		count, err = imp.ImportCSV(ctx, f)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("import failed")
	}

	fmt.Printf("Imported %d products in %s\n", count, time.Since(start).Truncate(time.Millisecond))
}
