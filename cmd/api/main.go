package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/domain"
	"storefront/internal/httpserver"
	"storefront/internal/logger"
	"storefront/internal/metrics"
	productrepo "storefront/internal/repository/product"
	"storefront/internal/storefront"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New(logger.Options{Service: "api"})
		bootLog.Fatal().Err(err).Msg("load config")
	}
	log := logger.New(logger.Options{Service: "api", Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	provider, closeProvider, err := buildProvider(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init catalog provider")
	}
	defer closeProvider()

	store := cart.NewStore(m)
	if err := store.Subscribe(func(c domain.Cart) {
		log.Debug().Int("lines", len(c.Items)).Str("total", c.Total().StringFixed(2)).Msg("cart changed")
	}); err != nil {
		log.Fatal().Err(err).Msg("subscribe to cart")
	}

	session := storefront.New(provider, store, log, m)
	defer session.Close()
	session.Load(ctx)

	srv, err := httpserver.New(cfg.HTTPAddr, log, httpserver.Deps{
		Session:     session,
		Gatherer:    reg,
		CORSOrigins: cfg.CORSOrigins,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("init server")
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Str("catalog", cfg.CatalogSource).Msg("starting http server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("received signal, shutting down")
	case err := <-serverErr:
		log.Error().Err(err).Msg("server error")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	} else {
		log.Info().Msg("server stopped")
	}
}

func buildProvider(ctx context.Context, cfg config.Config, log zerolog.Logger) (catalog.Provider, func(), error) {
	if cfg.CatalogSource != config.SourcePostgres {
		return catalog.NewRemoteProvider(cfg.CatalogURL, cfg.CatalogTimeout, log), func() {}, nil
	}
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		return nil, nil, err
	}
	repo := productrepo.NewPostgres(pool, log)
	return catalog.ProviderFunc(repo.List), pool.Close, nil
}
