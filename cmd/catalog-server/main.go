// Command catalog-server serves the catalog read API and its admin writes
// over HTTP, with reads cached and kept coherent by store change events.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-catalog-cache/catalogcache"
	"github.com/goliatone/go-catalog-cache/internal/config"
	"github.com/goliatone/go-catalog-cache/internal/logging"
	"github.com/goliatone/go-catalog-cache/internal/seed"
	httptransport "github.com/goliatone/go-catalog-cache/internal/transport/http"
	"github.com/goliatone/go-catalog-cache/pkg/di"
	"github.com/goliatone/go-catalog-cache/store"
	"github.com/goliatone/go-catalog-cache/store/bunstore"
	"github.com/goliatone/go-catalog-cache/store/memory"
)

const shutdownTimeout = 5 * time.Second

func main() {
	withSeed := flag.Bool("seed", false, "load the demo catalog into the store on startup")
	flag.Parse()

	if err := run(*withSeed); err != nil {
		fmt.Fprintf(os.Stderr, "catalog-server: %v\n", err)
		os.Exit(1)
	}
}

func run(withSeed bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log, os.Stderr)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, closeStore, err := openStore(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer closeStore()

	if withSeed {
		if _, err := seed.Load(ctx, st, seed.Default()); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		logger.Info().Msg("demo catalog loaded")
	}

	container, err := di.NewContainer(cfg.Cache, di.WithLogger(logging.Component(logger, "cache")))
	if err != nil {
		return err
	}
	reads, detach := container.Catalog(st,
		catalogcache.WithMaxPageSize(cfg.MaxPageSize),
		catalogcache.WithCouponRestriction(cfg.RestrictCoupons),
	)
	defer detach()

	handler := httptransport.NewHandler(reads, st,
		httptransport.WithLogger(logging.Component(logger, "http")),
		httptransport.WithDefaultPageSize(cfg.DefaultPageSize),
	)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", cfg.Addr).
			Str("driver", cfg.DB.Driver).
			Dur("list_ttl", cfg.Cache.ListTTL).
			Dur("detail_ttl", cfg.Cache.DetailTTL).
			Msg("catalog server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	}

	return shutdown(srv, logger)
}

func shutdown(srv *http.Server, logger zerolog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn().Err(err).Msg("graceful shutdown timed out")
		return srv.Close()
	}
	logger.Info().Msg("server stopped")
	return nil
}

// openStore returns the Entity Store selected by cfg and a func releasing it.
func openStore(ctx context.Context, cfg config.DB) (store.Store, func(), error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return memory.New(), func() {}, nil
	case config.DriverSQLite, config.DriverPostgres:
		st, err := bunstore.Open(ctx, cfg.Driver, cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		return st, func() { _ = st.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported store driver %q", cfg.Driver)
	}
}
