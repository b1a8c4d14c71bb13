package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"bom-sourcing/internal/catalog"
	catHnd "bom-sourcing/internal/catalog/handler"
	"bom-sourcing/internal/config"
	"bom-sourcing/internal/fileio"
	matchHnd "bom-sourcing/internal/matching/handler"
	"bom-sourcing/internal/matching/service"
	"bom-sourcing/internal/scheduler"
	serverhttp "bom-sourcing/server/http"
)

var rootCmd = &cobra.Command{
	Use:          "bom-sourcing",
	Short:        "Match a BOM against the supplier parts catalog",
	SilenceUsage: true,
	RunE:         func(cmd *cobra.Command, args []string) error { return serve() },
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  func(cmd *cobra.Command, args []string) error { return serve() },
}

func main() {
	rootCmd.AddCommand(serveCmd, matchCmd, seedCmd, importCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openCatalog opens the store and seeds it from the sample sheet on first run.
func openCatalog(cfg config.Config, logger zerolog.Logger) (*catalog.Store, error) {
	store, err := catalog.Open(cfg.DBPath, logger)
	if err != nil {
		return nil, err
	}
	if err := seed(context.Background(), store, cfg.SeedFile, logger); err != nil {
		logger.Warn().Err(err).Str("file", cfg.SeedFile).Msg("seed skipped")
	}
	return store, nil
}

func seed(ctx context.Context, store *catalog.Store, path string, logger zerolog.Logger) error {
	var rows []catalog.PartRow
	if f, err := os.Open(path); err == nil {
		recs, rerr := fileio.ReadRecords(f, path, 1)
		f.Close()
		if rerr != nil {
			return fmt.Errorf("read seed file: %w", rerr)
		}
		rows = catalog.RowsFromRecords(recs)
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	seeded, stats, err := store.SeedIfEmpty(ctx, rows)
	if err != nil {
		return err
	}
	if seeded {
		logger.Info().Int("imported", stats.Imported).Int("skipped", stats.Skipped).Msg("catalog seeded")
	}
	return nil
}

func serve() error {
	cfg := config.Load()
	logger := config.SetupLogger(cfg)

	store, err := openCatalog(cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("open catalog")
		return err
	}
	defer store.Close()

	meta := scheduler.NewMetaStore(cfg.MetaPath)
	sched := scheduler.New(meta, store, logger)
	if err := sched.Start(cfg.RefreshCron); err != nil {
		logger.Error().Err(err).Msg("scheduler")
		return err
	}
	defer sched.Stop()

	engine := service.New(logger)
	r := serverhttp.NewRouter(cfg, logger, serverhttp.Handlers{
		Match:   matchHnd.New(store, engine, logger, cfg.MinSimilarity, cfg.MatchWorkers),
		Catalog: catHnd.New(store, sched, meta, logger),
	})

	srv := &http.Server{Addr: cfg.Addr(), Handler: r, ReadHeaderTimeout: 10 * time.Second}
	logger.Info().Str("addr", cfg.Addr()).Msg("server starting")

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		logger.Error().Err(err).Msg("listen")
		return err
	}
	logger.Info().Msg("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	logger.Info().Msg("bye")
	return nil
}
