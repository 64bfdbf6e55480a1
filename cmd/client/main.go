package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/skillswap/internal/buildinfo"
	"github.com/dmitrijs2005/skillswap/internal/client/cli"
	"github.com/dmitrijs2005/skillswap/internal/client/client"
	"github.com/dmitrijs2005/skillswap/internal/client/config"
	"github.com/dmitrijs2005/skillswap/internal/client/metrics"
	"github.com/dmitrijs2005/skillswap/internal/client/mirror"
	"github.com/dmitrijs2005/skillswap/internal/client/repositories"
	"github.com/dmitrijs2005/skillswap/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/skillswap/internal/client/services"
	"github.com/dmitrijs2005/skillswap/internal/client/session"
	"github.com/dmitrijs2005/skillswap/internal/client/syncer"
	"github.com/dmitrijs2005/skillswap/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()

	logger, err := logging.New(cfg.LogFormat, cfg.LogLevel, os.Stderr)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error(ctx, "client stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger logging.Logger) error {
	db, err := repositories.InitDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	api, err := client.NewHTTPClient(cfg.APIBaseURL, client.Options{
		Timeout:    cfg.RequestTimeout,
		UseCookies: cfg.UseCookies,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	store, err := session.NewStore(ctx, api, metadata.NewSQLiteRepository(db), logger)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	m := mirror.New()
	sy := syncer.New(api, store, m, syncer.Options{
		RefreshTimeout: cfg.RefreshTimeout,
		Metrics:        metrics.NewSync(reg),
		Logger:         logger,
	})
	defer logRefreshStats(ctx, logger, reg)

	svc := services.NewAppService(api, store, m, sy, logger)

	// initial load; a persisted token is used as is until the server
	// rejects it
	if err := svc.Refresh(ctx); err != nil {
		logger.Warn(ctx, "initial refresh failed", "error", err)
	}

	cli.NewApp(svc, os.Stdin, os.Stdout).Run(ctx)
	return nil
}

// logRefreshStats writes the refresh counters gathered during the run at
// debug level.
func logRefreshStats(ctx context.Context, logger logging.Logger, reg prometheus.Gatherer) {
	families, err := reg.Gather()
	if err != nil {
		logger.Warn(ctx, "gather refresh metrics", "error", err)
		return
	}
	for _, mf := range families {
		for _, mt := range mf.GetMetric() {
			args := []any{"metric", mf.GetName(), "value", mt.GetCounter().GetValue()}
			for _, lp := range mt.GetLabel() {
				args = append(args, lp.GetName(), lp.GetValue())
			}
			logger.Debug(ctx, "refresh stats", args...)
		}
	}
}
