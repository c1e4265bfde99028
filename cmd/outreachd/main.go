// Command outreachd serves the outreach campaign API: campaign management,
// profile scraping and personalized message drafting.
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

	"go.uber.org/zap"

	"github.com/outflo/outreach-service/internal/api"
	"github.com/outflo/outreach-service/internal/clock/system"
	"github.com/outflo/outreach-service/internal/config"
	"github.com/outflo/outreach-service/internal/logging"
	"github.com/outflo/outreach-service/internal/message"
	"github.com/outflo/outreach-service/internal/metrics"
	"github.com/outflo/outreach-service/internal/outreach"
	"github.com/outflo/outreach-service/internal/scraper"
	"github.com/outflo/outreach-service/internal/storage/memory"
	"github.com/outflo/outreach-service/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "outreachd: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	metrics.Init()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		profileStore  outreach.ProfileStore
		campaignStore outreach.CampaignStore
	)
	if cfg.DB.DSN != "" {
		pool, err := postgres.Connect(ctx, cfg.DB)
		if err != nil {
			return err
		}
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool); err != nil {
			return err
		}
		profileStore = postgres.NewProfileStore(pool)
		campaignStore = postgres.NewCampaignStore(pool)
		logger.Info("using postgres stores")
	} else {
		profileStore = memory.NewProfileStore()
		campaignStore = memory.NewCampaignStore(system.New())
		logger.Warn("db.dsn not set, using in-memory stores")
	}

	var sessions scraper.SessionFactory
	if cfg.Scraper.SessionCookie != "" {
		launcher, err := scraper.NewLauncher(cfg.Scraper)
		if err != nil {
			return err
		}
		defer launcher.Close()
		sessions = launcher
	} else {
		logger.Warn("scraper.session_cookie not set, scraping disabled")
		sessions = scraper.Disabled{}
	}

	engine := scraper.NewEngine(
		scraper.Config{
			DefaultMaxProfiles: cfg.Scraper.MaxProfilesDefault,
			EmptyPageLimit:     cfg.Scraper.EmptyPageLimit,
		},
		sessions,
		profileStore,
		system.New(),
		logger,
	)
	drafter := message.NewClient(cfg.LLM, logger)
	server := api.NewServer(campaignStore, profileStore, engine, drafter, logger)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}
