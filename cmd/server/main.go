package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/stoplight/internal/config"
	"github.com/JonMunkholm/stoplight/internal/core"
	"github.com/JonMunkholm/stoplight/internal/logging"
	"github.com/JonMunkholm/stoplight/internal/store"
	"github.com/JonMunkholm/stoplight/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"db_max_conns", cfg.Database.MaxConns,
		"csv_escape", cfg.Report.CSVEscape,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)
	slog.Debug("effective configuration", "config", cfg.String())

	ctx := context.Background()
	pool, err := store.Open(ctx, cfg.Database)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	db := store.New(pool)
	var surveys core.SurveyStore
	if cfg.Report.SurveyCacheTTL > 0 {
		surveys = store.NewCachedSurveys(db, cfg.Report.SurveyCacheTTL)
	}

	service, err := core.NewService(db.Stores(surveys), core.Options{
		StaticProperties:     core.StaticProperties(cfg.Report.StaticProperties),
		DateLayout:           cfg.Report.DateLayout,
		MaxConcurrentReports: cfg.Report.MaxConcurrent,
		ReportWait:           cfg.Report.MaxWait,
	})
	if err != nil {
		slog.Error("failed to create service", "error", err)
		os.Exit(1)
	}

	server := web.NewServer(service, cfg)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	if err := serve(stop, server, service, cfg.Server.ShutdownTimeout); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

type httpServer interface {
	Start() error
	Shutdown(ctx context.Context) error
}

type reportDrainer interface {
	WaitForReports(ctx context.Context) error
}

// serve runs srv until stop fires, then shuts it down and waits for reports
// still being assembled. It returns only after the drain finishes or the
// timeout expires.
func serve(stop <-chan os.Signal, srv httpServer, reports reportDrainer, timeout time.Duration) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		<-stop

		slog.Info("shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
		if err := reports.WaitForReports(ctx); err != nil {
			slog.Warn("reports did not complete in time", "error", err)
		}
	}()

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-done
	return nil
}
