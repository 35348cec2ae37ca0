package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/stoplight/internal/config"
	"github.com/JonMunkholm/stoplight/internal/core"
	"github.com/JonMunkholm/stoplight/internal/logging"
	"github.com/JonMunkholm/stoplight/internal/store"
)

// env is what every subcommand runs against.
type env struct {
	cfg     *config.Config
	pool    *pgxpool.Pool
	service *core.Service
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "pspreport",
		Short: "Export poverty stoplight reports as CSV",
		Long: `Export poverty stoplight survey reports as CSV.

Configuration comes from the same environment variables as the server
(DATABASE_URL, REPORT_*, LOG_*); a .env file in the working directory
is loaded first.

Examples:
  pspreport snapshots --from 2024-01-01 --to 2024-12-31 --org 3
  pspreport survey --survey 2 --from 2024-01-01 --to 2024-06-30 --out survey.csv
  pspreport families --from 2024-01-01 --to 2024-12-31 --escape
  pspreport migrate`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newSnapshotsCmd(),
		newSurveyCmd(),
		newFamiliesCmd(),
		newMigrateCmd(),
	)
	return root
}

// setup loads configuration, logs to stderr and connects to the database.
// The caller closes env.pool.
func setup(ctx context.Context) (*env, error) {
	_ = godotenv.Overload()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	// stdout may carry the CSV.
	logging.SetupWriter(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)

	pool, err := store.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	db := store.New(pool)
	service, err := core.NewService(db.Stores(nil), core.Options{
		StaticProperties:     core.StaticProperties(cfg.Report.StaticProperties),
		DateLayout:           cfg.Report.DateLayout,
		MaxConcurrentReports: cfg.Report.MaxConcurrent,
		ReportWait:           cfg.Report.MaxWait,
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("create service: %w", err)
	}

	slog.Debug("pspreport ready", "config", cfg.String())
	return &env{cfg: cfg, pool: pool, service: service}, nil
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the reporting tables if they do not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer e.pool.Close()
			return store.Migrate(cmd.Context(), e.pool)
		},
	}
}
