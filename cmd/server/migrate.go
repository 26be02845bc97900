package main

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kestrel-dev/shelf-api/internal/config"
	"github.com/kestrel-dev/shelf-api/internal/platform/logger"
	"github.com/kestrel-dev/shelf-api/internal/platform/postgres"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [" + strings.Join(postgres.MigrationCommands, "|") + "]",
		Short:     "Run database migrations",
		Long:      `Run the embedded SQL migrations against the configured Postgres database. The command defaults to up.`,
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), validMigrationCommand),
		ValidArgs: postgres.MigrationCommands,
		RunE:      runMigrate,
	}
}

func validMigrationCommand(_ *cobra.Command, args []string) error {
	if len(args) == 1 && !slices.Contains(postgres.MigrationCommands, args[0]) {
		return fmt.Errorf("unknown migration command %q (expected one of %s)",
			args[0], strings.Join(postgres.MigrationCommands, ", "))
	}
	return nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	command := "up"
	if len(args) == 1 {
		command = args[0]
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Database.Driver != config.DriverPostgres {
		return fmt.Errorf("migrations require the %s driver, configured driver is %s",
			config.DriverPostgres, cfg.Database.Driver)
	}

	log, closeLog, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	defer func() {
		_ = closeLog()
	}()

	ctx := background(cmd)
	db, err := setupAppDatabase(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}()

	return postgres.Migrate(ctx, db.DB, command, log)
}
