package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/riteshkumar/clientes-api/internal/config"
	"github.com/riteshkumar/clientes-api/internal/database"
	"github.com/riteshkumar/clientes-api/internal/logging"
	"github.com/riteshkumar/clientes-api/internal/repository"
	"github.com/riteshkumar/clientes-api/internal/service"
)

const flagMigrate = "migrate"

// newRootCommand builds the command tree. Running the root with no
// subcommand serves HTTP.
func newRootCommand() *cobra.Command {
	v := config.New()

	rootCmd := &cobra.Command{
		Use:           "clientes",
		Short:         "Client account API: credit/debit transactions and statements",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			migrate, _ := cmd.Flags().GetBool(flagMigrate)
			return withApp(cmd.Context(), v, func(ctx context.Context, rt *app) error {
				if migrate {
					if err := migrateAndSeed(ctx, rt); err != nil {
						return err
					}
				}
				return serve(ctx, rt)
			})
		},
	}
	serveCmd.Flags().Bool(flagMigrate, false, "apply the schema and seed default accounts before serving")
	serveCmd.Flags().Int("port", 9999, "TCP listen port")
	v.BindPFlag(config.KeyPort, serveCmd.Flags().Lookup("port"))

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), v, func(ctx context.Context, rt *app) error {
				if err := database.Migrate(ctx, rt.db); err != nil {
					return err
				}
				rt.logger.Info("schema applied")
				return nil
			})
		},
	}

	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert the default accounts that do not exist yet",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), v, migrateAndSeed)
		},
	}

	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
	rootCmd.RunE = serveCmd.RunE
	rootCmd.Flags().AddFlagSet(serveCmd.Flags())

	return rootCmd
}

// app holds what every subcommand needs once bootstrap succeeded.
type app struct {
	cfg    config.Config
	logger *slog.Logger
	db     *sql.DB
}

func withApp(ctx context.Context, v *viper.Viper, fn func(ctx context.Context, rt *app) error) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.FromViper(v)
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		return err
	}

	logger := logging.New(os.Stdout, cfg.Logging)
	slog.SetDefault(logger)

	db, err := database.Open(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err.Error())
		return err
	}
	defer db.Close()

	logger.Info("connected to database successfully",
		"max_connections", cfg.Database.MaxConnections,
	)

	if err := fn(ctx, &app{cfg: cfg, logger: logger, db: db}); err != nil {
		logger.Error("command failed", "error", err.Error())
		return err
	}
	return nil
}

func migrateAndSeed(ctx context.Context, rt *app) error {
	if err := database.Migrate(ctx, rt.db); err != nil {
		return err
	}

	accountService := service.NewAccountService(
		repository.NewTxManager(rt.db),
		repository.NewAccountRepository(),
		rt.logger,
	)
	created, err := accountService.SeedAccounts(ctx, service.DefaultAccounts)
	if err != nil {
		return fmt.Errorf("failed to seed accounts: %w", err)
	}

	rt.logger.Info("accounts seeded", "created", created, "total", len(service.DefaultAccounts))
	return nil
}
