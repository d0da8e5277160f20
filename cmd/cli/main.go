package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hallatus/roundbooker/cmd/cli/commands"
	"github.com/hallatus/roundbooker/internal/config"
	"github.com/hallatus/roundbooker/pkg/core/engine"
	"github.com/hallatus/roundbooker/pkg/postgres"
	"github.com/hallatus/roundbooker/pkg/utils/logging"
)

var app *commands.AppContext

func main() {
	rootCmd := &cobra.Command{
		Use:   "roundbooker",
		Short: "Roundbooker CLI - Allocate seasonal application rounds",
		Long:  "A staff tool for allocating recurring reservation requests to reservation units and weekly time slots.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil {
				if app.Logger != nil {
					app.Logger.Sync()
				}
				if app.Database != nil {
					app.Database.Close()
				}
			}
		},
	}

	rootCmd.AddCommand(commands.ListSectionsCmd(appRef()))
	rootCmd.AddCommand(commands.SummaryCmd(appRef()))
	rootCmd.AddCommand(commands.AcceptSlotCmd(appRef()))
	rootCmd.AddCommand(commands.RemoveAllocationCmd(appRef()))
	rootCmd.AddCommand(commands.LockOptionCmd(appRef()))
	rootCmd.AddCommand(commands.RejectOptionCmd(appRef()))
	rootCmd.AddCommand(commands.PreviewSeriesCmd(appRef()))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// appRef returns the shared AppContext, which is populated lazily by
// initApp before any command runs.
func appRef() *commands.AppContext {
	if app == nil {
		app = &commands.AppContext{}
	}
	return app
}

// initApp sets up logger, config, database, and the allocation engine.
func initApp() error {
	appRef()
	app.Ctx = context.Background()

	var err error
	app.Logger, err = logging.InitLogger("roundbooker")
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application")

	app.Cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully")

	app.Database, err = postgres.NewDB(app.Ctx, app.Cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := app.Database.RunMigrations(app.Ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	app.Logger.Debug("Database ready")

	app.Round, err = app.Database.GetRound(app.Ctx, app.Cfg.ApplicationRoundID)
	if err != nil {
		return fmt.Errorf("failed to load application round: %w", err)
	}
	app.Logger.Info("Application round loaded",
		zap.String("round_id", app.Round.ID),
		zap.String("round_name", app.Round.Name),
		zap.Bool("allocation_enabled", app.Round.AllocationEnabled))

	app.Engine = engine.New(app.Database, app.Logger, engine.Config{
		AllocationEnabled: app.Round.AllocationEnabled,
	})

	return nil
}
