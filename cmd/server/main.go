package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/hallatus/roundbooker/internal/config"
	"github.com/hallatus/roundbooker/pkg/core/engine"
	"github.com/hallatus/roundbooker/pkg/httpapi"
	"github.com/hallatus/roundbooker/pkg/postgres"
	"github.com/hallatus/roundbooker/pkg/utils/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "roundbooker-server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	logger, err := logging.InitLogger("roundbooker-server")
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	database, err := postgres.NewDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	if err := database.RunMigrations(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	round, err := database.GetRound(ctx, cfg.ApplicationRoundID)
	if err != nil {
		return fmt.Errorf("failed to load application round: %w", err)
	}
	logger.Info("Application round loaded",
		zap.String("round_id", round.ID),
		zap.String("round_name", round.Name),
		zap.Bool("allocation_enabled", round.AllocationEnabled))

	eng := engine.New(database, logger, engine.Config{
		AllocationEnabled: round.AllocationEnabled,
	})

	router := httpapi.NewRouter(&httpapi.Handler{
		Engine: eng,
		Store:  database,
		Logger: logger,
	})

	logger.Info("Starting staff allocation API", zap.String("addr", cfg.ListenAddr))
	if err := router.Run(cfg.ListenAddr); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}

	return nil
}
