package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/hallatus/roundbooker/internal/config"
	"github.com/hallatus/roundbooker/pkg/core/engine"
	"github.com/hallatus/roundbooker/pkg/postgres"
)

// AppContext holds the application dependencies shared by all commands.
type AppContext struct {
	Cfg      *config.Config
	Database *postgres.DB
	Engine   *engine.Engine
	Round    *postgres.Round
	Logger   *zap.Logger
	Ctx      context.Context
}
