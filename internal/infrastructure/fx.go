package infrastructure

import (
	"go.uber.org/fx"

	"github.com/Conte777/NewsFlow/services/relay-service/internal/infrastructure/database"
	httpfx "github.com/Conte777/NewsFlow/services/relay-service/internal/infrastructure/http"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/infrastructure/kafka"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/infrastructure/logger"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/infrastructure/metrics"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/infrastructure/telegram"
)

// Module aggregates all infrastructure modules
var Module = fx.Module("infrastructure",
	logger.Module,
	database.Module, // telegram session storage depends on *gorm.DB
	metrics.Module,
	telegram.Module,
	kafka.Module,
	httpfx.Module,
)
