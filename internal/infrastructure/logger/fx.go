package logger

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/Conte777/NewsFlow/services/relay-service/config"
)

// Module provides logger for fx dependency injection
var Module = fx.Module("logger",
	fx.Provide(provideLogger),
)

func provideLogger(logging *config.LoggingConfig, service *config.ServiceConfig) zerolog.Logger {
	return New(logging.Level, service.Name)
}
