package telegram

import (
	"os"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/Conte777/NewsFlow/services/relay-service/config"
)

// Module provides both Telegram connections for fx dependency injection.
// Connecting and disconnecting is owned by the router.
var Module = fx.Module("telegram",
	fx.Provide(
		provideBot,
		provideSessionStorage,
		NewUpdatesStateStorage,
		provideClient,
	),
)

func provideBot(cfg *config.TelegramConfig, logger zerolog.Logger) (*Bot, error) {
	return NewBot(cfg.BotToken, logger)
}

func provideSessionStorage(db *gorm.DB, cfg *config.TelegramConfig) (*PostgresSessionStorage, error) {
	return NewPostgresSessionStorage(db, cfg.Phone)
}

func provideClient(
	cfg *config.TelegramConfig,
	sessionStorage *PostgresSessionStorage,
	stateStorage *UpdatesStateStorage,
	logger zerolog.Logger,
) (*Client, error) {
	return NewClient(ClientConfig{
		APIID:       cfg.APIID,
		APIHash:     cfg.APIHash,
		Phone:       cfg.Phone,
		AuthTimeout: cfg.AuthTimeout,
	}, sessionStorage, stateStorage, NewConsolePrompt(os.Stdin, os.Stdout), logger)
}
