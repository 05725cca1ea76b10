package router

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	botbusiness "github.com/Conte777/NewsFlow/services/relay-service/internal/domain/bot/usecase/business"
	readerbusiness "github.com/Conte777/NewsFlow/services/relay-service/internal/domain/reader/usecase/business"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/relay/pipes"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/infrastructure/metrics"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/infrastructure/telegram"
)

// Module provides the router and ties its lifecycle to the application
var Module = fx.Module("router",
	fx.Provide(provideRouter),
	fx.Invoke(registerLifecycle),
)

func provideRouter(
	bot *telegram.Bot,
	client *telegram.Client,
	botActor *botbusiness.Actor,
	readerActor *readerbusiness.Actor,
	p *pipes.Pipes,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *Router {
	return New(bot, client, botActor, readerActor, p, m, logger)
}

func registerLifecycle(lc fx.Lifecycle, r *Router) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return r.Start(ctx)
		},
		OnStop: func(ctx context.Context) error {
			return r.Stop(ctx)
		},
	})
}
