package bot

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/Conte777/NewsFlow/services/relay-service/config"
	bottg "github.com/Conte777/NewsFlow/services/relay-service/internal/domain/bot/delivery/telegram"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/bot/usecase/business"
	readerbusiness "github.com/Conte777/NewsFlow/services/relay-service/internal/domain/reader/usecase/business"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/relay/pipes"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/infrastructure/metrics"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/infrastructure/telegram"
)

// Module provides bot domain components for fx DI
var Module = fx.Module("bot",
	fx.Provide(
		provideActor,
		provideNormalizer,
	),
	fx.Invoke(func(b *telegram.Bot, n *bottg.Normalizer) {
		b.SetUpdateHandler(n.Handle)
	}),
)

func provideActor(
	b *telegram.Bot,
	reader *readerbusiness.Actor,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *business.Actor {
	return business.NewActor(b, reader, m, logger)
}

func provideNormalizer(
	p *pipes.Pipes,
	cfg *config.RelayConfig,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *bottg.Normalizer {
	return bottg.NewNormalizer(p.BotEvents, cfg.EnqueueTimeout, m, logger)
}
