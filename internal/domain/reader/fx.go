package reader

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/Conte777/NewsFlow/services/relay-service/config"
	readertg "github.com/Conte777/NewsFlow/services/relay-service/internal/domain/reader/delivery/telegram"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/reader/usecase/business"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/relay/pipes"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/infrastructure/metrics"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/infrastructure/telegram"
)

// Module provides reader domain components for fx DI
var Module = fx.Module("reader",
	fx.Provide(
		provideActor,
		provideNormalizer,
	),
	fx.Invoke(registerNormalizer),
)

func provideActor(client *telegram.Client, logger zerolog.Logger) *business.Actor {
	return business.NewActor(client, logger)
}

func provideNormalizer(
	p *pipes.Pipes,
	cfg *config.RelayConfig,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *readertg.Normalizer {
	return readertg.NewNormalizer(p.ReaderContents, cfg.EnqueueTimeout, m, logger)
}

// registerNormalizer hooks the normalizer into the MTProto dispatcher before the client connects
func registerNormalizer(client *telegram.Client, n *readertg.Normalizer) {
	n.Register(client.Dispatcher())
}
