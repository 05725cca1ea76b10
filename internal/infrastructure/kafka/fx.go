package kafka

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/Conte777/NewsFlow/services/relay-service/config"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/posts/deps"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/infrastructure/metrics"
)

// Module provides the post event publisher for fx DI
var Module = fx.Module("kafka",
	fx.Provide(NewPublisherFx),
)

// NewPublisherFx creates a Kafka publisher, or a no-op one when no broker is configured
func NewPublisherFx(
	lc fx.Lifecycle,
	cfg *config.KafkaConfig,
	m *metrics.Metrics,
	logger zerolog.Logger,
) (deps.Publisher, error) {
	if !cfg.Enabled() {
		logger.Info().Msg("Kafka brokers not configured, post events are not published")
		return NoopPublisher{}, nil
	}

	producer, err := NewProducer(cfg.Brokers, cfg.TopicPosts, m, logger)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return producer.Close()
		},
	})

	return producer, nil
}
