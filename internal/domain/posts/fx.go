package posts

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/Conte777/NewsFlow/services/relay-service/config"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/posts/deps"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/posts/repository/postgres"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/posts/usecase/business"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/posts/workers"
	readerbusiness "github.com/Conte777/NewsFlow/services/relay-service/internal/domain/reader/usecase/business"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/infrastructure/metrics"
)

// Module provides posts domain components for fx DI
var Module = fx.Module("posts",
	fx.Provide(
		postgres.NewRepository,
		NewUseCase,
	),
	fx.Invoke(func(reader *readerbusiness.Actor, uc *business.UseCase) {
		reader.SetSink(uc)
	}),
	workers.Module,
)

func NewUseCase(
	reader *readerbusiness.Actor,
	repo deps.Repository,
	publisher deps.Publisher,
	cfg *config.SyncConfig,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *business.UseCase {
	return business.NewUseCase(reader, repo, publisher, cfg.HistoryLimit, m, logger)
}
