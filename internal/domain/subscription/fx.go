package subscription

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/relay/pipes"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/subscription/repository/postgres"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/subscription/usecase/business"
)

var Module = fx.Module(
	"subscription",
	fx.Provide(
		postgres.NewRepository,
		business.NewUseCase,
	),
	fx.Invoke(registerServeLoop),
)

// registerServeLoop runs the application layer on the router's outbound pipes
func registerServeLoop(lc fx.Lifecycle, uc *business.UseCase, p *pipes.Pipes, log zerolog.Logger) {
	serveCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				defer close(done)
				if err := uc.Serve(serveCtx, p.AppRequests, p.AppResponses); err != nil {
					log.Error().Err(err).Msg("subscription serve loop stopped")
				}
			}()
			log.Info().Msg("subscription serve loop started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("stopping subscription serve loop...")
			cancel()
			select {
			case <-done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})
}
