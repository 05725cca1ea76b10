package workers

import (
	"context"

	"go.uber.org/fx"

	"github.com/Conte777/NewsFlow/services/relay-service/config"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/infrastructure/telegram"
)

// Module provides posts workers for fx DI
var Module = fx.Module("posts-workers",
	fx.Provide(
		func(c *telegram.Client) Readiness { return c },
		NewSyncWorker,
	),
	fx.Invoke(registerLifecycle),
)

// registerLifecycle registers the sync worker with fx.Lifecycle when sync is enabled
func registerLifecycle(lc fx.Lifecycle, cfg *config.SyncConfig, w *SyncWorker) {
	if !cfg.Enabled {
		return
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			w.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			w.Stop()
			return nil
		},
	})
}
