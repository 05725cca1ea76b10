// Package relay wires the shared relay pipes
package relay

import (
	"go.uber.org/fx"

	"github.com/Conte777/NewsFlow/services/relay-service/config"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/relay/pipes"
)

// Module provides the relay pipes for fx dependency injection
var Module = fx.Module("relay",
	fx.Provide(providePipes),
)

func providePipes(cfg *config.RelayConfig) *pipes.Pipes {
	return pipes.New(cfg.EventBuffer, cfg.PipeCapacity)
}
