package http

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/router"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/infrastructure/http/server"
)

// Module registers the health endpoint on the HTTP server
var Module = fx.Module("http-delivery",
	fx.Invoke(registerHealth),
)

func registerHealth(srv *server.Server, r *router.Router, logger zerolog.Logger) {
	srv.Router.GET("/health", NewHealthHandler(r, logger).Handle)
}
