// Package app contains application bootstrap
package app

import (
	"go.uber.org/fx"

	"github.com/Conte777/NewsFlow/services/relay-service/config"
	httpdelivery "github.com/Conte777/NewsFlow/services/relay-service/internal/delivery/http"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/infrastructure"
)

// CreateApp creates fx application with all modules
func CreateApp() fx.Option {
	return fx.Options(
		fx.Provide(config.Out),

		infrastructure.Module,
		domain.Module,

		// Health endpoint, needs the router
		httpdelivery.Module,
	)
}
