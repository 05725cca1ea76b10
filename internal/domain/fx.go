// Package domain contains all domain modules
package domain

import (
	"go.uber.org/fx"

	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/bot"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/posts"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/reader"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/relay"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/router"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/subscription"
)

// Module aggregates all domain modules for fx dependency injection
var Module = fx.Module("domain",
	relay.Module,
	reader.Module,
	bot.Module,
	subscription.Module,
	posts.Module,
	router.Module,
)
