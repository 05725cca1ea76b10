// Package deps contains interface definitions for the bot domain dependencies
package deps

import (
	"context"

	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/bot/consts"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/relay/entities"
)

// Sender is the outbound side of the bot connection
type Sender interface {
	// SendMessage sends a text message to a chat
	SendMessage(ctx context.Context, chatID int64, text string) error

	// SetCommands publishes the command menu
	SetCommands(ctx context.Context, commands []consts.Command) error

	// SelfID returns the bot's own user id
	SelfID(ctx context.Context) (int64, error)
}

// ChannelResolver resolves public channels through the reader connection
type ChannelResolver interface {
	ResolveChannel(ctx context.Context, name string) (entities.ChannelIdentity, error)
}
