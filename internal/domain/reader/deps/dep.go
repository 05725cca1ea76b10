// Package deps contains interface definitions for the reader domain dependencies
package deps

import (
	"context"

	"github.com/gotd/td/tg"

	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/relay/entities"
)

// Connection is the privileged MTProto connection of the reader account
type Connection interface {
	// ResolveChannel resolves a public broadcast channel by username
	ResolveChannel(ctx context.Context, username string) (entities.ChannelIdentity, error)

	// ChannelHistory returns up to limit latest messages of a resolved channel
	ChannelHistory(ctx context.Context, channelID int64, limit int) ([]*tg.Message, error)

	// Channels lists broadcast channels visible to the account
	Channels(ctx context.Context) ([]entities.ChannelIdentity, error)
}

// ContentSink receives content items read from channels
type ContentSink interface {
	Store(ctx context.Context, item entities.ContentItem) error
}
