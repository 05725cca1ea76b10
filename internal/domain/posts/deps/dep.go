// Package deps contains interface definitions for the posts domain dependencies
package deps

import (
	"context"

	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/posts/dto"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/posts/entities"
	relayentities "github.com/Conte777/NewsFlow/services/relay-service/internal/domain/relay/entities"
)

// Reader reads channels through the reader account
type Reader interface {
	ResolveChannel(ctx context.Context, name string) (relayentities.ChannelIdentity, error)
	FetchHistory(ctx context.Context, chatID int64, limit int) ([]relayentities.ContentItem, error)
}

// Repository persists posts of subscribed channels
type Repository interface {
	// ChannelByTelegramID returns ErrChannelUnknown when no user ever subscribed to the channel
	ChannelByTelegramID(ctx context.Context, telegramID int64) (entities.ChannelRef, error)

	// SubscribedChannels returns channels with at least one subscriber
	SubscribedChannels(ctx context.Context) ([]entities.ChannelRef, error)

	// KnownPostIDs returns the Telegram ids already stored for a channel
	KnownPostIDs(ctx context.Context, channelID uint) (map[int]struct{}, error)

	// SavePost stores a post and reports whether it was new
	SavePost(ctx context.Context, post *entities.Post) (bool, error)
}

// Publisher announces newly stored posts
type Publisher interface {
	PublishPost(ctx context.Context, event dto.PostEvent) error
}
