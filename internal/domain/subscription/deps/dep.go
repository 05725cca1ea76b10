// Package deps contains interface definitions for the subscription domain dependencies
package deps

import (
	"context"

	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/subscription/entities"
)

// Repository persists users, channels and their associations
type Repository interface {
	// SaveUser inserts the user or updates its chat and enabled flag
	SaveUser(ctx context.Context, user *entities.User) error

	// GetUser returns ErrUserNotFound for unknown users
	GetUser(ctx context.Context, userID int64) (*entities.User, error)

	// SaveChannel upserts the channel by username and fills its ID
	SaveChannel(ctx context.Context, channel *entities.Channel) error

	// AddUserChannel links a user with a channel, ignoring existing links
	AddUserChannel(ctx context.Context, userID int64, channelID uint) error

	// RemoveUserChannel unlinks a user from the channel with the given username
	RemoveUserChannel(ctx context.Context, userID int64, username string) error

	// GetUserChannels returns the user's channels ordered by username
	GetUserChannels(ctx context.Context, userID int64) ([]entities.Channel, error)
}
