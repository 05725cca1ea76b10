package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/posts/deps"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/posts/entities"
	postserrors "github.com/Conte777/NewsFlow/services/relay-service/internal/domain/posts/errors"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) deps.Repository {
	return &Repository{db: db}
}

func (r *Repository) ChannelByTelegramID(ctx context.Context, telegramID int64) (entities.ChannelRef, error) {
	var ref entities.ChannelRef
	err := r.db.WithContext(ctx).
		Table("channels").
		Select("id, telegram_id, username").
		Where("telegram_id = ?", telegramID).
		Take(&ref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entities.ChannelRef{}, postserrors.ErrChannelUnknown
	}
	if err != nil {
		return entities.ChannelRef{}, dbError(err)
	}
	return ref, nil
}

func (r *Repository) SubscribedChannels(ctx context.Context) ([]entities.ChannelRef, error) {
	var refs []entities.ChannelRef
	err := r.db.WithContext(ctx).
		Table("channels").
		Select("DISTINCT channels.id, channels.telegram_id, channels.username").
		Joins("JOIN user_channels ON user_channels.channel_id = channels.id").
		Order("channels.username").
		Scan(&refs).Error
	if err != nil {
		return nil, dbError(err)
	}
	return refs, nil
}

func (r *Repository) KnownPostIDs(ctx context.Context, channelID uint) (map[int]struct{}, error) {
	var ids []int
	err := r.db.WithContext(ctx).
		Model(&entities.Post{}).
		Where("channel_id = ?", channelID).
		Pluck("telegram_id", &ids).Error
	if err != nil {
		return nil, dbError(err)
	}

	known := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		known[id] = struct{}{}
	}
	return known, nil
}

func (r *Repository) SavePost(ctx context.Context, post *entities.Post) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(post)
	if result.Error != nil {
		return false, dbError(result.Error)
	}
	return result.RowsAffected > 0, nil
}

func dbError(err error) error {
	return fmt.Errorf("%w: %w", postserrors.ErrDatabaseOperation, err)
}
