package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/subscription/deps"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/subscription/entities"
	suberrors "github.com/Conte777/NewsFlow/services/relay-service/internal/domain/subscription/errors"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) deps.Repository {
	return &Repository{db: db}
}

func (r *Repository) SaveUser(ctx context.Context, user *entities.User) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"chat_id", "enabled", "updated_at"}),
	}).Create(user).Error
	if err != nil {
		return dbError(err)
	}
	return nil
}

func (r *Repository) GetUser(ctx context.Context, userID int64) (*entities.User, error) {
	var user entities.User
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, suberrors.ErrUserNotFound
	}
	if err != nil {
		return nil, dbError(err)
	}
	return &user, nil
}

func (r *Repository) SaveChannel(ctx context.Context, channel *entities.Channel) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}},
		DoUpdates: clause.AssignmentColumns([]string{"telegram_id", "title", "updated_at"}),
	}).Create(channel).Error
	if err != nil {
		return dbError(err)
	}
	return nil
}

func (r *Repository) AddUserChannel(ctx context.Context, userID int64, channelID uint) error {
	link := entities.UserChannel{UserID: userID, ChannelID: channelID}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error
	if err != nil {
		return dbError(err)
	}
	return nil
}

func (r *Repository) RemoveUserChannel(ctx context.Context, userID int64, username string) error {
	channelIDs := r.db.Model(&entities.Channel{}).Select("id").Where("username = ?", username)

	err := r.db.WithContext(ctx).
		Where("user_id = ? AND channel_id IN (?)", userID, channelIDs).
		Delete(&entities.UserChannel{}).Error
	if err != nil {
		return dbError(err)
	}
	return nil
}

func (r *Repository) GetUserChannels(ctx context.Context, userID int64) ([]entities.Channel, error) {
	var channels []entities.Channel
	err := r.db.WithContext(ctx).
		Joins("JOIN user_channels ON user_channels.channel_id = channels.id").
		Where("user_channels.user_id = ?", userID).
		Order("channels.username").
		Find(&channels).Error
	if err != nil {
		return nil, dbError(err)
	}
	return channels, nil
}

func dbError(err error) error {
	return fmt.Errorf("%w: %w", suberrors.ErrDatabaseOperation, err)
}
