// Package entities contains persistence models of the subscription domain
package entities

import "time"

// User is a bot user and the chat replies are delivered to
type User struct {
	UserID    int64     `gorm:"primaryKey;column:user_id;autoIncrement:false"`
	ChatID    int64     `gorm:"column:chat_id;not null"`
	Enabled   bool      `gorm:"column:enabled;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

// Channel is a public Telegram channel, unique by username
type Channel struct {
	ID         uint      `gorm:"primaryKey"`
	TelegramID int64     `gorm:"column:telegram_id;not null;index"`
	Username   string    `gorm:"column:username;not null;uniqueIndex"`
	Title      string    `gorm:"column:title;not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

func (Channel) TableName() string {
	return "channels"
}

// UserChannel links a user with a channel (many-to-many)
type UserChannel struct {
	UserID    int64     `gorm:"primaryKey;column:user_id;autoIncrement:false"`
	ChannelID uint      `gorm:"primaryKey;column:channel_id;autoIncrement:false"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (UserChannel) TableName() string {
	return "user_channels"
}
