// Package entities contains persistence models of the posts domain
package entities

import "time"

// Post is a channel message stored once per channel and Telegram message id
type Post struct {
	ID         uint      `gorm:"primaryKey"`
	ChannelID  uint      `gorm:"column:channel_id;not null;uniqueIndex:uq_posts_channel_message"`
	TelegramID int       `gorm:"column:telegram_id;not null;uniqueIndex:uq_posts_channel_message"`
	Content    string    `gorm:"column:content;not null"`
	PubDate    time.Time `gorm:"column:pub_date;not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (Post) TableName() string {
	return "posts"
}

// ChannelRef identifies a stored channel by its row id and Telegram id
type ChannelRef struct {
	ID         uint
	TelegramID int64
	Username   string
}
