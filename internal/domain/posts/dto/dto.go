// Package dto contains events published by the posts domain
package dto

import "time"

// PostEvent is published for every newly stored channel post
type PostEvent struct {
	ChannelID   int64     `json:"channel_id"`
	ChannelName string    `json:"channel_name"`
	MessageID   int       `json:"message_id"`
	Content     string    `json:"content"`
	PublishedAt time.Time `json:"published_at"`
}
