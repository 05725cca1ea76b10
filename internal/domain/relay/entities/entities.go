package entities

import "time"

// InboundEvent is a normalized text message received by the bot
type InboundEvent struct {
	ChatID    int64
	UserID    int64
	Text      string
	IsCommand bool
}

// ChannelSummary is a subscribed channel as shown to the user
type ChannelSummary struct {
	ID       int64
	Title    string
	Username string
}

// ChannelIdentity is the result of resolving a public channel by username
type ChannelIdentity struct {
	ID         int64
	AccessHash int64
	Title      string
	Username   string
}

// ContentItem is a channel message rendered to markup
type ContentItem struct {
	ChannelID int64
	MessageID int
	Date      time.Time
	Text      string
}
