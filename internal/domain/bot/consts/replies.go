package consts

import (
	"fmt"
	"strings"

	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/relay/entities"
)

// ReplyChannelAdded is sent after a successful /add
func ReplyChannelAdded(name string) string {
	return fmt.Sprintf(replyChannelAdded, name)
}

// ReplyChannelRemoved is sent after /remove
func ReplyChannelRemoved(name string) string {
	return fmt.Sprintf(replyChannelRemoved, name)
}

// ReplyChannelNotFound is sent when /add names a channel that cannot be resolved
func ReplyChannelNotFound(name string) string {
	return fmt.Sprintf(replyChannelNotFound, name)
}

// RenderChannelList renders one "username: title" line per channel in the given order
func RenderChannelList(channels []entities.ChannelSummary) string {
	if len(channels) == 0 {
		return ReplyNoChannels
	}

	var b strings.Builder
	for _, ch := range channels {
		b.WriteString(ch.Username)
		b.WriteString(": ")
		b.WriteString(ch.Title)
		b.WriteByte('\n')
	}
	return b.String()
}
