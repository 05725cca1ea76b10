// Package consts contains constants for the bot domain
package consts

// Command represents a bot command published in the chat menu
type Command struct {
	Name        string
	Description string
}

// Bot commands
var (
	CommandStart  = Command{Name: "start", Description: "starts bot interaction"}
	CommandStop   = Command{Name: "stop", Description: "stops bot interaction"}
	CommandAdd    = Command{Name: "add", Description: "adds a channel"}
	CommandList   = Command{Name: "list", Description: "list of channels"}
	CommandRemove = Command{Name: "remove", Description: "removes a channel"}
)

// AllCommands contains all available bot commands for menu registration
var AllCommands = []Command{
	CommandStart,
	CommandStop,
	CommandAdd,
	CommandList,
	CommandRemove,
}

// Reply texts
const (
	ReplyInvalidRequest = "invalid request"
	ReplyStarted        = "started"
	ReplyStopped        = "stopped"
	ReplyNoChannels     = "no channels"

	replyChannelAdded    = "channel %s added"
	replyChannelRemoved  = "channel %s removed"
	replyChannelNotFound = "channel %s not found"
)
