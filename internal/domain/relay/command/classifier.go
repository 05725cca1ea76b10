// Package command classifies bot message text into commands
package command

import (
	"strings"
	"unicode"

	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/relay/entities"
)

// Command tokens recognised by the bot
const (
	TokenStart  = "/start"
	TokenStop   = "/stop"
	TokenAdd    = "/add"
	TokenRemove = "/remove"
	TokenList   = "/list"
)

// Classify maps message text to a Command. Text that was not marked as a
// command by the platform, or whose first token is not an exact command
// token, is Invalid. A "@botname" suffix on the token is ignored.
func Classify(text string, isCommand bool) entities.Command {
	if !isCommand {
		return entities.Invalid{}
	}

	text = strings.TrimLeftFunc(text, unicode.IsSpace)

	token, rest := text, ""
	if i := strings.IndexFunc(text, unicode.IsSpace); i >= 0 {
		token, rest = text[:i], text[i:]
	}

	if i := strings.IndexByte(token, '@'); i > 0 {
		token = token[:i]
	}

	arg := strings.TrimSpace(rest)

	switch token {
	case TokenStart:
		return entities.Start{}
	case TokenStop:
		return entities.Stop{}
	case TokenList:
		return entities.ListChannels{}
	case TokenAdd:
		return entities.AddChannel{Name: arg}
	case TokenRemove:
		return entities.RemoveChannel{Name: arg}
	default:
		return entities.Invalid{}
	}
}
