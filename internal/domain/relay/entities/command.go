// Package entities contains value types shared by the relay actors
package entities

// Command is a classified bot command. The set of variants is closed.
type Command interface {
	isCommand()
}

// Start enables delivery for the sender
type Start struct{}

// Stop disables delivery for the sender
type Stop struct{}

// AddChannel subscribes the sender to a channel
type AddChannel struct {
	Name string
}

// RemoveChannel unsubscribes the sender from a channel
type RemoveChannel struct {
	Name string
}

// ListChannels asks for the sender's subscriptions
type ListChannels struct{}

// Invalid is any text that is not a recognised command
type Invalid struct{}

func (Start) isCommand()         {}
func (Stop) isCommand()          {}
func (AddChannel) isCommand()    {}
func (RemoveChannel) isCommand() {}
func (ListChannels) isCommand()  {}
func (Invalid) isCommand()       {}

// CommandName returns a stable label for the command variant
func CommandName(cmd Command) string {
	switch cmd.(type) {
	case Start:
		return "start"
	case Stop:
		return "stop"
	case AddChannel:
		return "add"
	case RemoveChannel:
		return "remove"
	case ListChannels:
		return "list"
	default:
		return "invalid"
	}
}
