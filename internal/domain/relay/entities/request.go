package entities

// Request is a domain request emitted by the bot actor and consumed by the
// application layer. The router forwards requests without inspecting them.
type Request interface {
	// Initiator returns the id of the user that authorised the request
	Initiator() int64
	isRequest()
}

// RegisterUser enables delivery to ChatID for UserID
type RegisterUser struct {
	UserID int64
	ChatID int64
}

// DeregisterUser disables delivery for UserID
type DeregisterUser struct {
	UserID int64
	ChatID int64
}

// SubscribeChannel links UserID with a resolved channel
type SubscribeChannel struct {
	UserID       int64
	ChannelID    int64
	ChannelName  string
	ChannelTitle string
}

// UnsubscribeChannel removes the link between UserID and the channel named ChannelName
type UnsubscribeChannel struct {
	UserID      int64
	ChannelName string
}

// ListSubscriptions asks for the channels UserID is subscribed to.
// CorrelationID is echoed back in the SubscriptionList response.
type ListSubscriptions struct {
	UserID        int64
	CorrelationID string
}

func (r RegisterUser) Initiator() int64       { return r.UserID }
func (r DeregisterUser) Initiator() int64     { return r.UserID }
func (r SubscribeChannel) Initiator() int64   { return r.UserID }
func (r UnsubscribeChannel) Initiator() int64 { return r.UserID }
func (r ListSubscriptions) Initiator() int64  { return r.UserID }

func (RegisterUser) isRequest()       {}
func (DeregisterUser) isRequest()     {}
func (SubscribeChannel) isRequest()   {}
func (UnsubscribeChannel) isRequest() {}
func (ListSubscriptions) isRequest()  {}

// Response is produced by the application layer and rendered by the bot actor
type Response interface {
	isResponse()
}

// SubscriptionList answers ListSubscriptions
type SubscriptionList struct {
	ChatID        int64
	CorrelationID string
	Channels      []ChannelSummary
}

func (SubscriptionList) isResponse() {}
