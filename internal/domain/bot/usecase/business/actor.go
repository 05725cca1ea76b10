// Package business contains the bot actor
package business

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/bot/consts"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/bot/deps"
	boterrors "github.com/Conte777/NewsFlow/services/relay-service/internal/domain/bot/errors"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/relay/command"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/relay/entities"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/infrastructure/metrics"
)

// Actor turns inbound bot messages into domain requests and replies,
// and renders application responses back to chats.
type Actor struct {
	sender   deps.Sender
	resolver deps.ChannelResolver
	metrics  *metrics.Metrics
	logger   zerolog.Logger

	newCorrelationID func() string

	selfID int64
	ready  bool

	// responses is the response stream of the running loop, drained while a request waits
	responses <-chan entities.Response
}

// NewActor creates a new bot actor
func NewActor(sender deps.Sender, resolver deps.ChannelResolver, m *metrics.Metrics, logger zerolog.Logger) *Actor {
	return &Actor{
		sender:           sender,
		resolver:         resolver,
		metrics:          m,
		logger:           logger.With().Str("component", "bot_actor").Logger(),
		newCorrelationID: uuid.NewString,
	}
}

// Setup publishes the command menu and resolves the bot's own id.
// It must succeed before Run.
func (a *Actor) Setup(ctx context.Context) error {
	if err := a.sender.SetCommands(ctx, consts.AllCommands); err != nil {
		return fmt.Errorf("%w: %w", boterrors.ErrMenuPublish, err)
	}

	selfID, err := a.sender.SelfID(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", boterrors.ErrSelfUnknown, err)
	}

	a.selfID = selfID
	a.ready = true

	a.logger.Info().Int64("self_id", selfID).Int("commands", len(consts.AllCommands)).Msg("Bot actor set up")
	return nil
}

// Run processes inbound events and responses until ctx is done or the event
// stream is closed. A closed response stream only disables response handling.
func (a *Actor) Run(
	ctx context.Context,
	events <-chan entities.InboundEvent,
	responses <-chan entities.Response,
	requests chan<- entities.Request,
) error {
	if !a.ready {
		return boterrors.ErrNotSetUp
	}

	a.responses = responses
	defer func() { a.responses = nil }()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return boterrors.ErrEventStreamClosed
			}
			a.HandleEvent(ctx, ev, requests)
		case resp, ok := <-a.responses:
			a.receive(ctx, resp, ok)
		}
	}
}

func (a *Actor) receive(ctx context.Context, resp entities.Response, ok bool) {
	if !ok {
		a.logger.Warn().Msg("Response stream closed")
		a.responses = nil
		return
	}
	a.HandleResponse(ctx, resp)
}

// HandleEvent classifies one inbound message, emits the matching request and replies
func (a *Actor) HandleEvent(ctx context.Context, ev entities.InboundEvent, requests chan<- entities.Request) {
	if ev.UserID == a.selfID {
		return
	}

	cmd := command.Classify(ev.Text, ev.IsCommand)
	a.metrics.RecordCommand(entities.CommandName(cmd))

	log := a.logger.With().
		Int64("user_id", ev.UserID).
		Int64("chat_id", ev.ChatID).
		Str("command", entities.CommandName(cmd)).
		Logger()
	log.Debug().Msg("Command received")

	switch c := cmd.(type) {
	case entities.Invalid:
		a.reply(ctx, ev.ChatID, consts.ReplyInvalidRequest)

	case entities.ListChannels:
		correlationID := a.newCorrelationID()
		log.Debug().Str("correlation_id", correlationID).Msg("Requesting subscriptions")
		a.emit(ctx, requests, entities.ListSubscriptions{UserID: ev.UserID, CorrelationID: correlationID})

	case entities.RemoveChannel:
		req := entities.UnsubscribeChannel{UserID: ev.UserID, ChannelName: channelName(c.Name)}
		if !a.emit(ctx, requests, req) {
			return
		}
		a.reply(ctx, ev.ChatID, consts.ReplyChannelRemoved(c.Name))

	case entities.AddChannel:
		name := channelName(c.Name)
		identity, err := a.resolver.ResolveChannel(ctx, name)
		if err != nil {
			log.Warn().Err(err).Str("channel", name).Msg("Channel not resolved")
			a.reply(ctx, ev.ChatID, consts.ReplyChannelNotFound(c.Name))
			return
		}

		req := entities.SubscribeChannel{
			UserID:       ev.UserID,
			ChannelID:    identity.ID,
			ChannelName:  name,
			ChannelTitle: strings.TrimSpace(identity.Title),
		}
		if !a.emit(ctx, requests, req) {
			return
		}
		a.reply(ctx, ev.ChatID, consts.ReplyChannelAdded(c.Name))

	case entities.Start:
		if !a.emit(ctx, requests, entities.RegisterUser{UserID: ev.UserID, ChatID: ev.ChatID}) {
			return
		}
		a.reply(ctx, ev.ChatID, consts.ReplyStarted)

	case entities.Stop:
		if !a.emit(ctx, requests, entities.DeregisterUser{UserID: ev.UserID, ChatID: ev.ChatID}) {
			return
		}
		a.reply(ctx, ev.ChatID, consts.ReplyStopped)
	}
}

// HandleResponse renders an application response to its chat
func (a *Actor) HandleResponse(ctx context.Context, resp entities.Response) {
	switch r := resp.(type) {
	case entities.SubscriptionList:
		a.logger.Debug().
			Int64("chat_id", r.ChatID).
			Str("correlation_id", r.CorrelationID).
			Int("channels", len(r.Channels)).
			Msg("Rendering subscription list")
		a.reply(ctx, r.ChatID, consts.RenderChannelList(r.Channels))
	default:
		a.logger.Warn().Str("type", fmt.Sprintf("%T", resp)).Msg("Unhandled response type")
	}
}

// emit sends req to the router and reports whether it was accepted.
// Responses are still rendered while the request pipe is full, since the
// router may itself be waiting on the response pipe.
func (a *Actor) emit(ctx context.Context, requests chan<- entities.Request, req entities.Request) bool {
	for {
		select {
		case requests <- req:
			return true
		case resp, ok := <-a.responses:
			a.receive(ctx, resp, ok)
		case <-ctx.Done():
			a.logger.Warn().Err(ctx.Err()).Int64("user_id", req.Initiator()).Msg("Request not emitted")
			return false
		}
	}
}

func (a *Actor) reply(ctx context.Context, chatID int64, text string) {
	if err := a.sender.SendMessage(ctx, chatID, text); err != nil {
		a.metrics.RecordReplyFailed()
		a.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send reply")
	}
}

// channelName normalizes a user supplied channel reference to a bare username
func channelName(name string) string {
	return strings.TrimPrefix(strings.TrimSpace(name), "@")
}
