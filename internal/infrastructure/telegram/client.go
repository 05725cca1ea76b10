package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gotd/td/telegram"
	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/telegram/updates"
	"github.com/gotd/td/tg"
	"github.com/gotd/td/tgerr"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	readererrors "github.com/Conte777/NewsFlow/services/relay-service/internal/domain/reader/errors"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/relay/entities"
)

const (
	authAttempts = 3
	dialogsLimit = 100
)

// ClientConfig holds configuration for Client
type ClientConfig struct {
	APIID       int
	APIHash     string
	Phone       string
	AuthTimeout time.Duration
}

// Client is the MTProto user connection of the reader account.
// Incoming updates go through a gap-aware updates manager into Dispatcher.
type Client struct {
	cfg            ClientConfig
	sessionStorage *PostgresSessionStorage
	stateStorage   *UpdatesStateStorage
	prompt         Prompt
	dispatcher     tg.UpdateDispatcher
	rateLimiter    *rate.Limiter
	logger         zerolog.Logger

	mu        sync.RWMutex
	api       *tg.Client
	selfID    int64
	connected bool
	cancel    context.CancelFunc
	runDone   chan struct{}
	runErr    error
}

// NewClient creates a new MTProto client
func NewClient(
	cfg ClientConfig,
	sessionStorage *PostgresSessionStorage,
	stateStorage *UpdatesStateStorage,
	prompt Prompt,
	logger zerolog.Logger,
) (*Client, error) {
	if cfg.APIID == 0 {
		return nil, fmt.Errorf("APIID is required")
	}
	if cfg.APIHash == "" {
		return nil, fmt.Errorf("APIHash is required")
	}
	if cfg.Phone == "" {
		return nil, fmt.Errorf("phone number is required")
	}
	if cfg.AuthTimeout <= 0 {
		cfg.AuthTimeout = 5 * time.Minute
	}

	return &Client{
		cfg:            cfg,
		sessionStorage: sessionStorage,
		stateStorage:   stateStorage,
		prompt:         prompt,
		dispatcher:     tg.NewUpdateDispatcher(),
		rateLimiter:    rate.NewLimiter(rate.Every(time.Second/10), 10),
		logger: logger.With().
			Str("component", "mtproto_client").
			Str("phone", maskPhone(cfg.Phone)).
			Logger(),
	}, nil
}

// Dispatcher returns the dispatcher receiving updates; handlers must be registered before Connect
func (c *Client) Dispatcher() *tg.UpdateDispatcher {
	return &c.dispatcher
}

// Connect starts the client, authenticating interactively when the stored
// session is missing or revoked, and returns once the account is authorized.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.connected {
		c.mu.Unlock()
		return nil
	}
	if c.runDone != nil {
		c.mu.Unlock()
		return readererrors.ErrConnectInProgress
	}

	gaps := updates.New(updates.Config{
		Handler:      c.dispatcher,
		Storage:      c.stateStorage,
		AccessHasher: c.stateStorage,
	})
	client := telegram.NewClient(c.cfg.APIID, c.cfg.APIHash, telegram.Options{
		SessionStorage: c.sessionStorage,
		UpdateHandler:  gaps,
	})

	// the connection outlives the start context
	runCtx, cancel := context.WithCancel(context.Background())
	ready := make(chan struct{})
	runDone := make(chan struct{})

	c.cancel = cancel
	c.runDone = runDone
	c.runErr = nil
	c.mu.Unlock()

	c.logger.Info().Msg("connecting to Telegram")

	go func() {
		defer close(runDone)

		err := client.Run(runCtx, func(ctx context.Context) error {
			if err := c.authenticate(ctx, client); err != nil {
				return err
			}

			self, err := client.Self(ctx)
			if err != nil {
				return fmt.Errorf("failed to get self: %w", err)
			}

			c.mu.Lock()
			c.api = client.API()
			c.selfID = self.ID
			c.connected = true
			c.mu.Unlock()

			c.logger.Info().Int64("self_id", self.ID).Msg("connected to Telegram")
			close(ready)

			return gaps.Run(ctx, client.API(), self.ID, updates.AuthOptions{
				OnStart: func(context.Context) {
					c.logger.Info().Msg("updates manager started")
				},
			})
		})

		c.mu.Lock()
		c.connected = false
		c.runErr = err
		c.mu.Unlock()
	}()

	select {
	case <-ready:
		return nil
	case <-runDone:
		err := c.reset()
		return fmt.Errorf("failed to connect: %w", err)
	case <-ctx.Done():
		cancel()
		<-runDone
		c.reset()
		return fmt.Errorf("connect cancelled: %w", ctx.Err())
	}
}

// Run blocks until the connection terminates or ctx is done
func (c *Client) Run(ctx context.Context) error {
	c.mu.RLock()
	runDone := c.runDone
	c.mu.RUnlock()

	if runDone == nil {
		return readererrors.ErrNotConnected
	}

	select {
	case <-ctx.Done():
		return nil
	case <-runDone:
		c.mu.RLock()
		err := c.runErr
		c.mu.RUnlock()
		if err == nil || errors.Is(err, context.Canceled) {
			return nil
		}
		return fmt.Errorf("mtproto connection terminated: %w", err)
	}
}

// Disconnect stops the client, waiting for it to shut down or ctx to expire.
// Safe to call multiple times.
func (c *Client) Disconnect(ctx context.Context) error {
	c.mu.RLock()
	cancel := c.cancel
	runDone := c.runDone
	c.mu.RUnlock()

	if cancel == nil {
		return nil
	}

	c.logger.Info().Msg("disconnecting from Telegram")
	cancel()

	select {
	case <-runDone:
	case <-ctx.Done():
		c.logger.Warn().Msg("disconnect timeout reached while waiting for client shutdown")
		return ctx.Err()
	}

	c.reset()
	c.logger.Info().Msg("disconnected from Telegram")
	return nil
}

// IsConnected reports whether the account is authorized and the connection is running
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

func (c *Client) reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.runErr
	c.api = nil
	c.connected = false
	c.cancel = nil
	c.runDone = nil
	return err
}

// authenticate logs in when the stored session is not authorized, retrying transient failures
func (c *Client) authenticate(ctx context.Context, client *telegram.Client) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.AuthTimeout)
	defer cancel()

	status, err := client.Auth().Status(ctx)
	if err != nil {
		return fmt.Errorf("failed to check auth status: %w", err)
	}
	if status.Authorized {
		c.logger.Info().Msg("session restored from storage")
		return nil
	}

	c.logger.Info().Msg("not authorized, starting authentication")

	flow := auth.NewFlow(promptAuthenticator{
		phone:  c.cfg.Phone,
		prompt: c.prompt,
		onCode: func(*tg.AuthSentCode) {
			c.logger.Info().Msg("authentication code has been sent")
		},
	}, auth.SendCodeOptions{})

	var lastErr error
	for attempt := 1; attempt <= authAttempts; attempt++ {
		lastErr = client.Auth().IfNecessary(ctx, flow)
		if lastErr == nil {
			c.logger.Info().Msg("authentication successful")
			return nil
		}

		if isNonRetryableError(lastErr) {
			break
		}

		delay := time.Duration(attempt) * time.Second
		if wait, ok := tgerr.AsFloodWait(lastErr); ok {
			delay = wait
		}

		c.logger.Warn().Err(lastErr).Int("attempt", attempt).Dur("retry_delay", delay).Msg("authentication failed")

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", readererrors.ErrAuthenticationFailed, ctx.Err())
		}
	}

	return fmt.Errorf("%w: %w", readererrors.ErrAuthenticationFailed, lastErr)
}

func (c *Client) session() (*tg.Client, int64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.connected || c.api == nil {
		return nil, 0, readererrors.ErrNotConnected
	}
	return c.api, c.selfID, nil
}

// ResolveChannel resolves a public broadcast channel by username and remembers its access hash
func (c *Client) ResolveChannel(ctx context.Context, username string) (entities.ChannelIdentity, error) {
	username = strings.TrimPrefix(strings.TrimSpace(username), "@")
	if username == "" {
		return entities.ChannelIdentity{}, readererrors.ErrInvalidChannelName
	}

	api, selfID, err := c.session()
	if err != nil {
		return entities.ChannelIdentity{}, err
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return entities.ChannelIdentity{}, fmt.Errorf("rate limit wait cancelled: %w", err)
	}

	resolved, err := api.ContactsResolveUsername(ctx, &tg.ContactsResolveUsernameRequest{Username: username})
	if err != nil {
		if tgerr.Is(err, "USERNAME_NOT_OCCUPIED", "USERNAME_INVALID") {
			return entities.ChannelIdentity{}, fmt.Errorf("%w: %s", readererrors.ErrChannelNotFound, username)
		}
		return entities.ChannelIdentity{}, fmt.Errorf("failed to resolve channel: %w", err)
	}

	identity, ok := channelFromResolved(resolved)
	if !ok {
		return entities.ChannelIdentity{}, fmt.Errorf("%w: %s is not a broadcast channel", readererrors.ErrChannelNotFound, username)
	}

	c.rememberAccessHash(ctx, selfID, identity)
	return identity, nil
}

// ChannelHistory returns up to limit latest messages of a previously resolved channel
func (c *Client) ChannelHistory(ctx context.Context, channelID int64, limit int) ([]*tg.Message, error) {
	api, selfID, err := c.session()
	if err != nil {
		return nil, err
	}

	accessHash, found, err := c.stateStorage.GetChannelAccessHash(ctx, selfID, channelID)
	if err != nil {
		return nil, fmt.Errorf("failed to load access hash: %w", err)
	}
	if !found {
		return nil, readererrors.ErrChannelNotResolved
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait cancelled: %w", err)
	}

	result, err := api.MessagesGetHistory(ctx, &tg.MessagesGetHistoryRequest{
		Peer:  &tg.InputPeerChannel{ChannelID: channelID, AccessHash: accessHash},
		Limit: limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}

	messages := messagesFrom(result)
	c.logger.Debug().Int64("channel_id", channelID).Int("messages", len(messages)).Msg("fetched history")
	return messages, nil
}

// Channels lists broadcast channels among the account's dialogs
func (c *Client) Channels(ctx context.Context) ([]entities.ChannelIdentity, error) {
	api, selfID, err := c.session()
	if err != nil {
		return nil, err
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait cancelled: %w", err)
	}

	result, err := api.MessagesGetDialogs(ctx, &tg.MessagesGetDialogsRequest{
		OffsetPeer: &tg.InputPeerEmpty{},
		Limit:      dialogsLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get dialogs: %w", err)
	}

	var chats []tg.ChatClass
	switch d := result.(type) {
	case *tg.MessagesDialogs:
		chats = d.Chats
	case *tg.MessagesDialogsSlice:
		chats = d.Chats
	}

	channels := broadcastChannels(chats)
	for _, ch := range channels {
		c.rememberAccessHash(ctx, selfID, ch)
	}
	return channels, nil
}

func (c *Client) rememberAccessHash(ctx context.Context, selfID int64, ch entities.ChannelIdentity) {
	if err := c.stateStorage.SetChannelAccessHash(ctx, selfID, ch.ID, ch.AccessHash); err != nil {
		c.logger.Warn().Err(err).Int64("channel_id", ch.ID).Msg("failed to remember access hash")
	}
}

// channelFromResolved extracts the broadcast channel a username resolved to
func channelFromResolved(resolved *tg.ContactsResolvedPeer) (entities.ChannelIdentity, bool) {
	peer, ok := resolved.Peer.(*tg.PeerChannel)
	if !ok {
		return entities.ChannelIdentity{}, false
	}

	for _, ch := range broadcastChannels(resolved.Chats) {
		if ch.ID == peer.ChannelID {
			return ch, true
		}
	}
	return entities.ChannelIdentity{}, false
}

// broadcastChannels keeps broadcast channels, skipping groups and megagroups
func broadcastChannels(chats []tg.ChatClass) []entities.ChannelIdentity {
	var out []entities.ChannelIdentity
	for _, chat := range chats {
		ch, ok := chat.(*tg.Channel)
		if !ok || !ch.Broadcast {
			continue
		}
		out = append(out, entities.ChannelIdentity{
			ID:         ch.ID,
			AccessHash: ch.AccessHash,
			Title:      ch.Title,
			Username:   ch.Username,
		})
	}
	return out
}

// messagesFrom returns the regular messages of a history page
func messagesFrom(result tg.MessagesMessagesClass) []*tg.Message {
	var raw []tg.MessageClass
	switch m := result.(type) {
	case *tg.MessagesMessages:
		raw = m.Messages
	case *tg.MessagesMessagesSlice:
		raw = m.Messages
	case *tg.MessagesChannelMessages:
		raw = m.Messages
	}

	out := make([]*tg.Message, 0, len(raw))
	for _, msg := range raw {
		if message, ok := msg.(*tg.Message); ok {
			out = append(out, message)
		}
	}
	return out
}
