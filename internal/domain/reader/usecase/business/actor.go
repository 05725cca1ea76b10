// Package business contains the reader actor
package business

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/reader/deps"
	readererrors "github.com/Conte777/NewsFlow/services/relay-service/internal/domain/reader/errors"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/reader/parser"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/relay/entities"
)

// Actor owns the reader connection. Calls against the connection are serialised.
type Actor struct {
	conn   deps.Connection
	logger zerolog.Logger

	mu sync.Mutex

	sinkMu sync.RWMutex
	sink   deps.ContentSink
}

// NewActor creates a new reader actor
func NewActor(conn deps.Connection, logger zerolog.Logger) *Actor {
	return &Actor{
		conn:   conn,
		logger: logger.With().Str("component", "reader_actor").Logger(),
	}
}

// SetSink sets the consumer of content read by Run
func (a *Actor) SetSink(sink deps.ContentSink) {
	a.sinkMu.Lock()
	defer a.sinkMu.Unlock()
	a.sink = sink
}

// ResolveChannel resolves a public channel by name, with or without a leading @
func (a *Actor) ResolveChannel(ctx context.Context, name string) (entities.ChannelIdentity, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	identity, err := a.conn.ResolveChannel(ctx, name)
	if err != nil {
		return entities.ChannelIdentity{}, err
	}

	a.logger.Debug().
		Str("channel", name).
		Int64("channel_id", identity.ID).
		Msg("Channel resolved")
	return identity, nil
}

// FetchHistory returns up to limit latest renderable items of a resolved channel.
// Messages without renderable content are skipped.
func (a *Actor) FetchHistory(ctx context.Context, chatID int64, limit int) ([]entities.ContentItem, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	messages, err := a.conn.ChannelHistory(ctx, chatID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch history of %d: %w", chatID, err)
	}

	items := make([]entities.ContentItem, 0, len(messages))
	for _, msg := range messages {
		if item, ok := parser.Item(msg); ok {
			items = append(items, item)
		}
	}
	return items, nil
}

// ListChannels lists broadcast channels visible to the reader account
func (a *Actor) ListChannels(ctx context.Context) ([]entities.ChannelIdentity, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	channels, err := a.conn.Channels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list channels: %w", err)
	}
	return channels, nil
}

// Run drains the normalized content stream until ctx is done or the stream is closed
func (a *Actor) Run(ctx context.Context, contents <-chan entities.ContentItem) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case item, ok := <-contents:
			if !ok {
				return readererrors.ErrContentStreamClosed
			}
			a.consume(ctx, item)
		}
	}
}

func (a *Actor) consume(ctx context.Context, item entities.ContentItem) {
	a.logger.Debug().
		Int64("channel_id", item.ChannelID).
		Int("message_id", item.MessageID).
		Int("length", len(item.Text)).
		Msg("Channel content received")

	a.sinkMu.RLock()
	sink := a.sink
	a.sinkMu.RUnlock()

	if sink == nil {
		return
	}
	if err := sink.Store(ctx, item); err != nil {
		a.logger.Warn().Err(err).
			Int64("channel_id", item.ChannelID).
			Int("message_id", item.MessageID).
			Msg("Failed to store channel content")
	}
}
