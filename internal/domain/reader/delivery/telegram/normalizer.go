// Package telegram contains MTProto delivery layer of the reader domain
package telegram

import (
	"context"
	"time"

	"github.com/gotd/td/tg"
	"github.com/rs/zerolog"

	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/reader/parser"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/relay/entities"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/relay/pipes"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/infrastructure/metrics"
)

const source = "reader"

// Normalizer converts MTProto message updates into ContentItems and enqueues them
type Normalizer struct {
	out     chan<- entities.ContentItem
	timeout time.Duration
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewNormalizer creates a new reader update normalizer
func NewNormalizer(out chan<- entities.ContentItem, timeout time.Duration, m *metrics.Metrics, logger zerolog.Logger) *Normalizer {
	return &Normalizer{
		out:     out,
		timeout: timeout,
		metrics: m,
		logger:  logger.With().Str("component", "reader_normalizer").Logger(),
	}
}

// Register subscribes the normalizer to new message updates
func (n *Normalizer) Register(d *tg.UpdateDispatcher) {
	d.OnNewChannelMessage(n.OnNewChannelMessage)
	d.OnNewMessage(n.OnNewMessage)
}

// OnNewChannelMessage handles messages posted in channels
func (n *Normalizer) OnNewChannelMessage(ctx context.Context, _ tg.Entities, u *tg.UpdateNewChannelMessage) error {
	n.handle(ctx, u.Message)
	return nil
}

// OnNewMessage handles messages of regular chats; only channel posts pass through
func (n *Normalizer) OnNewMessage(ctx context.Context, _ tg.Entities, u *tg.UpdateNewMessage) error {
	n.handle(ctx, u.Message)
	return nil
}

func (n *Normalizer) handle(ctx context.Context, m tg.MessageClass) {
	msg, ok := m.(*tg.Message)
	if !ok {
		return
	}

	item, ok := parser.Item(msg)
	if !ok {
		n.logger.Debug().Int("message_id", msg.ID).Msg("skipping message without content")
		return
	}

	if err := pipes.Enqueue(ctx, n.out, item, n.timeout); err != nil {
		n.metrics.RecordDropped(source, "enqueue")
		n.logger.Error().Err(err).
			Int64("channel_id", item.ChannelID).
			Int("message_id", item.MessageID).
			Msg("Channel content dropped")
	}
}
