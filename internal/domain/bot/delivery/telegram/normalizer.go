// Package telegram contains Telegram delivery layer of the bot domain
package telegram

import (
	"context"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"

	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/relay/entities"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/relay/pipes"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/infrastructure/metrics"
)

const source = "bot"

// Outcome is the result of normalizing one update
type Outcome int

const (
	OutcomeEvent Outcome = iota
	OutcomeIgnored
	OutcomeUnsupported
)

// Normalizer converts Bot API updates into InboundEvents and enqueues them
type Normalizer struct {
	out     chan<- entities.InboundEvent
	timeout time.Duration
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewNormalizer creates a new bot update normalizer
func NewNormalizer(out chan<- entities.InboundEvent, timeout time.Duration, m *metrics.Metrics, logger zerolog.Logger) *Normalizer {
	return &Normalizer{
		out:     out,
		timeout: timeout,
		metrics: m,
		logger:  logger.With().Str("component", "bot_normalizer").Logger(),
	}
}

// Handle is registered as the bot's default handler
func (n *Normalizer) Handle(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	ev, outcome := Normalize(update)
	switch outcome {
	case OutcomeIgnored:
		return
	case OutcomeUnsupported:
		n.metrics.RecordDropped(source, "unsupported_sender")
		n.logger.Warn().Int64("update_id", update.ID).Msg("unhandled sender kind")
		return
	}

	if err := pipes.Enqueue(ctx, n.out, ev, n.timeout); err != nil {
		n.metrics.RecordDropped(source, "enqueue")
		n.logger.Error().Err(err).
			Int64("chat_id", ev.ChatID).
			Int64("user_id", ev.UserID).
			Msg("Inbound event dropped")
	}
}

// Normalize extracts an InboundEvent from a text message sent by a user.
// Updates without a text message are ignored, messages from non-user senders
// are unsupported.
func Normalize(update *models.Update) (entities.InboundEvent, Outcome) {
	if update == nil || update.Message == nil || update.Message.Text == "" {
		return entities.InboundEvent{}, OutcomeIgnored
	}

	msg := update.Message
	if msg.From == nil || msg.SenderChat != nil {
		return entities.InboundEvent{}, OutcomeUnsupported
	}

	return entities.InboundEvent{
		ChatID:    msg.Chat.ID,
		UserID:    msg.From.ID,
		Text:      msg.Text,
		IsCommand: hasCommand(msg.Entities),
	}, OutcomeEvent
}

func hasCommand(list []models.MessageEntity) bool {
	for _, e := range list {
		if e.Type == models.MessageEntityTypeBotCommand {
			return true
		}
	}
	return false
}
