// Package telegram contains the Telegram connections: the Bot API client and
// the MTProto user client
package telegram

import (
	"context"
	"fmt"
	"sync"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"

	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/bot/consts"
	boterrors "github.com/Conte777/NewsFlow/services/relay-service/internal/domain/bot/errors"
)

// Bot wraps the Telegram Bot API client. The underlying client is created by
// Connect, which also validates the token.
type Bot struct {
	token   string
	handler tgbot.HandlerFunc
	logger  zerolog.Logger

	mu  sync.RWMutex
	bot *tgbot.Bot
}

// NewBot creates a new Telegram bot wrapper
func NewBot(token string, logger zerolog.Logger) (*Bot, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram token is required")
	}

	return &Bot{
		token:  token,
		logger: logger.With().Str("component", "telegram_bot").Logger(),
	}, nil
}

// SetUpdateHandler sets the handler receiving every update. Must be called before Connect.
func (b *Bot) SetUpdateHandler(h tgbot.HandlerFunc) {
	b.handler = h
}

// Connect creates the Bot API client. The token is checked with getMe.
func (b *Bot) Connect(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.bot != nil {
		return nil
	}

	opts := []tgbot.Option{}
	if b.handler != nil {
		opts = append(opts, tgbot.WithDefaultHandler(b.handler))
	}

	type result struct {
		bot *tgbot.Bot
		err error
	}
	done := make(chan result, 1)
	go func() {
		bot, err := tgbot.New(b.token, opts...)
		done <- result{bot: bot, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return fmt.Errorf("failed to create telegram bot: %w", r.err)
		}
		b.bot = r.bot
	case <-ctx.Done():
		return fmt.Errorf("bot connect cancelled: %w", ctx.Err())
	}

	b.logger.Info().Msg("Telegram bot connected")
	return nil
}

// Run polls for updates until ctx is done (blocking call)
func (b *Bot) Run(ctx context.Context) error {
	bot, err := b.raw()
	if err != nil {
		return err
	}

	b.logger.Info().Msg("Starting Telegram bot polling")
	bot.Start(ctx)
	b.logger.Info().Msg("Telegram bot polling stopped")
	return nil
}

// Disconnect drops the Bot API client
func (b *Bot) Disconnect(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.bot != nil {
		b.logger.Info().Msg("Disconnecting Telegram bot")
	}
	b.bot = nil
	return nil
}

// IsConnected reports whether Connect succeeded
func (b *Bot) IsConnected() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.bot != nil
}

// SendMessage implements deps.Sender
func (b *Bot) SendMessage(ctx context.Context, chatID int64, text string) error {
	if text == "" {
		return boterrors.ErrEmptyMessage
	}

	bot, err := b.raw()
	if err != nil {
		return err
	}

	_, err = bot.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// SetCommands implements deps.Sender
func (b *Bot) SetCommands(ctx context.Context, commands []consts.Command) error {
	bot, err := b.raw()
	if err != nil {
		return err
	}

	menu := make([]models.BotCommand, 0, len(commands))
	for _, c := range commands {
		menu = append(menu, models.BotCommand{Command: c.Name, Description: c.Description})
	}

	if _, err := bot.SetMyCommands(ctx, &tgbot.SetMyCommandsParams{Commands: menu}); err != nil {
		return fmt.Errorf("failed to set commands: %w", err)
	}
	return nil
}

// SelfID implements deps.Sender
func (b *Bot) SelfID(ctx context.Context) (int64, error) {
	bot, err := b.raw()
	if err != nil {
		return 0, err
	}

	me, err := bot.GetMe(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get bot identity: %w", err)
	}
	return me.ID, nil
}

func (b *Bot) raw() (*tgbot.Bot, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.bot == nil {
		return nil, boterrors.ErrNotConnected
	}
	return b.bot, nil
}
