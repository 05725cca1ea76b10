// Package business contains the application layer applying relay requests
package business

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/relay/entities"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/relay/pipes"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/subscription/deps"
	subentities "github.com/Conte777/NewsFlow/services/relay-service/internal/domain/subscription/entities"
	suberrors "github.com/Conte777/NewsFlow/services/relay-service/internal/domain/subscription/errors"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/infrastructure/metrics"
	pkgerrors "github.com/Conte777/NewsFlow/services/relay-service/pkg/errors"
)

type UseCase struct {
	repo    deps.Repository
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

func NewUseCase(repo deps.Repository, m *metrics.Metrics, logger zerolog.Logger) *UseCase {
	return &UseCase{
		repo:    repo,
		metrics: m,
		logger:  logger.With().Str("component", "subscription_usecase").Logger(),
	}
}

// Handle applies one request. Only ListSubscriptions produces a response.
func (u *UseCase) Handle(ctx context.Context, req entities.Request) (entities.Response, error) {
	switch r := req.(type) {
	case entities.RegisterUser:
		return nil, u.saveUser(ctx, r.UserID, r.ChatID, true)
	case entities.DeregisterUser:
		return nil, u.saveUser(ctx, r.UserID, r.ChatID, false)
	case entities.SubscribeChannel:
		return nil, u.subscribe(ctx, r)
	case entities.UnsubscribeChannel:
		return nil, u.unsubscribe(ctx, r)
	case entities.ListSubscriptions:
		return u.list(ctx, r)
	default:
		return nil, fmt.Errorf("%w: %T", suberrors.ErrUnknownRequest, req)
	}
}

// Serve applies requests until ctx is done or the request stream is closed.
// Failed requests are logged and skipped.
func (u *UseCase) Serve(ctx context.Context, requests <-chan entities.Request, responses chan<- entities.Response) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case req, ok := <-requests:
			if !ok {
				u.logger.Warn().Msg("request stream closed")
				return nil
			}

			resp, err := u.Handle(ctx, req)
			if err != nil {
				u.metrics.RecordRequestError(pkgerrors.TypeOf(err).String())
				u.logger.Error().Err(err).
					Int64("user_id", req.Initiator()).
					Str("request", fmt.Sprintf("%T", req)).
					Msg("failed to apply request")
				continue
			}
			if resp == nil {
				continue
			}

			if err := pipes.Send(ctx, responses, resp); err != nil {
				return nil
			}
		}
	}
}

func (u *UseCase) saveUser(ctx context.Context, userID, chatID int64, enabled bool) error {
	if userID <= 0 {
		return suberrors.ErrInvalidUserID
	}

	if err := u.repo.SaveUser(ctx, &subentities.User{UserID: userID, ChatID: chatID, Enabled: enabled}); err != nil {
		return err
	}

	u.logger.Info().
		Int64("user_id", userID).
		Int64("chat_id", chatID).
		Bool("enabled", enabled).
		Msg("user saved")
	return nil
}

func (u *UseCase) subscribe(ctx context.Context, r entities.SubscribeChannel) error {
	if r.UserID <= 0 {
		return suberrors.ErrInvalidUserID
	}
	name := channelName(r.ChannelName)
	if name == "" {
		return suberrors.ErrInvalidChannelName
	}

	channel := &subentities.Channel{
		TelegramID: r.ChannelID,
		Username:   name,
		Title:      strings.TrimSpace(r.ChannelTitle),
	}
	if err := u.repo.SaveChannel(ctx, channel); err != nil {
		return err
	}
	if err := u.repo.AddUserChannel(ctx, r.UserID, channel.ID); err != nil {
		return err
	}

	u.logger.Info().
		Int64("user_id", r.UserID).
		Str("channel", name).
		Msg("subscription created")
	return nil
}

func (u *UseCase) unsubscribe(ctx context.Context, r entities.UnsubscribeChannel) error {
	if r.UserID <= 0 {
		return suberrors.ErrInvalidUserID
	}
	name := channelName(r.ChannelName)
	if name == "" {
		return suberrors.ErrInvalidChannelName
	}

	if err := u.repo.RemoveUserChannel(ctx, r.UserID, name); err != nil {
		return err
	}

	u.logger.Info().
		Int64("user_id", r.UserID).
		Str("channel", name).
		Msg("subscription removed")
	return nil
}

func (u *UseCase) list(ctx context.Context, r entities.ListSubscriptions) (entities.Response, error) {
	user, err := u.repo.GetUser(ctx, r.UserID)
	if err != nil {
		return nil, err
	}

	channels, err := u.repo.GetUserChannels(ctx, r.UserID)
	if err != nil {
		return nil, err
	}

	summaries := make([]entities.ChannelSummary, 0, len(channels))
	for _, ch := range channels {
		summaries = append(summaries, entities.ChannelSummary{
			ID:       ch.TelegramID,
			Title:    ch.Title,
			Username: ch.Username,
		})
	}

	u.logger.Debug().
		Int64("user_id", r.UserID).
		Str("correlation_id", r.CorrelationID).
		Int("channels", len(summaries)).
		Msg("subscriptions listed")

	return entities.SubscriptionList{
		ChatID:        user.ChatID,
		CorrelationID: r.CorrelationID,
		Channels:      summaries,
	}, nil
}

func channelName(name string) string {
	return strings.TrimPrefix(strings.TrimSpace(name), "@")
}
