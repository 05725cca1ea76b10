// Package business stores channel posts and keeps them in sync with channel history
package business

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/posts/deps"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/posts/dto"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/posts/entities"
	postserrors "github.com/Conte777/NewsFlow/services/relay-service/internal/domain/posts/errors"
	readererrors "github.com/Conte777/NewsFlow/services/relay-service/internal/domain/reader/errors"
	relayentities "github.com/Conte777/NewsFlow/services/relay-service/internal/domain/relay/entities"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/infrastructure/metrics"
)

type UseCase struct {
	reader       deps.Reader
	repo         deps.Repository
	publisher    deps.Publisher
	historyLimit int
	metrics      *metrics.Metrics
	logger       zerolog.Logger
}

func NewUseCase(
	reader deps.Reader,
	repo deps.Repository,
	publisher deps.Publisher,
	historyLimit int,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *UseCase {
	return &UseCase{
		reader:       reader,
		repo:         repo,
		publisher:    publisher,
		historyLimit: historyLimit,
		metrics:      m,
		logger:       logger.With().Str("component", "posts_usecase").Logger(),
	}
}

// Store persists a live channel post. Posts of channels nobody subscribed to are ignored.
func (u *UseCase) Store(ctx context.Context, item relayentities.ContentItem) error {
	ref, err := u.repo.ChannelByTelegramID(ctx, item.ChannelID)
	if errors.Is(err, postserrors.ErrChannelUnknown) {
		u.logger.Debug().Int64("channel_id", item.ChannelID).Msg("post of unsubscribed channel ignored")
		return nil
	}
	if err != nil {
		return err
	}

	stored, err := u.save(ctx, ref, item)
	if err != nil {
		return err
	}
	if stored {
		u.metrics.RecordPostStored()
	}
	return nil
}

// SyncAll syncs the history of every subscribed channel and returns the number of new posts.
// A failing channel does not stop the cycle.
func (u *UseCase) SyncAll(ctx context.Context) (int, error) {
	refs, err := u.repo.SubscribedChannels(ctx)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, ref := range refs {
		if ctx.Err() != nil {
			return total, ctx.Err()
		}

		stored, err := u.SyncChannel(ctx, ref)
		total += stored
		if err != nil {
			u.metrics.SyncErrors.Inc()
			u.logger.Warn().Err(err).Str("channel", ref.Username).Msg("channel sync failed")
		}
	}
	return total, nil
}

// SyncChannel fetches the latest history of a channel and stores unseen posts
func (u *UseCase) SyncChannel(ctx context.Context, ref entities.ChannelRef) (int, error) {
	items, err := u.fetch(ctx, ref)
	if err != nil {
		return 0, err
	}

	known, err := u.repo.KnownPostIDs(ctx, ref.ID)
	if err != nil {
		return 0, err
	}

	stored := 0
	for _, item := range items {
		if _, ok := known[item.MessageID]; ok {
			continue
		}
		isNew, err := u.save(ctx, ref, item)
		if err != nil {
			return stored, err
		}
		if isNew {
			stored++
		}
	}

	u.logger.Debug().
		Str("channel", ref.Username).
		Int("fetched", len(items)).
		Int("stored", stored).
		Msg("channel synced")
	return stored, nil
}

// fetch reads history with the cached access hash and resolves the channel
// by username only when no access hash is known yet
func (u *UseCase) fetch(ctx context.Context, ref entities.ChannelRef) ([]relayentities.ContentItem, error) {
	items, err := u.reader.FetchHistory(ctx, ref.TelegramID, u.historyLimit)
	if !errors.Is(err, readererrors.ErrChannelNotResolved) {
		return items, err
	}

	identity, err := u.reader.ResolveChannel(ctx, ref.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", ref.Username, err)
	}
	return u.reader.FetchHistory(ctx, identity.ID, u.historyLimit)
}

func (u *UseCase) save(ctx context.Context, ref entities.ChannelRef, item relayentities.ContentItem) (bool, error) {
	if item.MessageID <= 0 || item.Text == "" {
		return false, postserrors.ErrInvalidPost
	}

	isNew, err := u.repo.SavePost(ctx, &entities.Post{
		ChannelID:  ref.ID,
		TelegramID: item.MessageID,
		Content:    item.Text,
		PubDate:    item.Date,
	})
	if err != nil || !isNew {
		return false, err
	}

	event := dto.PostEvent{
		ChannelID:   item.ChannelID,
		ChannelName: ref.Username,
		MessageID:   item.MessageID,
		Content:     item.Text,
		PublishedAt: item.Date,
	}
	if err := u.publisher.PublishPost(ctx, event); err != nil {
		u.logger.Error().Err(err).
			Str("channel", ref.Username).
			Int("message_id", item.MessageID).
			Msg("failed to publish post")
	}
	return true, nil
}
