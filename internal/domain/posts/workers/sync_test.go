package workers

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/Conte777/NewsFlow/services/relay-service/config"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/posts/dto"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/posts/entities"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/posts/usecase/business"
	relayentities "github.com/Conte777/NewsFlow/services/relay-service/internal/domain/relay/entities"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/infrastructure/metrics"
)

type readiness struct{ connected atomic.Bool }

func (r *readiness) IsConnected() bool { return r.connected.Load() }

type countingReader struct{ fetches atomic.Int32 }

func (r *countingReader) ResolveChannel(context.Context, string) (relayentities.ChannelIdentity, error) {
	return relayentities.ChannelIdentity{ID: 10, Username: "news"}, nil
}

func (r *countingReader) FetchHistory(context.Context, int64, int) ([]relayentities.ContentItem, error) {
	r.fetches.Add(1)
	return []relayentities.ContentItem{{ChannelID: 10, MessageID: 1, Text: "a"}}, nil
}

type memoryRepo struct {
	mu    sync.Mutex
	saved map[int]bool
}

func (m *memoryRepo) ChannelByTelegramID(context.Context, int64) (entities.ChannelRef, error) {
	return entities.ChannelRef{ID: 1, TelegramID: 10, Username: "news"}, nil
}

func (m *memoryRepo) SubscribedChannels(context.Context) ([]entities.ChannelRef, error) {
	return []entities.ChannelRef{{ID: 1, TelegramID: 10, Username: "news"}}, nil
}

func (m *memoryRepo) KnownPostIDs(context.Context, uint) (map[int]struct{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	known := map[int]struct{}{}
	for id := range m.saved {
		known[id] = struct{}{}
	}
	return known, nil
}

func (m *memoryRepo) SavePost(_ context.Context, post *entities.Post) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saved[post.TelegramID] {
		return false, nil
	}
	m.saved[post.TelegramID] = true
	return true, nil
}

type nopPublisher struct{}

func (nopPublisher) PublishPost(context.Context, dto.PostEvent) error { return nil }

func newWorker(reader *countingReader, ready *readiness) (*SyncWorker, *memoryRepo) {
	repo := &memoryRepo{saved: map[int]bool{}}
	m := metrics.GetDefaultMetrics()
	uc := business.NewUseCase(reader, repo, nopPublisher{}, 100, m, zerolog.Nop())
	w := NewSyncWorker(uc, ready, &config.SyncConfig{
		Enabled:      true,
		Interval:     10 * time.Millisecond,
		Timeout:      time.Second,
		HistoryLimit: 100,
	}, m, zerolog.Nop())
	return w, repo
}

func TestSyncWorker_SyncsWhenConnected(t *testing.T) {
	reader := &countingReader{}
	ready := &readiness{}
	ready.connected.Store(true)

	w, repo := newWorker(reader, ready)
	w.Start()
	require.Eventually(t, func() bool { return reader.fetches.Load() >= 2 }, time.Second, 5*time.Millisecond)
	w.Stop()

	repo.mu.Lock()
	defer repo.mu.Unlock()
	require.Len(t, repo.saved, 1)
}

func TestSyncWorker_SkipsWhenDisconnected(t *testing.T) {
	reader := &countingReader{}
	w, _ := newWorker(reader, &readiness{})

	w.Start()
	time.Sleep(50 * time.Millisecond)
	w.Stop()

	require.Zero(t, reader.fetches.Load())
}
