package business

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gotd/td/tg"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	readererrors "github.com/Conte777/NewsFlow/services/relay-service/internal/domain/reader/errors"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/relay/entities"
)

type fakeConnection struct {
	channels map[string]entities.ChannelIdentity
	history  map[int64][]*tg.Message
	err      error
}

func (f *fakeConnection) ResolveChannel(_ context.Context, username string) (entities.ChannelIdentity, error) {
	if f.err != nil {
		return entities.ChannelIdentity{}, f.err
	}
	ch, ok := f.channels[username]
	if !ok {
		return entities.ChannelIdentity{}, readererrors.ErrChannelNotFound
	}
	return ch, nil
}

func (f *fakeConnection) ChannelHistory(_ context.Context, channelID int64, limit int) ([]*tg.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	msgs, ok := f.history[channelID]
	if !ok {
		return nil, readererrors.ErrChannelNotResolved
	}
	if len(msgs) > limit {
		msgs = msgs[:limit]
	}
	return msgs, nil
}

func (f *fakeConnection) Channels(context.Context) ([]entities.ChannelIdentity, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]entities.ChannelIdentity, 0, len(f.channels))
	for _, ch := range f.channels {
		out = append(out, ch)
	}
	return out, nil
}

type fakeSink struct {
	mu    sync.Mutex
	items []entities.ContentItem
	err   error
}

func (s *fakeSink) Store(_ context.Context, item entities.ContentItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, item)
	return s.err
}

func (s *fakeSink) stored() []entities.ContentItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entities.ContentItem(nil), s.items...)
}

func newConnection() *fakeConnection {
	return &fakeConnection{
		channels: map[string]entities.ChannelIdentity{
			"news": {ID: 10, AccessHash: 1, Title: "News", Username: "news"},
		},
		history: map[int64][]*tg.Message{
			10: {
				{ID: 3, PeerID: &tg.PeerChannel{ChannelID: 10}, Date: 30, Message: "third"},
				{ID: 2, PeerID: &tg.PeerChannel{ChannelID: 10}, Date: 20, Media: &tg.MessageMediaPoll{}},
				{ID: 1, PeerID: &tg.PeerChannel{ChannelID: 10}, Date: 10, Message: "first",
					Entities: []tg.MessageEntityClass{&tg.MessageEntityItalic{Offset: 0, Length: 5}}},
			},
		},
	}
}

func TestActor_ResolveChannel(t *testing.T) {
	a := NewActor(newConnection(), zerolog.Nop())

	identity, err := a.ResolveChannel(context.Background(), "news")
	require.NoError(t, err)
	assert.Equal(t, int64(10), identity.ID)

	_, err = a.ResolveChannel(context.Background(), "missing")
	require.ErrorIs(t, err, readererrors.ErrChannelNotFound)
}

func TestActor_FetchHistory(t *testing.T) {
	a := NewActor(newConnection(), zerolog.Nop())

	items, err := a.FetchHistory(context.Background(), 10, 100)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "third", items[0].Text)
	assert.Equal(t, "<i>first</i>", items[1].Text)
	assert.Equal(t, int64(10), items[1].ChannelID)

	items, err = a.FetchHistory(context.Background(), 10, 1)
	require.NoError(t, err)
	require.Len(t, items, 1)

	_, err = a.FetchHistory(context.Background(), 99, 10)
	require.ErrorIs(t, err, readererrors.ErrChannelNotResolved)
}

func TestActor_ListChannels(t *testing.T) {
	a := NewActor(newConnection(), zerolog.Nop())

	channels, err := a.ListChannels(context.Background())
	require.NoError(t, err)
	require.Len(t, channels, 1)

	boom := errors.New("boom")
	a = NewActor(&fakeConnection{err: boom}, zerolog.Nop())
	_, err = a.ListChannels(context.Background())
	require.ErrorIs(t, err, boom)
}

func TestActor_Run(t *testing.T) {
	a := NewActor(newConnection(), zerolog.Nop())
	sink := &fakeSink{err: errors.New("store failed")}
	a.SetSink(sink)

	contents := make(chan entities.ContentItem, 2)
	contents <- entities.ContentItem{ChannelID: 10, MessageID: 1, Text: "a"}
	contents <- entities.ContentItem{ChannelID: 10, MessageID: 2, Text: "b"}
	close(contents)

	err := a.Run(context.Background(), contents)
	require.ErrorIs(t, err, readererrors.ErrContentStreamClosed)
	assert.Len(t, sink.stored(), 2)
}

func TestActor_RunWithoutSink(t *testing.T) {
	a := NewActor(newConnection(), zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	contents := make(chan entities.ContentItem, 1)
	contents <- entities.ContentItem{ChannelID: 10, MessageID: 1, Text: "a"}

	done := make(chan error, 1)
	go func() { done <- a.Run(ctx, contents) }()

	require.Eventually(t, func() bool { return len(contents) == 0 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

// overlapConnection records whether two calls were ever in flight together
type overlapConnection struct {
	inFlight atomic.Int32
	overlap  atomic.Bool
	calls    atomic.Int32
}

func (c *overlapConnection) enter() func() {
	if c.inFlight.Add(1) > 1 {
		c.overlap.Store(true)
	}
	c.calls.Add(1)
	time.Sleep(time.Millisecond)
	return func() { c.inFlight.Add(-1) }
}

func (c *overlapConnection) ResolveChannel(context.Context, string) (entities.ChannelIdentity, error) {
	defer c.enter()()
	return entities.ChannelIdentity{ID: 1, Username: "news"}, nil
}

func (c *overlapConnection) ChannelHistory(context.Context, int64, int) ([]*tg.Message, error) {
	defer c.enter()()
	return nil, nil
}

func (c *overlapConnection) Channels(context.Context) ([]entities.ChannelIdentity, error) {
	defer c.enter()()
	return nil, nil
}

func TestActor_SerialisesConnectionCalls(t *testing.T) {
	conn := &overlapConnection{}
	a := NewActor(conn, zerolog.Nop())
	ctx := context.Background()

	const workers = 8
	const rounds = 5

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < rounds; j++ {
				_, err := a.ResolveChannel(ctx, "news")
				assert.NoError(t, err)
				_, err = a.FetchHistory(ctx, 1, 10)
				assert.NoError(t, err)
				_, err = a.ListChannels(ctx)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(workers*rounds*3), conn.calls.Load())
	assert.False(t, conn.overlap.Load(), "connection calls overlapped")
}
