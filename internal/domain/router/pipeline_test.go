package router

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/bot/consts"
	botbusiness "github.com/Conte777/NewsFlow/services/relay-service/internal/domain/bot/usecase/business"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/relay/entities"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/relay/pipes"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/infrastructure/metrics"
)

type countingSender struct{ sent atomic.Int32 }

func (s *countingSender) SendMessage(context.Context, int64, string) error {
	s.sent.Add(1)
	return nil
}

func (s *countingSender) SetCommands(context.Context, []consts.Command) error { return nil }

func (s *countingSender) SelfID(context.Context) (int64, error) { return 1, nil }

type noResolver struct{}

func (noResolver) ResolveChannel(context.Context, string) (entities.ChannelIdentity, error) {
	return entities.ChannelIdentity{}, errors.New("not found")
}

// answerLists plays the application: every ListSubscriptions gets a SubscriptionList back
func answerLists(ctx context.Context, p *pipes.Pipes) {
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-p.AppRequests:
			list, ok := req.(entities.ListSubscriptions)
			if !ok {
				continue
			}
			resp := entities.SubscriptionList{ChatID: list.UserID, CorrelationID: list.CorrelationID}
			if pipes.Send(ctx, p.AppResponses, entities.Response(resp)) != nil {
				return
			}
		}
	}
}

func TestRouter_ListBurstDoesNotStall(t *testing.T) {
	const burst = 2000

	m := metrics.GetDefaultMetrics()
	p := pipes.New(burst, 10)
	sender := &countingSender{}
	actor := botbusiness.NewActor(sender, noResolver{}, m, zerolog.Nop())

	r := New(&fakeConnection{}, &fakeConnection{}, actor, fakeReaderActor{}, p, m, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go answerLists(ctx, p)

	for i := 0; i < burst; i++ {
		p.BotEvents <- entities.InboundEvent{ChatID: int64(i + 10), UserID: int64(i + 10), Text: "/list", IsCommand: true}
	}

	require.NoError(t, r.Start(context.Background()))
	defer r.Stop(context.Background())

	require.Eventually(t, func() bool {
		return sender.sent.Load() == burst
	}, 10*time.Second, 10*time.Millisecond)
}
