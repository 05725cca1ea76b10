package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/posts/dto"
	postserrors "github.com/Conte777/NewsFlow/services/relay-service/internal/domain/posts/errors"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/infrastructure/metrics"
)

func mockConfig() *sarama.Config {
	cfg := mocks.NewTestConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.Return.Errors = true
	return cfg
}

func TestNewProducer_Validation(t *testing.T) {
	_, err := NewProducer(nil, "posts.received", metrics.GetDefaultMetrics(), zerolog.Nop())
	require.EqualError(t, err, "no kafka brokers specified")

	_, err = NewProducer([]string{"localhost:9092"}, "", metrics.GetDefaultMetrics(), zerolog.Nop())
	require.EqualError(t, err, "kafka topic is required")
}

func TestProducer_PublishPost(t *testing.T) {
	m := metrics.GetDefaultMetrics()
	before := testutil.ToFloat64(m.PostsPublished)

	event := dto.PostEvent{
		ChannelID:   10,
		ChannelName: "news",
		MessageID:   42,
		Content:     "<b>hi</b>",
		PublishedAt: time.Unix(1700000000, 0).UTC(),
	}

	ap := mocks.NewAsyncProducer(t, mockConfig())
	ap.ExpectInputWithCheckerFunctionAndSucceed(func(value []byte) error {
		var got dto.PostEvent
		if err := json.Unmarshal(value, &got); err != nil {
			return err
		}
		if got.ChannelID != event.ChannelID || got.MessageID != event.MessageID ||
			got.Content != event.Content || !got.PublishedAt.Equal(event.PublishedAt) {
			return errors.New("unexpected event payload")
		}
		return nil
	})

	p := newProducer(ap, "posts.received", m, zerolog.Nop())
	require.NoError(t, p.PublishPost(context.Background(), event))
	require.NoError(t, p.Close())

	require.Equal(t, before+1, testutil.ToFloat64(m.PostsPublished))
}

func TestProducer_DeliveryFailure(t *testing.T) {
	m := metrics.GetDefaultMetrics()
	before := testutil.ToFloat64(m.PublishErrors)

	ap := mocks.NewAsyncProducer(t, mockConfig())
	ap.ExpectInputAndFail(sarama.ErrOutOfBrokers)

	p := newProducer(ap, "posts.received", m, zerolog.Nop())
	require.NoError(t, p.PublishPost(context.Background(), dto.PostEvent{ChannelID: 1, MessageID: 1}))
	require.NoError(t, p.Close())

	require.Equal(t, before+1, testutil.ToFloat64(m.PublishErrors))
}

func TestProducer_Closed(t *testing.T) {
	ap := mocks.NewAsyncProducer(t, mockConfig())
	p := newProducer(ap, "posts.received", metrics.GetDefaultMetrics(), zerolog.Nop())
	require.NoError(t, p.Close())
	require.NoError(t, p.Close())

	err := p.PublishPost(context.Background(), dto.PostEvent{ChannelID: 1, MessageID: 1})
	require.ErrorIs(t, err, postserrors.ErrPublisherClosed)
}

func TestNoopPublisher(t *testing.T) {
	require.NoError(t, NoopPublisher{}.PublishPost(context.Background(), dto.PostEvent{}))
}
