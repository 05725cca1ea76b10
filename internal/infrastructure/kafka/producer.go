// Package kafka publishes post events to Kafka
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"

	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/posts/dto"
	postserrors "github.com/Conte777/NewsFlow/services/relay-service/internal/domain/posts/errors"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/infrastructure/metrics"
)

// Producer sends post events using an asynchronous producer.
// Delivery results are only logged and counted.
type Producer struct {
	producer sarama.AsyncProducer
	topic    string
	metrics  *metrics.Metrics
	logger   zerolog.Logger

	wg        sync.WaitGroup
	closeMu   sync.RWMutex
	closed    bool
	closeOnce sync.Once
	closeErr  error
}

// NewProducer connects to brokers and creates a producer for topic
func NewProducer(brokers []string, topic string, m *metrics.Metrics, logger zerolog.Logger) (*Producer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("no kafka brokers specified")
	}
	if topic == "" {
		return nil, fmt.Errorf("kafka topic is required")
	}

	ap, err := sarama.NewAsyncProducer(brokers, newConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	p := newProducer(ap, topic, m, logger)
	p.logger.Info().
		Strs("brokers", brokers).
		Str("topic", topic).
		Msg("Kafka producer initialized successfully")
	return p, nil
}

func newConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.ClientID = "relay-service-producer"
	cfg.Version = sarama.V2_6_0_0

	cfg.Producer.Return.Successes = true
	cfg.Producer.Return.Errors = true
	cfg.Producer.Compression = sarama.CompressionSnappy
	cfg.Producer.Idempotent = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Net.MaxOpenRequests = 1
	cfg.Producer.Retry.Max = 5

	// posts of one channel keep their order
	cfg.Producer.Partitioner = sarama.NewHashPartitioner
	return cfg
}

func newProducer(ap sarama.AsyncProducer, topic string, m *metrics.Metrics, logger zerolog.Logger) *Producer {
	p := &Producer{
		producer: ap,
		topic:    topic,
		metrics:  m,
		logger:   logger.With().Str("component", "kafka_producer").Logger(),
	}

	p.wg.Add(2)
	go p.handleSuccesses()
	go p.handleErrors()
	return p
}

// PublishPost queues a post event keyed by channel id
func (p *Producer) PublishPost(ctx context.Context, event dto.PostEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal post event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic:     p.topic,
		Key:       sarama.StringEncoder(strconv.FormatInt(event.ChannelID, 10)),
		Value:     sarama.ByteEncoder(value),
		Timestamp: event.PublishedAt,
		Metadata:  event.MessageID,
	}

	p.closeMu.RLock()
	defer p.closeMu.RUnlock()
	if p.closed {
		return postserrors.ErrPublisherClosed
	}

	select {
	case p.producer.Input() <- msg:
		p.logger.Debug().
			Int64("channel_id", event.ChannelID).
			Int("message_id", event.MessageID).
			Msg("Post event queued")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("context cancelled while sending message: %w", ctx.Err())
	}
}

func (p *Producer) handleSuccesses() {
	defer p.wg.Done()
	for msg := range p.producer.Successes() {
		p.metrics.RecordPublish(nil)
		p.logger.Debug().
			Int32("partition", msg.Partition).
			Int64("offset", msg.Offset).
			Interface("message_id", msg.Metadata).
			Msg("Post event delivered")
	}
}

func (p *Producer) handleErrors() {
	defer p.wg.Done()
	for perr := range p.producer.Errors() {
		p.metrics.RecordPublish(perr.Err)
		p.logger.Error().Err(perr.Err).
			Interface("message_id", perr.Msg.Metadata).
			Msg("Failed to deliver post event")
	}
}

// Close flushes pending messages and waits for the result handlers
func (p *Producer) Close() error {
	p.closeOnce.Do(func() {
		p.closeMu.Lock()
		p.closed = true
		p.closeMu.Unlock()

		p.logger.Info().Msg("Closing Kafka producer")
		p.closeErr = p.producer.Close()
		p.wg.Wait()
	})
	return p.closeErr
}

// NoopPublisher drops post events; used when no broker is configured
type NoopPublisher struct{}

// PublishPost implements deps.Publisher
func (NoopPublisher) PublishPost(context.Context, dto.PostEvent) error {
	return nil
}
