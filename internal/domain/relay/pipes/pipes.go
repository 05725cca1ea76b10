// Package pipes holds the bounded channels connecting the relay actors
package pipes

import (
	"context"
	"time"

	pkgerrors "github.com/Conte777/NewsFlow/services/relay-service/pkg/errors"

	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/relay/entities"
)

// ErrEnqueueTimeout is returned when a bounded channel stays full for the whole timeout
var ErrEnqueueTimeout = pkgerrors.NewUnavailableError("enqueue timed out")

// Pipes groups every channel of the relay.
//
//	normalizer -> BotEvents -> bot actor -> BotRequests -> router -> AppRequests -> application
//	application -> AppResponses -> router -> BotResponses -> bot actor
//	normalizer -> ReaderContents -> reader actor
type Pipes struct {
	BotEvents      chan entities.InboundEvent
	ReaderContents chan entities.ContentItem

	BotRequests  chan entities.Request
	AppRequests  chan entities.Request
	AppResponses chan entities.Response
	BotResponses chan entities.Response
}

// New creates pipes with eventBuffer slots on the normalized streams and
// pipeCapacity slots on the request and response pipes
func New(eventBuffer, pipeCapacity int) *Pipes {
	return &Pipes{
		BotEvents:      make(chan entities.InboundEvent, eventBuffer),
		ReaderContents: make(chan entities.ContentItem, eventBuffer),
		BotRequests:    make(chan entities.Request, pipeCapacity),
		AppRequests:    make(chan entities.Request, pipeCapacity),
		AppResponses:   make(chan entities.Response, pipeCapacity),
		BotResponses:   make(chan entities.Response, pipeCapacity),
	}
}

// Enqueue sends v to ch, giving up after timeout or when ctx is done
func Enqueue[T any](ctx context.Context, ch chan<- T, v T, timeout time.Duration) error {
	select {
	case ch <- v:
		return nil
	default:
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case ch <- v:
		return nil
	case <-timer.C:
		return ErrEnqueueTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Send sends v to ch, blocking until it is accepted or ctx is done
func Send[T any](ctx context.Context, ch chan<- T, v T) error {
	select {
	case ch <- v:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
