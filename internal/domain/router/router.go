// Package router brings both Telegram connections up and moves requests and
// responses between the bot actor and the application layer
package router

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/relay/entities"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/relay/pipes"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/infrastructure/metrics"
	pkgerrors "github.com/Conte777/NewsFlow/services/relay-service/pkg/errors"
)

const disconnectTimeout = 10 * time.Second

// State is the lifecycle state of the router
type State int

const (
	StateNotStarted State = iota
	StateStarting
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	default:
		return "stopped"
	}
}

var (
	ErrAlreadyStarted   = pkgerrors.NewConflictError("router already started")
	ErrStartInProgress  = pkgerrors.NewConflictError("router start in progress")
	ErrConnectionFailed = pkgerrors.NewUnavailableError("failed to bring up connections")
	ErrBotSetupFailed   = pkgerrors.NewInternalError("bot actor setup failed")
)

// Connection is a Telegram connection owned by the router
type Connection interface {
	// Connect returns once the connection is authorized and ready
	Connect(ctx context.Context) error
	// Run blocks while the connection receives updates
	Run(ctx context.Context) error
	Disconnect(ctx context.Context) error
	IsConnected() bool
}

// BotActor is the actor serving bot users
type BotActor interface {
	Setup(ctx context.Context) error
	Run(ctx context.Context, events <-chan entities.InboundEvent, responses <-chan entities.Response, requests chan<- entities.Request) error
}

// ReaderActor is the actor owning the reader connection
type ReaderActor interface {
	Run(ctx context.Context, contents <-chan entities.ContentItem) error
}

// Router supervises the connections and actors of the relay
type Router struct {
	bot         Connection
	reader      Connection
	botActor    BotActor
	readerActor ReaderActor
	pipes       *pipes.Pipes
	metrics     *metrics.Metrics
	logger      zerolog.Logger

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
	tasks  sync.WaitGroup
}

// New creates a router in StateNotStarted
func New(
	bot, reader Connection,
	botActor BotActor,
	readerActor ReaderActor,
	p *pipes.Pipes,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *Router {
	return &Router{
		bot:         bot,
		reader:      reader,
		botActor:    botActor,
		readerActor: readerActor,
		pipes:       p,
		metrics:     m,
		logger:      logger.With().Str("component", "router").Logger(),
	}
}

// State returns the current lifecycle state
func (r *Router) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// BotConnected reports whether the bot connection is ready
func (r *Router) BotConnected() bool {
	return r.bot.IsConnected()
}

// ReaderConnected reports whether the reader connection is ready
func (r *Router) ReaderConnected() bool {
	return r.reader.IsConnected()
}

func (r *Router) setState(s State) {
	r.state = s
	r.metrics.SetRouterState(int(s))
}

// Start connects both connections in parallel, sets the bot actor up and
// launches the actors, the polling workers and both forwarding loops.
// A failed start leaves the router stopped with both connections closed.
func (r *Router) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.state != StateNotStarted {
		r.mu.Unlock()
		return ErrAlreadyStarted
	}
	r.setState(StateStarting)
	r.mu.Unlock()

	r.logger.Info().Msg("Bringing up Telegram connections")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := r.bot.Connect(gctx); err != nil {
			return fmt.Errorf("bot: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := r.reader.Connect(gctx); err != nil {
			return fmt.Errorf("reader: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		r.abortStart()
		return fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	if err := r.botActor.Setup(ctx); err != nil {
		r.abortStart()
		return fmt.Errorf("%w: %w", ErrBotSetupFailed, err)
	}

	runCtx, cancel := context.WithCancel(context.Background())

	r.mu.Lock()
	r.cancel = cancel
	r.setState(StateRunning)
	r.mu.Unlock()

	r.spawn(runCtx, "bot_actor", func(ctx context.Context) error {
		return r.botActor.Run(ctx, r.pipes.BotEvents, r.pipes.BotResponses, r.pipes.BotRequests)
	})
	r.spawn(runCtx, "reader_actor", func(ctx context.Context) error {
		return r.readerActor.Run(ctx, r.pipes.ReaderContents)
	})
	r.spawn(runCtx, "bot_worker", r.bot.Run)
	r.spawn(runCtx, "reader_worker", r.reader.Run)
	r.spawn(runCtx, "request_forwarder", r.forwardRequests)
	r.spawn(runCtx, "response_forwarder", r.forwardResponses)

	r.logger.Info().Msg("Router started")
	return nil
}

func (r *Router) abortStart() {
	ctx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
	defer cancel()

	if err := r.disconnect(ctx); err != nil {
		r.logger.Warn().Err(err).Msg("Failed to close connections after aborted start")
	}

	r.mu.Lock()
	r.setState(StateStopped)
	r.mu.Unlock()
}

// Stop cancels all tasks and closes both connections. Safe to call multiple times.
func (r *Router) Stop(ctx context.Context) error {
	r.mu.Lock()
	switch r.state {
	case StateStopped:
		r.mu.Unlock()
		return nil
	case StateNotStarted:
		r.setState(StateStopped)
		r.mu.Unlock()
		return nil
	case StateStarting:
		r.mu.Unlock()
		return ErrStartInProgress
	}
	cancel := r.cancel
	r.setState(StateStopped)
	r.mu.Unlock()

	r.logger.Info().Msg("Stopping router")
	cancel()

	done := make(chan struct{})
	go func() {
		r.tasks.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		r.logger.Warn().Msg("Timed out waiting for router tasks")
	}

	err := r.disconnect(ctx)
	r.logger.Info().Msg("Router stopped")
	return err
}

func (r *Router) disconnect(ctx context.Context) error {
	var errs []error
	if err := r.bot.Disconnect(ctx); err != nil {
		errs = append(errs, fmt.Errorf("bot: %w", err))
	}
	if err := r.reader.Disconnect(ctx); err != nil {
		errs = append(errs, fmt.Errorf("reader: %w", err))
	}
	return errors.Join(errs...)
}

// spawn runs a task until it returns. Exits are never restarted.
func (r *Router) spawn(ctx context.Context, name string, task func(ctx context.Context) error) {
	r.tasks.Add(1)
	go func() {
		defer r.tasks.Done()

		err := runTask(ctx, task)
		abnormal := err != nil
		r.metrics.RecordTaskExit(name, abnormal)

		log := r.logger.With().Str("task", name).Logger()
		switch {
		case abnormal:
			log.Error().Err(err).Msg("Task exited abnormally, running degraded")
		case ctx.Err() == nil:
			log.Warn().Msg("Task exited, running degraded")
		default:
			log.Debug().Msg("Task stopped")
		}
	}()
}

func runTask(ctx context.Context, task func(ctx context.Context) error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v\n%s", p, debug.Stack())
		}
	}()
	return task(ctx)
}

// forwardRequests moves requests from the bot actor to the application
func (r *Router) forwardRequests(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case req := <-r.pipes.BotRequests:
			if err := pipes.Send(ctx, r.pipes.AppRequests, req); err != nil {
				return nil
			}
			r.metrics.RequestsForwarded.Inc()
		}
	}
}

// forwardResponses moves responses from the application to the bot actor
func (r *Router) forwardResponses(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case resp := <-r.pipes.AppResponses:
			if err := pipes.Send(ctx, r.pipes.BotResponses, resp); err != nil {
				return nil
			}
			r.metrics.ResponsesRouted.Inc()
		}
	}
}
