package workers

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Conte777/NewsFlow/services/relay-service/config"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/posts/usecase/business"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/infrastructure/metrics"
)

// Readiness reports whether the reader connection can serve requests
type Readiness interface {
	IsConnected() bool
}

// SyncWorker periodically pulls the history of subscribed channels
type SyncWorker struct {
	postsUseCase *business.UseCase
	reader       Readiness
	interval     time.Duration
	timeout      time.Duration
	metrics      *metrics.Metrics
	logger       zerolog.Logger

	done   chan struct{}
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// NewSyncWorker creates a new channel history sync worker
func NewSyncWorker(
	postsUseCase *business.UseCase,
	reader Readiness,
	syncCfg *config.SyncConfig,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *SyncWorker {
	ctx, cancel := context.WithCancel(context.Background())

	return &SyncWorker{
		postsUseCase: postsUseCase,
		reader:       reader,
		interval:     syncCfg.Interval,
		timeout:      syncCfg.Timeout,
		metrics:      m,
		logger:       logger.With().Str("component", "sync_worker").Logger(),
		done:         make(chan struct{}),
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Start starts the sync worker
func (w *SyncWorker) Start() {
	w.logger.Info().
		Dur("interval", w.interval).
		Dur("timeout", w.timeout).
		Msg("Starting channel sync worker")

	w.wg.Add(1)
	go w.run()
}

// Stop gracefully stops the sync worker
func (w *SyncWorker) Stop() {
	w.logger.Info().Msg("Stopping channel sync worker")

	w.cancel()
	close(w.done)
	w.wg.Wait()

	w.logger.Info().Msg("Channel sync worker stopped")
}

func (w *SyncWorker) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			w.sync()
		}
	}
}

// sync performs a single sync cycle; cycles are skipped while the reader is down
func (w *SyncWorker) sync() {
	if !w.reader.IsConnected() {
		w.logger.Debug().Msg("Reader not connected, skipping sync cycle")
		return
	}

	ctx, cancel := context.WithTimeout(w.ctx, w.timeout)
	defer cancel()

	started := time.Now()
	stored, err := w.postsUseCase.SyncAll(ctx)
	w.metrics.RecordSync(stored, time.Since(started).Seconds())

	if err != nil {
		w.metrics.SyncErrors.Inc()
		if ctx.Err() != nil {
			w.logger.Warn().Err(err).Msg("Channel sync cancelled or timed out")
		} else {
			w.logger.Error().Err(err).Msg("Channel sync failed")
		}
		return
	}

	w.logger.Debug().Int("stored", stored).Msg("Channel sync cycle completed")
}
