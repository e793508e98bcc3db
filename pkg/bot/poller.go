package bot

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/VladPetriv/flastel/pkg/errs"
	"github.com/VladPetriv/flastel/pkg/logger"
	"github.com/VladPetriv/flastel/pkg/models"
	"github.com/cenkalti/backoff/v4"
)

// UpdatesFetcher fetches batches of updates.
type UpdatesFetcher interface {
	FetchUpdates(ctx context.Context, offset int) ([]RawUpdate, error)
}

// Dispatcher routes one update to its handler.
type Dispatcher interface {
	Dispatch(ctx context.Context, update *models.Update) error
}

// OffsetStore persists the polling offset between restarts.
type OffsetStore interface {
	GetOffset(ctx context.Context) (int, error)
	SaveOffset(ctx context.Context, offset int) error
}

const (
	defaultBackoffInitialInterval = time.Second
	defaultBackoffMaxInterval     = 20 * time.Minute
)

// Poller receives updates via long polling and dispatches them one by one.
//
// The offset is advanced after the dispatch of an update finished, so an update
// that was being handled when the process crashed is delivered again.
type Poller struct {
	fetcher    UpdatesFetcher
	dispatcher Dispatcher
	store      OffsetStore
	logger     *logger.Logger

	interval               time.Duration
	backoffInitialInterval time.Duration
	backoffMaxInterval     time.Duration

	mu     sync.Mutex
	offset int
}

// PollerOptions represents input options for new instance of poller.
type PollerOptions struct {
	Fetcher    UpdatesFetcher
	Dispatcher Dispatcher
	// OffsetStore is optional, without it polling starts from the updates Telegram hasn't confirmed yet.
	OffsetStore OffsetStore
	Logger      *logger.Logger

	// Interval represents a pause between two polls.
	Interval time.Duration
	// BackoffInitialInterval and BackoffMaxInterval limit the pause after failed poll.
	BackoffInitialInterval time.Duration
	BackoffMaxInterval     time.Duration
}

// NewPoller returns new instance of poller.
func NewPoller(opts PollerOptions) *Poller {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	p := &Poller{
		fetcher:                opts.Fetcher,
		dispatcher:             opts.Dispatcher,
		store:                  opts.OffsetStore,
		logger:                 log.Named("poller"),
		interval:               opts.Interval,
		backoffInitialInterval: opts.BackoffInitialInterval,
		backoffMaxInterval:     opts.BackoffMaxInterval,
	}

	if p.backoffInitialInterval <= 0 {
		p.backoffInitialInterval = defaultBackoffInitialInterval
	}
	if p.backoffMaxInterval <= 0 {
		p.backoffMaxInterval = defaultBackoffMaxInterval
	}

	return p
}

// Offset returns the next expected update ID.
func (p *Poller) Offset() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.offset
}

func (p *Poller) setOffset(offset int) {
	p.mu.Lock()
	p.offset = offset
	p.mu.Unlock()
}

func (p *Poller) newBackoff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.backoffInitialInterval
	b.MaxInterval = p.backoffMaxInterval
	// Never give up, transport failures are retried until the context is done.
	b.MaxElapsedTime = 0
	b.Reset()

	return b
}

// Run polls updates until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) error {
	logger := p.logger

	if p.store != nil {
		offset, err := p.store.GetOffset(ctx)
		if err != nil {
			return fmt.Errorf("get polling offset: %w", err)
		}

		p.setOffset(offset)
	}

	logger.Info().Int("offset", p.Offset()).Msg("polling started")

	retry := p.newBackoff()

	for {
		if ctx.Err() != nil {
			logger.Info().Msg("polling stopped")
			return nil
		}

		updates, err := p.fetcher.FetchUpdates(ctx, p.Offset())
		if err != nil {
			if ctx.Err() != nil {
				logger.Info().Msg("polling stopped")
				return nil
			}

			wait := retry.NextBackOff()
			logger.Error().Err(err).Dur("retryIn", wait).Msg("fetch updates")

			if !sleep(ctx, wait) {
				logger.Info().Msg("polling stopped")
				return nil
			}

			continue
		}
		retry.Reset()

		logger.Debug().Int("count", len(updates)).Msg("fetched updates")
		p.processBatch(ctx, updates)

		if !sleep(ctx, p.interval) {
			logger.Info().Msg("polling stopped")
			return nil
		}
	}
}

func (p *Poller) processBatch(ctx context.Context, updates []RawUpdate) {
	for _, update := range updates {
		p.handleUpdate(ctx, update)

		offset := update.ID + 1
		p.setOffset(offset)

		if p.store != nil {
			err := p.store.SaveOffset(ctx, offset)
			if err != nil {
				p.logger.Error().Err(err).Int("offset", offset).Msg("save polling offset")
			}
		}
	}
}

// handleUpdate dispatches one update. Errors and panics never leave it, so the rest of the batch is processed.
func (p *Poller) handleUpdate(ctx context.Context, raw RawUpdate) {
	logger := p.logger.With().Int("updateID", raw.ID).Logger()

	defer func() {
		if r := recover(); r != nil {
			logger.Error().
				Any("panic", r).
				Str("stack", string(debug.Stack())).
				Msg("recovered from panic while dispatching update")
		}
	}()

	update, err := models.ParseUpdate(raw.Payload)
	if err != nil {
		logger.Warn().Err(err).Msg("skipped malformed update")
		return
	}

	err = p.dispatcher.Dispatch(ctx, update)
	if err != nil {
		if errs.IsExpected(err) {
			logger.Info().Err(err).Msg("dispatch update")
			return
		}

		logger.Error().Err(err).Msg("dispatch update")
		return
	}

	logger.Debug().Str("kind", string(update.Kind())).Msg("dispatched update")
}

// sleep waits for d and reports whether ctx is still alive.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
