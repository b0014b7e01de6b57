package service

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/time/rate"

	"github.com/alexanderramin/sharpen/internal/domain"
)

// CheckpointConfig bounds how often live-session checkpoints reach the store.
type CheckpointConfig struct {
	PerSecond float64 `toml:"per_second"`
	Burst     int     `toml:"burst"`
}

func DefaultCheckpointConfig() CheckpointConfig {
	return CheckpointConfig{PerSecond: 4, Burst: 8}
}

type checkpointSaver interface {
	SaveCheckpoint(ctx context.Context, cp domain.Checkpoint) error
}

// checkpointWriter persists checkpoints off the tick path. Enqueue never
// blocks; a newer checkpoint for a session replaces one still pending.
type checkpointWriter struct {
	store   checkpointSaver
	limiter *rate.Limiter
	logger  *slog.Logger

	mu      sync.Mutex
	pending map[string]domain.Checkpoint
	closed  bool

	// writeMu is held for the duration of a single store write so Forget can
	// wait out an in-flight write for its session.
	writeMu sync.Mutex

	wake   chan struct{}
	cancel context.CancelFunc
	done   chan struct{}
}

func newCheckpointWriter(store checkpointSaver, cfg CheckpointConfig, logger *slog.Logger) *checkpointWriter {
	limit := rate.Limit(cfg.PerSecond)
	if cfg.PerSecond <= 0 {
		limit = rate.Inf
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	w := &checkpointWriter{
		store:   store,
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger,
		pending: make(map[string]domain.Checkpoint),
		wake:    make(chan struct{}, 1),
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	go w.run(ctx)
	return w
}

func (w *checkpointWriter) Enqueue(cp domain.Checkpoint) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.pending[cp.SessionID] = cp
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// Forget drops any pending checkpoint for the session and returns once no
// write for it is in flight.
func (w *checkpointWriter) Forget(sessionID string) {
	w.mu.Lock()
	delete(w.pending, sessionID)
	w.mu.Unlock()

	w.writeMu.Lock()
	//nolint:staticcheck // empty critical section waits for the in-flight write
	w.writeMu.Unlock()
}

// Close stops the background worker and writes whatever is still pending.
func (w *checkpointWriter) Close(ctx context.Context) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	w.cancel()
	<-w.done

	var firstErr error
	for {
		cp, ok := w.pop()
		if !ok {
			return firstErr
		}
		if err := w.store.SaveCheckpoint(ctx, cp); err != nil && firstErr == nil {
			firstErr = err
		}
	}
}

func (w *checkpointWriter) run(ctx context.Context) {
	defer close(w.done)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.wake:
		}
		w.drain(ctx)
	}
}

func (w *checkpointWriter) drain(ctx context.Context) {
	for {
		if err := w.limiter.Wait(ctx); err != nil {
			return
		}
		w.writeMu.Lock()
		cp, ok := w.pop()
		if !ok {
			w.writeMu.Unlock()
			return
		}
		if err := w.store.SaveCheckpoint(context.WithoutCancel(ctx), cp); err != nil {
			w.logger.WarnContext(ctx, "checkpoint write failed",
				"session_id", cp.SessionID,
				"error", err,
			)
		}
		w.writeMu.Unlock()
	}
}

func (w *checkpointWriter) pop() (domain.Checkpoint, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for id, cp := range w.pending {
		delete(w.pending, id)
		return cp, true
	}
	return domain.Checkpoint{}, false
}
