package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/sharpen/internal/domain"
	"github.com/alexanderramin/sharpen/internal/testutil"
)

type recordingSaver struct {
	mu    sync.Mutex
	saved map[string][]domain.Checkpoint
}

func (r *recordingSaver) SaveCheckpoint(_ context.Context, cp domain.Checkpoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saved == nil {
		r.saved = make(map[string][]domain.Checkpoint)
	}
	r.saved[cp.SessionID] = append(r.saved[cp.SessionID], cp)
	return nil
}

func (r *recordingSaver) last(id string) (domain.Checkpoint, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cps := r.saved[id]
	if len(cps) == 0 {
		return domain.Checkpoint{}, false
	}
	return cps[len(cps)-1], true
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newStalledWriter returns a writer whose worker cannot write until Close.
func newStalledWriter(saver checkpointSaver) *checkpointWriter {
	w := newCheckpointWriter(saver, CheckpointConfig{PerSecond: 0.001, Burst: 1}, discardLogger())
	w.limiter.Allow()
	return w
}

func TestCheckpointWriter_CloseFlushesLatest(t *testing.T) {
	saver := &recordingSaver{}
	w := newStalledWriter(saver)

	cp := testutil.NewTestCheckpoint("breath-478")
	for i := int64(1); i <= 5; i++ {
		cp.ElapsedMs = i * 1000
		w.Enqueue(cp)
	}
	require.NoError(t, w.Close(context.Background()))

	got, ok := saver.last(cp.SessionID)
	require.True(t, ok)
	assert.Equal(t, int64(5000), got.ElapsedMs)
}

func TestCheckpointWriter_ForgetDropsPending(t *testing.T) {
	saver := &recordingSaver{}
	w := newStalledWriter(saver)

	kept := testutil.NewTestCheckpoint("breath-478")
	dropped := testutil.NewTestCheckpoint("box-breathing")
	w.Enqueue(kept)
	w.Enqueue(dropped)
	w.Forget(dropped.SessionID)
	require.NoError(t, w.Close(context.Background()))

	_, ok := saver.last(kept.SessionID)
	assert.True(t, ok)
	_, ok = saver.last(dropped.SessionID)
	assert.False(t, ok)
}

func TestCheckpointWriter_EnqueueAfterCloseIsIgnored(t *testing.T) {
	saver := &recordingSaver{}
	w := newCheckpointWriter(saver, CheckpointConfig{}, discardLogger())
	require.NoError(t, w.Close(context.Background()))

	cp := testutil.NewTestCheckpoint("breath-478")
	w.Enqueue(cp)
	require.NoError(t, w.Close(context.Background()))

	_, ok := saver.last(cp.SessionID)
	assert.False(t, ok)
}
