package clock

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testStart = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

type recorder struct {
	mu      sync.Mutex
	ticks   []time.Duration
	expires int
}

func (r *recorder) tick(remaining time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ticks = append(r.ticks, remaining)
}

func (r *recorder) expire() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.expires++
}

func TestCountdown_TicksAndExpires(t *testing.T) {
	src := NewManual(testStart)
	rec := &recorder{}
	c := StartCountdown(src, 3*time.Second, rec.tick, rec.expire)

	src.Advance(5 * time.Second)

	assert.Equal(t, []time.Duration{2 * time.Second, time.Second}, rec.ticks)
	assert.Equal(t, 1, rec.expires)
	assert.Equal(t, 3*time.Second, c.Elapsed())
	assert.Equal(t, time.Duration(0), c.Remaining())
	assert.False(t, c.Running())
	assert.Equal(t, 0, src.Pending())
}

func TestCountdown_PauseFreezesRemaining(t *testing.T) {
	src := NewManual(testStart)
	rec := &recorder{}
	c := StartCountdown(src, 10*time.Second, rec.tick, rec.expire)

	src.Advance(2500 * time.Millisecond)
	require.True(t, c.Pause())
	frozen := c.Remaining()
	assert.Equal(t, 7500*time.Millisecond, frozen)

	src.Advance(time.Minute)
	assert.Equal(t, frozen, c.Remaining())
	assert.Len(t, rec.ticks, 2)
	assert.Equal(t, 0, rec.expires)

	require.True(t, c.Resume())
	src.Advance(7500 * time.Millisecond)
	assert.Equal(t, 1, rec.expires)
	assert.Equal(t, 10*time.Second, c.Elapsed())
}

func TestCountdown_PauseResumeWrongState(t *testing.T) {
	src := NewManual(testStart)
	c := StartCountdown(src, 10*time.Second, nil, nil)

	assert.False(t, c.Resume(), "resume while running")
	assert.True(t, c.Pause())
	assert.False(t, c.Pause(), "pause while paused")
	c.Cancel()
	assert.False(t, c.Resume(), "resume after cancel")
}

func TestCountdown_CancelIsIdempotentAndSilences(t *testing.T) {
	src := NewManual(testStart)
	rec := &recorder{}
	c := StartCountdown(src, 3*time.Second, rec.tick, rec.expire)

	src.Advance(time.Second)
	c.Cancel()
	c.Cancel()
	src.Advance(10 * time.Second)

	assert.Len(t, rec.ticks, 1)
	assert.Equal(t, 0, rec.expires)
	assert.Equal(t, time.Second, c.Elapsed())
	assert.Equal(t, 0, src.Pending())
}

func TestCountdown_CancelFromExpireCallback(t *testing.T) {
	src := NewManual(testStart)
	var c *Countdown
	fired := 0
	c = StartCountdown(src, time.Second, nil, func() {
		fired++
		c.Cancel()
	})

	src.Advance(2 * time.Second)
	assert.Equal(t, 1, fired)
}

func TestCountdown_StaleGenerationDoesNotExpire(t *testing.T) {
	src := NewManual(testStart)
	rec := &recorder{}
	c := StartCountdown(src, 2*time.Second, rec.tick, rec.expire)

	// Expiry timer from the first segment is captured before pause.
	stale := c.generation
	require.True(t, c.Pause())
	require.True(t, c.Resume())
	c.expire(stale)

	assert.Equal(t, 0, rec.expires)
	assert.True(t, c.Running())
}

func TestCountdown_SystemSource(t *testing.T) {
	done := make(chan struct{})
	c := StartCountdown(System{}, 30*time.Millisecond, nil, func() { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("countdown did not expire")
	}
	assert.Equal(t, 30*time.Millisecond, c.Elapsed())
	c.Cancel()
}
