package taskgate

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandshakeTimesOut(t *testing.T) {
	var mu sync.Mutex
	var outcomes []Outcome

	h := newHandshake(20*time.Millisecond, time.Now, func(_ *handshake, o Outcome, _ time.Duration) {
		mu.Lock()
		outcomes = append(outcomes, o)
		mu.Unlock()
	})
	_ = h

	time.Sleep(80 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, outcomes, 1)
	assert.Equal(t, OutcomeTimedOut, outcomes[0])
}

func TestHandshakeReadyWinsAndCancelsTimer(t *testing.T) {
	var mu sync.Mutex
	var outcomes []Outcome

	h := newHandshake(30*time.Millisecond, time.Now, func(_ *handshake, o Outcome, _ time.Duration) {
		mu.Lock()
		outcomes = append(outcomes, o)
		mu.Unlock()
	})

	assert.True(t, h.ready(time.Now))

	// Wait well past the timeout: the cancelled timer must never fire
	// its effect.
	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, outcomes, 1)
	assert.Equal(t, OutcomeReady, outcomes[0])
}

func TestHandshakeLateReadyIsNoop(t *testing.T) {
	var count atomic.Int32

	h := newHandshake(10*time.Millisecond, time.Now, func(_ *handshake, _ Outcome, _ time.Duration) {
		count.Add(1)
	})

	time.Sleep(60 * time.Millisecond)
	assert.False(t, h.ready(time.Now))
	assert.Equal(t, int32(1), count.Load())
}

func TestHandshakeCancelSuppressesEverything(t *testing.T) {
	var count atomic.Int32

	h := newHandshake(10*time.Millisecond, time.Now, func(_ *handshake, _ Outcome, _ time.Duration) {
		count.Add(1)
	})
	h.cancel()

	time.Sleep(60 * time.Millisecond)
	assert.False(t, h.ready(time.Now))
	assert.Equal(t, int32(0), count.Load())
}

func TestHandshakeResolutionRace(t *testing.T) {
	// Explicit ready racing the timer: exactly one externally visible
	// resolution, never both, never neither.
	for i := 0; i < 50; i++ {
		var count atomic.Int32
		done := make(chan struct{})

		h := newHandshake(time.Millisecond, time.Now, func(_ *handshake, _ Outcome, _ time.Duration) {
			count.Add(1)
		})

		go func() {
			h.ready(time.Now)
			close(done)
		}()

		<-done
		time.Sleep(5 * time.Millisecond)
		assert.Equal(t, int32(1), count.Load(), "iteration %d", i)
	}
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "ready", OutcomeReady.String())
	assert.Equal(t, "timed_out", OutcomeTimedOut.String())
	assert.Equal(t, "unknown", Outcome(42).String())
}
