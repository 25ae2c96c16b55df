package ready

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type handle struct{ name string }

func countingProbe(readyAt int64, calls *atomic.Int64) Probe[*handle] {
	return func(ctx context.Context) (*handle, bool) {
		n := calls.Add(1)
		if readyAt > 0 && n >= readyAt {
			return &handle{name: "maps"}, true
		}
		return nil, false
	}
}

func TestAwait_ImmediatelyAvailable(t *testing.T) {
	var calls atomic.Int64
	g := New("t", countingProbe(1, &calls), time.Hour, 100)

	h, err := g.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "maps", h.name)
	assert.Equal(t, int64(1), calls.Load())
}

func TestAwait_ResolvesAfterPolling(t *testing.T) {
	var calls atomic.Int64
	g := New("t", countingProbe(4, &calls), time.Millisecond, 100)

	h, err := g.Await(context.Background())
	require.NoError(t, err)
	require.NotNil(t, h)
	assert.Equal(t, int64(4), calls.Load())
}

func TestAwait_TimesOutAndStopsPolling(t *testing.T) {
	var calls atomic.Int64
	g := New("t", countingProbe(0, &calls), time.Millisecond, 100)

	h, err := g.Await(context.Background())
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Nil(t, h)
	// 一次立即探测 + 100 次间隔轮询
	assert.Equal(t, int64(101), calls.Load())

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int64(101), calls.Load())
}

func TestAwait_CanceledMidPoll(t *testing.T) {
	var calls atomic.Int64
	g := New("t", countingProbe(0, &calls), 5*time.Millisecond, 1000)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := g.Await(ctx)
		done <- err
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("gate did not stop after cancel")
	}
	n := calls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, n, calls.Load())
}

func TestNew_Defaults(t *testing.T) {
	g := New[*handle]("t", nil, 0, 0)
	assert.Equal(t, 100*time.Millisecond, g.Interval)
	assert.Equal(t, 100, g.MaxAttempts)
}
