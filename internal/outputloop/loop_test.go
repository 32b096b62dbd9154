package outputloop

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"k8s.io/utils/clock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoopTicksUntilStopped(t *testing.T) {
	t.Parallel()

	var ticks int32
	loop := newLoop(Config{OutputID: 1}, 1000, clock.RealClock{}, func(ctx context.Context, systemT uint64, frame uint32) error {
		atomic.AddInt32(&ticks, 1)
		return nil
	})

	loop.Start()
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, loop.Stop(time.Second))

	assert.Greater(t, atomic.LoadInt32(&ticks), int32(0))
}

func TestLoopStopTimesOutWhenTickBlocksForever(t *testing.T) {
	t.Parallel()

	block := make(chan struct{})
	loop := newLoop(Config{OutputID: 1}, 1000, clock.RealClock{}, func(ctx context.Context, systemT uint64, frame uint32) error {
		<-block
		return nil
	})

	loop.Start()
	time.Sleep(5 * time.Millisecond)

	err := loop.Stop(10 * time.Millisecond)
	assert.ErrorIs(t, err, ErrStopTimeout)
	close(block)
}
