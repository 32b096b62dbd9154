// Package outputloop runs one cooperative task per output at a fixed
// target FPS: build a fresh render target, run the compositor against the
// shared project under a read lock, hand the snapshot to the output's
// sink, then sleep to the next tick.
package outputloop

import (
	"context"
	"errors"
	"time"

	"k8s.io/utils/clock"

	"github.com/nightgrid/halo/internal/logging"
	"github.com/nightgrid/halo/internal/model"
)

// Target FPS per output kind, per the fixed schedule each loop runs at.
const (
	FPSSerialDMX = 30
	FPSSacnDMX   = 100
	FPSWled      = 30
)

// ErrStopTimeout is returned by Stop when a loop doesn't exit within its
// bounded join timeout.
var ErrStopTimeout = errors.New("halo: output loop did not stop within timeout")

// Config identifies one output loop's configuration for equality-based
// diffing in Manager.RebuildAll. Two configs compare equal with == when
// every field (including sACN universe/IP identity) matches.
type Config struct {
	OutputID      uint64
	Kind          model.OutputKind
	SacnUniverse  uint16
	SacnIPAddress string
	WledIPAddress string
}

// Loop drives one output's render-and-send cycle.
type Loop struct {
	config Config
	fps    int
	clk    clock.Clock
	tick   func(ctx context.Context, systemT uint64, frame uint32) error

	cancel chan struct{}
	done   chan struct{}
}

func newLoop(config Config, fps int, clk clock.Clock, tick func(ctx context.Context, systemT uint64, frame uint32) error) *Loop {
	return &Loop{
		config: config,
		fps:    fps,
		clk:    clk,
		tick:   tick,
		cancel: make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Start launches the loop's goroutine.
func (l *Loop) Start() {
	go l.run()
}

func (l *Loop) run() {
	defer close(l.done)

	var frame uint32
	interval := time.Second / time.Duration(l.fps)

	for {
		select {
		case <-l.cancel:
			return
		default:
		}

		start := l.clk.Now()
		systemT := uint64(start.UnixMilli())

		if err := l.tick(context.Background(), systemT, frame); err != nil {
			logging.WithFields(map[string]interface{}{"output_id": l.config.OutputID}).
				WithError(err).Warn("frame dropped")
		}
		frame++

		elapsed := l.clk.Now().Sub(start)
		if sleepFor := interval - elapsed; sleepFor > 0 {
			l.clk.Sleep(sleepFor)
		}
	}
}

// Stop signals cancellation and waits up to timeout for the loop to exit.
func (l *Loop) Stop(timeout time.Duration) error {
	close(l.cancel)
	select {
	case <-l.done:
		return nil
	case <-l.clk.After(timeout):
		return ErrStopTimeout
	}
}
