package outputloop

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gruntwork-io/go-commons/errors"
	"golang.org/x/exp/maps"
	"k8s.io/utils/clock"

	"github.com/nightgrid/halo/internal/model"
	"github.com/nightgrid/halo/internal/projectstore"
	"github.com/nightgrid/halo/internal/render"
)

// StopJoinTimeout bounds how long RebuildAll waits for a removed or
// changed loop to exit before abandoning the handle.
const StopJoinTimeout = 500 * time.Millisecond

// Sinks resolves the transport for a given output id. A manager-wide
// implementation can back this with real DMX/WLED transports; tests use
// in-memory sinks.
type Sinks interface {
	DmxSink(outputID uint64) render.DmxSink
	WledSink(outputID uint64) render.WledSink
}

type runningLoop struct {
	loop   *Loop
	config Config
}

// Manager owns the set of currently-running output loops and reconciles
// them against a project's desired configuration.
type Manager struct {
	mu    sync.Mutex
	loops map[uint64]*runningLoop

	store *projectstore.Store
	sinks Sinks
	clk   clock.Clock
}

// NewManager builds a Manager that renders from store and ships frames
// through sinks, using clk for timing (k8s.io/utils/clock.RealClock{} in
// production, a fake clock in tests).
func NewManager(store *projectstore.Store, sinks Sinks, clk clock.Clock) *Manager {
	return &Manager{
		loops: make(map[uint64]*runningLoop),
		store: store,
		sinks: sinks,
		clk:   clk,
	}
}

// DesiredConfigs derives the loop configuration each output in the active
// patch wants, from the project's current state.
func DesiredConfigs(project *model.Project) map[uint64]Config {
	patch, ok := project.Patches[project.ActivePatch]
	if !ok {
		return nil
	}
	configs := make(map[uint64]Config, len(patch.Outputs))
	for outputID, output := range patch.Outputs {
		configs[outputID] = Config{
			OutputID:      outputID,
			Kind:          output.Kind,
			SacnUniverse:  output.SacnUniverse,
			SacnIPAddress: output.SacnIPAddress,
			WledIPAddress: output.WledIPAddress,
		}
	}
	return configs
}

func fpsFor(kind model.OutputKind) int {
	switch kind {
	case model.OutputKindSacnDmx:
		return FPSSacnDMX
	case model.OutputKindWled:
		return FPSWled
	default:
		return FPSSerialDMX
	}
}

// RebuildAll diffs the desired configs against the currently running
// loops by exact configuration equality. Loops whose config disappeared
// or changed are stopped (bounded by StopJoinTimeout); loops for new or
// changed configs are started. Stop failures don't abort the rebuild —
// every changed/removed loop is still given a chance to stop and start
// again — but they're aggregated and returned so a caller can surface
// them instead of losing all but the last one to a log line.
func (m *Manager) RebuildAll(desired map[uint64]Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var stopErrs []error
	for outputID, running := range m.loops {
		want, ok := desired[outputID]
		if ok && want == running.config {
			continue
		}
		if err := running.loop.Stop(StopJoinTimeout); err != nil {
			stopErrs = append(stopErrs, fmt.Errorf("output %d did not stop in time: %w", outputID, err))
		}
		delete(m.loops, outputID)
	}

	for outputID, config := range desired {
		if _, ok := m.loops[outputID]; ok {
			continue
		}
		loop := m.startLoop(config)
		m.loops[outputID] = &runningLoop{loop: loop, config: config}
	}

	if len(stopErrs) == 0 {
		return nil
	}
	return errors.NewMultiError(stopErrs...)
}

func (m *Manager) startLoop(config Config) *Loop {
	fps := fpsFor(config.Kind)

	var tick func(ctx context.Context, systemT uint64, frame uint32) error
	switch config.Kind {
	case model.OutputKindWled:
		sink := m.sinks.WledSink(config.OutputID)
		tick = func(ctx context.Context, systemT uint64, frame uint32) error {
			return m.renderAndSendWled(ctx, config.OutputID, sink, systemT, frame)
		}
	default:
		sink := m.sinks.DmxSink(config.OutputID)
		tick = func(ctx context.Context, systemT uint64, frame uint32) error {
			return m.renderAndSendDmx(ctx, config.OutputID, sink, systemT, frame)
		}
	}

	loop := newLoop(config, fps, m.clk, tick)
	loop.Start()
	return loop
}

func (m *Manager) renderAndSendDmx(ctx context.Context, outputID uint64, sink render.DmxSink, systemT uint64, frame uint32) error {
	var snapshot [render.UniverseSize]byte
	err := m.store.View(func(project *model.Project) error {
		patch, ok := project.Patches[project.ActivePatch]
		if !ok {
			return fmt.Errorf("%w: active patch", model.ErrConfigMissing)
		}
		output, ok := patch.Outputs[outputID]
		if !ok {
			return fmt.Errorf("%w: output %d", model.ErrConfigMissing, outputID)
		}
		if output.Kind == model.OutputKindWled {
			return model.ErrInvalidOutputKind
		}

		target := render.NewDmxTarget(&output, project.FixtureDefs)
		mode := currentRenderMode(project)
		if err := ApplyRenderMode[*render.DmxTarget](target, project, mode, systemT, frame); err != nil {
			return err
		}
		snapshot = target.Snapshot()
		return nil
	})
	if err != nil {
		return err
	}
	if err := sink.Send(ctx, uint32(outputID), snapshot); err != nil {
		return fmt.Errorf("%w: %v", model.ErrSinkError, err)
	}
	return nil
}

func (m *Manager) renderAndSendWled(ctx context.Context, outputID uint64, sink render.WledSink, systemT uint64, frame uint32) error {
	var snapshot []render.SegmentPayload
	err := m.store.View(func(project *model.Project) error {
		patch, ok := project.Patches[project.ActivePatch]
		if !ok {
			return fmt.Errorf("%w: active patch", model.ErrConfigMissing)
		}
		output, ok := patch.Outputs[outputID]
		if !ok {
			return fmt.Errorf("%w: output %d", model.ErrConfigMissing, outputID)
		}
		if output.Kind != model.OutputKindWled {
			return model.ErrInvalidOutputKind
		}

		segmentIDs := maps.Keys(output.WledSegments)
		target := render.NewWledTarget(segmentIDs)
		mode := currentRenderMode(project)
		if err := ApplyRenderMode[*render.WledTarget](target, project, mode, systemT, frame); err != nil {
			return err
		}
		snapshot = target.Snapshot()
		return nil
	})
	if err != nil {
		return err
	}
	if err := sink.Send(ctx, snapshot); err != nil {
		return fmt.Errorf("%w: %v", model.ErrSinkError, err)
	}
	return nil
}

// currentRenderMode defaults to Show (render the active scene) — the
// project doesn't carry a dedicated "current mode" field in this core, so
// hosts wanting Blackout/FixtureDebug/GroupDebug during setup should drive
// ApplyRenderMode directly instead of through the loop manager.
func currentRenderMode(project *model.Project) model.RenderMode {
	return model.RenderMode{Kind: model.RenderModeShow}
}
