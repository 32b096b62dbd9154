package outputloop

import (
	"context"
	"testing"
	"time"

	"k8s.io/utils/clock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nightgrid/halo/internal/model"
	"github.com/nightgrid/halo/internal/projectstore"
	"github.com/nightgrid/halo/internal/render"
)

type memorySinks struct {
	dmx  *render.MemoryDmxSink
	wled *render.MemoryWledSink
}

func (s *memorySinks) DmxSink(outputID uint64) render.DmxSink   { return s.dmx }
func (s *memorySinks) WledSink(outputID uint64) render.WledSink { return s.wled }

func dimmerDmxProject() model.Project {
	return model.Project{
		ActivePatch: 1,
		ActiveScene: 1,
		Patches: map[uint64]model.Patch{
			1: {Outputs: map[uint64]model.Output{
				1: {Kind: model.OutputKindSerialDmx, DmxFixtures: map[uint64]model.PhysicalDmxFixture{
					100: {FixtureDefinitionID: 1, FixtureMode: "dimmer"},
				}},
			}},
		},
		FixtureDefs: map[uint64]model.DmxFixtureDefinition{
			1: {Modes: map[string]model.Mode{
				"dimmer": {Channels: map[uint32]model.Channel{
					0: {Type: "dimmer", Mapping: model.ChannelMapping{Kind: model.MappingKindAmount, MinValue: 0, MaxValue: 255}},
				}},
			}},
		},
		Scenes:   map[uint64]model.Scene{1: {}},
		LiveBeat: &model.BeatMetadata{LengthMs: 1000},
	}
}

func TestDesiredConfigsFromActivePatch(t *testing.T) {
	t.Parallel()

	project := dimmerDmxProject()
	configs := DesiredConfigs(&project)

	require.Len(t, configs, 1)
	assert.Equal(t, Config{OutputID: 1, Kind: model.OutputKindSerialDmx}, configs[1])
}

func TestDesiredConfigsMissingActivePatchIsEmpty(t *testing.T) {
	t.Parallel()

	project := model.Project{ActivePatch: 99}
	assert.Nil(t, DesiredConfigs(&project))
}

func TestManagerRebuildAllStartsLoopThatSendsFrames(t *testing.T) {
	t.Parallel()

	project := dimmerDmxProject()
	store := projectstore.New(project)
	sinks := &memorySinks{dmx: render.NewMemoryDmxSink(), wled: render.NewMemoryWledSink()}
	manager := NewManager(store, sinks, clock.RealClock{})

	require.NoError(t, manager.RebuildAll(DesiredConfigs(&project)))
	time.Sleep(20 * time.Millisecond)

	_, ok := sinks.dmx.Last(1)
	assert.True(t, ok)

	require.NoError(t, manager.RebuildAll(nil))
	assert.Empty(t, manager.loops)
}

func TestManagerRebuildAllLeavesUnchangedLoopRunning(t *testing.T) {
	t.Parallel()

	project := dimmerDmxProject()
	store := projectstore.New(project)
	sinks := &memorySinks{dmx: render.NewMemoryDmxSink(), wled: render.NewMemoryWledSink()}
	manager := NewManager(store, sinks, clock.RealClock{})

	desired := DesiredConfigs(&project)
	require.NoError(t, manager.RebuildAll(desired))
	first := manager.loops[1].loop

	require.NoError(t, manager.RebuildAll(desired))
	assert.Same(t, first, manager.loops[1].loop)

	require.NoError(t, manager.RebuildAll(nil))
}

func TestManagerRebuildAllAggregatesStopTimeouts(t *testing.T) {
	t.Parallel()

	project := dimmerDmxProject()
	store := projectstore.New(project)
	sinks := &memorySinks{dmx: render.NewMemoryDmxSink(), wled: render.NewMemoryWledSink()}
	manager := NewManager(store, sinks, clock.RealClock{})

	block := make(chan struct{})
	stuck := newLoop(Config{OutputID: 1}, 1000, clock.RealClock{}, func(ctx context.Context, systemT uint64, frame uint32) error {
		<-block
		return nil
	})
	stuck.Start()
	manager.loops[1] = &runningLoop{loop: stuck, config: Config{OutputID: 1}}

	err := manager.RebuildAll(nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "output 1 did not stop in time")
	close(block)
}
